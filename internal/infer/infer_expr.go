package infer

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/env"
	"github.com/funvibe/selene/internal/token"
	"github.com/funvibe/selene/internal/types"
)

func (c *Checker) inferBlock(x *ast.Block, e *env.Env) types.Type {
	if len(x.Stmts) == 0 {
		return types.Unit
	}
	scope := e.Clone()
	for _, s := range x.Stmts[:len(x.Stmts)-1] {
		c.infer(s, scope)
	}
	return c.infer(x.Stmts[len(x.Stmts)-1], scope)
}

func (c *Checker) inferIf(x *ast.If, e *env.Env) types.Type {
	c.unifyAt(x.Cond, c.infer(x.Cond, e), types.Bool)
	thenTy := c.infer(x.Then, e.Clone())
	if x.Else == nil {
		return c.unifyAt(x.Then, thenTy, types.Unit)
	}
	elseTy := c.infer(x.Else, e.Clone())
	return c.unifyAt(x, thenTy, elseTy)
}

func (c *Checker) inferMatch(x *ast.Match, e *env.Env) types.Type {
	subjectTy := c.infer(x.Subject, e)
	var result types.Type = types.FreshWeak()
	for _, arm := range x.Arms {
		scope := e.Clone()
		c.bindPattern(arm.Pat, subjectTy, scope)
		if arm.Guard != nil {
			c.unifyAt(arm.Guard, c.infer(arm.Guard, scope), types.Bool)
		}
		result = c.unifyAt(arm.Body, result, c.infer(arm.Body, scope))
	}
	return result
}

func (c *Checker) inferIs(x *ast.Is, e *env.Env) types.Type {
	exprTy := c.infer(x.Expr, e)
	scope := e.Clone()
	c.bindPattern(x.Pat, exprTy, scope)
	return types.Bool
}

// bindPattern types a pattern against the subject type. A standalone
// identifier binds a new local (`_` binds nothing); an enum constructor
// unifies the subject with its enum and binds its arguments; a tuple
// unifies the subject with a tuple of fresh element types and binds each
// element pattern; any other pattern is inferred as an expression and
// unified with the subject.
func (c *Checker) bindPattern(pat ast.Node, subjectTy types.Type, scope *env.Env) {
	switch p := pat.(type) {
	case nil:
		return
	case *ast.VarRef:
		if p.Name.Standalone() {
			if p.Name.Local == "_" {
				p.SetType(subjectTy)
				return
			}
			b := scope.AddLocal(p.Name.Local, false, subjectTy)
			c.trackLocal(b, p)
			c.markUsed(b)
			p.SetType(subjectTy)
			return
		}
	case *ast.EnumConstr:
		info, ok := scope.Enum(p.Enum)
		if !ok {
			c.errAt(p, diag.ErrR001, "unknown type %s", p.Enum)
			return
		}
		variant, ok := info.Variant(p.Variant)
		if !ok {
			c.errAt(p, diag.ErrR005, "%s has no variant %s", info.Name, p.Variant)
			return
		}
		args := make([]types.Type, len(info.TypeParams))
		for i := range args {
			args[i] = types.FreshWeak()
		}
		enumTy := types.TEnum{Name: info.Name, Args: args}
		c.unifyAt(p, subjectTy, enumTy)
		p.SetType(enumTy)
		if len(p.Args) != len(variant.Params) {
			c.errAt(p, diag.ErrU002, "variant %s expects %d values, got %d",
				p.Variant, len(variant.Params), len(p.Args))
		}
		for i, sub := range p.Args {
			if i < len(variant.Params) {
				c.bindPattern(sub, subst(variant.Params[i], info.TypeParams, args), scope)
			}
		}
		return
	case *ast.TupleMake:
		elems := make([]types.Type, len(p.Elems))
		for i := range elems {
			elems[i] = types.FreshWeak()
		}
		tupleTy := types.TTuple{Elems: elems}
		c.unifyAt(p, subjectTy, tupleTy)
		p.SetType(tupleTy)
		for i, sub := range p.Elems {
			c.bindPattern(sub, elems[i], scope)
		}
		return
	}
	c.unifyAt(pat, c.infer(pat, scope), subjectTy)
}

func (c *Checker) inferReturn(x *ast.Return, e *env.Env) types.Type {
	fnName, ok := e.CurrFn()
	if !ok {
		c.errAt(x, diag.ErrS001, "return outside of a function")
		if x.Value != nil {
			c.infer(x.Value, e)
		}
		return types.Unit
	}
	var valTy types.Type = types.Unit
	if x.Value != nil {
		valTy = c.infer(x.Value, e)
	}
	if ft, found := e.Fn(fnName); found {
		if f, isFn := ft.(types.TFunc); isFn {
			c.unifyAt(x, f.Ret, valTy)
		}
	}
	return types.Unit
}

func (c *Checker) inferBreak(x *ast.Break, e *env.Env) types.Type {
	if _, ok := e.CurrFor(); !ok {
		c.errAt(x, diag.ErrS002, "break outside of a loop")
	}
	if x.Value != nil {
		c.infer(x.Value, e)
	}
	return types.Unit
}

func (c *Checker) inferUnary(x *ast.Unary, e *env.Env) types.Type {
	operandTy := c.infer(x.Operand, e)
	if x.Op == token.BANG {
		return c.unifyAt(x.Operand, operandTy, types.Bool)
	}
	return operandTy
}

func (c *Checker) inferBinary(x *ast.Binary, e *env.Env) types.Type {
	lhsTy := c.infer(x.Lhs, e)
	rhsTy := c.infer(x.Rhs, e)
	c.unifyAt(x, lhsTy, rhsTy)
	switch x.Op {
	case token.AND, token.OR, token.LT, token.LTE, token.GT, token.GTE,
		token.EQ, token.NOT_EQ:
		return types.Bool
	case token.ASSIGN:
		c.checkAssignable(x.Lhs, e)
		return types.Unit
	default:
		return lhsTy
	}
}

func (c *Checker) inferBinaryInplace(x *ast.BinaryInplace, e *env.Env) types.Type {
	lhsTy := c.infer(x.Lhs, e)
	rhsTy := c.infer(x.Rhs, e)
	c.unifyAt(x, lhsTy, rhsTy)
	c.checkAssignable(x.Lhs, e)
	return types.Unit
}

// checkAssignable flags assignment to an immutable local binding.
func (c *Checker) checkAssignable(lhs ast.Node, e *env.Env) {
	ref, ok := lhs.(*ast.VarRef)
	if !ok || !ref.Name.Standalone() {
		return
	}
	if b, found := e.GetLocal(ref.Name.Local); found && !b.Mutable {
		c.errAt(lhs, diag.ErrS008, "cannot assign to immutable binding %s", ref.Name.Local)
	}
}
