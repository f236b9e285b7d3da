package infer

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/config"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/env"
	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/types"
)

func (c *Checker) inferWhile(x *ast.While, e *env.Env) types.Type {
	scope := e.Clone()
	scope.SetCurrFor(x)
	c.unifyAt(x.Cond, c.infer(x.Cond, scope), types.Bool)
	c.unifyAt(x.Body, c.infer(x.Body, scope), types.Unit)
	if x.Exit != nil {
		c.infer(x.Exit, scope)
	}
	return types.Unit
}

func (c *Checker) inferFor(x *ast.For, e *env.Env) types.Type {
	scope := e.Clone()
	scope.SetCurrFor(x)

	for _, start := range x.Starts {
		initTy := c.infer(start.Init, scope)
		scope.AddLocal(start.Name, true, initTy)
	}
	if x.Stop != nil {
		c.unifyAt(x.Stop, c.infer(x.Stop, scope), types.Bool)
	}
	for _, step := range x.Steps {
		b, ok := scope.GetLocal(step.Name)
		if !ok {
			c.errAt(x, diag.ErrR003, "unknown induction variable %s", step.Name)
			c.infer(step.Expr, scope)
			continue
		}
		stepTy := c.infer(step.Expr, scope)
		c.unifyAt(step.Expr, stepTy, b.Ty)
	}
	c.unifyAt(x.Body, c.infer(x.Body, scope), types.Unit)
	if x.Exit != nil {
		c.infer(x.Exit, scope)
	}
	return types.Unit
}

func builtinIter(name string, args []types.Type) types.TStruct {
	return types.TStruct{Name: names.Qualified(config.BuiltinPack, "", name), Args: args}
}

func (c *Checker) inferForIn(x *ast.ForIn, e *env.Env) types.Type {
	scope := e.Clone()
	scope.SetCurrFor(x)

	iterTy := c.infer(x.Iterable, scope)

	if len(x.Vars) > 2 {
		c.errAt(x, diag.ErrS005, "for-in accepts at most 2 variables, got %d", len(x.Vars))
	} else {
		method := config.IterMethodName
		iterName := config.IterTypeName
		arity := 1
		if len(x.Vars) == 2 {
			method = config.Iter2MethodName
			iterName = config.Iter2TypeName
			arity = 2
		}
		elems := c.resolveIter(x, iterTy, method, iterName, arity, scope)
		for i, v := range x.Vars {
			var ty types.Type = types.Unknown
			if i < len(elems) {
				ty = elems[i]
			}
			scope.AddLocal(v, false, ty)
		}
	}

	c.unifyAt(x.Body, c.infer(x.Body, scope), types.Unit)
	if x.Exit != nil {
		c.infer(x.Exit, scope)
	}
	return types.Unit
}

// resolveIter requires the iterable to expose the iteration method
// returning Struct(builtin(iterName), elems...) and returns the fresh
// element types bound to the loop variables.
func (c *Checker) resolveIter(x *ast.ForIn, iterTy types.Type, method, iterName string, arity int, e *env.Env) []types.Type {
	owner, ok := types.NameOf(compress(iterTy))
	if !ok {
		c.errAt(x, diag.ErrS004, "%s is not iterable", iterTy)
		return nil
	}
	mty, ok := e.MethodTy(owner, method)
	if !ok {
		c.errAt(x, diag.ErrS004, "%s has no %s method", owner, method)
		return nil
	}
	ft, ok := instantiate(mty).(types.TFunc)
	if !ok || len(ft.Params) != 1 {
		c.errAt(x, diag.ErrS004, "%s.%s must take exactly the receiver", owner, method)
		return nil
	}
	c.unifyAt(x.Iterable, iterTy, ft.Params[0])

	elems := make([]types.Type, arity)
	for i := range elems {
		elems[i] = types.FreshWeak()
	}
	c.unifyAt(x.Iterable, ft.Ret, builtinIter(iterName, elems))
	return elems
}

func (c *Checker) inferContinue(x *ast.Continue, e *env.Env) types.Type {
	loop, ok := e.CurrFor()
	if !ok {
		c.errAt(x, diag.ErrS002, "continue outside of a loop")
		for _, a := range x.Args {
			c.infer(a, e)
		}
		return types.Unit
	}

	var induction []string
	switch l := loop.(type) {
	case *ast.For:
		for _, s := range l.Starts {
			induction = append(induction, s.Name)
		}
	case *ast.ForIn:
		induction = l.Vars
	}

	if len(x.Args) > len(induction) {
		c.errAt(x, diag.ErrS003, "continue carries %d values, loop declares %d", len(x.Args), len(induction))
	}
	for i, a := range x.Args {
		argTy := c.infer(a, e)
		if i < len(induction) {
			if b, found := e.GetLocal(induction[i]); found {
				c.unifyAt(a, argTy, b.Ty)
			}
		}
	}
	return types.Unit
}

func (c *Checker) inferGuard(x *ast.Guard, e *env.Env) types.Type {
	c.unifyAt(x.Cond, c.infer(x.Cond, e), types.Bool)
	if x.Else != nil {
		c.infer(x.Else, e.Clone())
	}
	return types.Unit
}

// inferRange types lo..=hi and lo..<hi: the endpoints must join to Int
// or Long, and the range iterates Ints.
func (c *Checker) inferRange(x ast.Node, lo, hi ast.Node, e *env.Env) types.Type {
	loTy := c.infer(lo, e)
	hiTy := c.infer(hi, e)
	joined := c.unifyAt(x, loTy, hiTy)
	d := types.Deweak(joined)
	if d != types.Int && d != types.Long {
		c.errAt(x, diag.ErrX001, "range endpoints must be Int or Long, got %s", d)
	}
	return builtinIter(config.IterTypeName, []types.Type{types.Int})
}
