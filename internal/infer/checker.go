package infer

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/env"
	"github.com/funvibe/selene/internal/token"
	"github.com/funvibe/selene/internal/types"
)

// Checker assigns a type to every AST node. All diagnostics are
// non-fatal: a failed judgement yields Unknown and the walk continues.
type Checker struct {
	env  *env.Env
	sink *diag.Sink

	// fnFrames tracks locals declared per function body for the unused-
	// binding warning.
	fnFrames []*fnFrame
}

type fnFrame struct {
	declared []*declaredLocal
}

type declaredLocal struct {
	binding *env.Binding
	node    ast.Node
	used    bool
}

// NewChecker builds a checker over a bound environment.
func NewChecker(e *env.Env) *Checker {
	return &Checker{env: e, sink: e.Sink()}
}

// Check infers the bound AST and returns it with every node's type
// finalized: weak cells are collapsed, so no metavariable survives.
func (c *Checker) Check() ast.Node {
	root := c.env.AST()
	c.infer(root, c.env)
	return ast.FinalizeTypes(root, types.Deweak)
}

// infer assigns and returns the type of n within scope e.
func (c *Checker) infer(n ast.Node, e *env.Env) types.Type {
	if n == nil {
		return types.Unit
	}
	t := c.inferNode(n, e)
	if t == nil {
		t = types.Unknown
	}
	n.SetType(t)
	return t
}

func (c *Checker) inferNode(n ast.Node, e *env.Env) types.Type {
	switch x := n.(type) {
	// Literals.
	case *ast.IntLit:
		if x.Spec.Len == 64 {
			return types.Long
		}
		return types.Int
	case *ast.DoubleLit:
		return types.Double
	case *ast.FloatLit:
		return types.Float
	case *ast.StrLit:
		return types.String
	case *ast.FstrLit:
		return c.inferFstr(x, e)
	case *ast.BoolLit:
		return types.Bool
	case *ast.CharLit:
		return types.Char
	case *ast.ByteLit:
		return types.Int
	case *ast.ByteStrLit:
		return types.TFixedArray{Elem: types.Int}
	case *ast.ArrLit:
		return c.inferArr(x, e)
	case *ast.UnitLit:
		return types.Unit
	case *ast.Leaf:
		return types.Unit

	// Declarations.
	case *ast.FnDecl:
		return c.inferFnDecl(x, e)
	case *ast.ImplDecl:
		return c.inferImplDecl(x, e)
	case *ast.GlobalDecl:
		return c.inferGlobalDecl(x, e)
	case *ast.VarDecl:
		return c.inferVarDecl(x, e)
	case *ast.ParamDecl:
		return x.DeclTy()
	case *ast.TupleDecl:
		return c.inferTupleDecl(x, e)
	case *ast.StructLet:
		return c.inferStructLet(x, e)
	case *ast.EnumLet:
		return c.inferEnumLet(x, e)
	case *ast.StructDecl, *ast.EnumDecl, *ast.AbstractDecl,
		*ast.TraitDecl, *ast.TypealiasDecl, *ast.FnaliasDecl:
		return types.Unit

	// Expressions.
	case *ast.Block:
		return c.inferBlock(x, e)
	case *ast.If:
		return c.inferIf(x, e)
	case *ast.Match:
		return c.inferMatch(x, e)
	case *ast.Is:
		return c.inferIs(x, e)
	case *ast.TupleMake:
		return c.inferTupleMake(x, e)
	case *ast.TupleAccess:
		return c.inferTupleAccess(x, e)
	case *ast.Return:
		return c.inferReturn(x, e)
	case *ast.Break:
		return c.inferBreak(x, e)
	case *ast.Continue:
		return c.inferContinue(x, e)
	case *ast.EnumConstr:
		return c.inferEnumConstr(x, e)
	case *ast.StructInit:
		return c.inferStructInit(x, e)
	case *ast.StructModif:
		return c.inferStructModif(x, e)
	case *ast.FieldRef:
		return c.inferFieldRef(x, e)
	case *ast.ArrAccess:
		return c.inferArrAccess(x, e)
	case *ast.View:
		return c.inferView(x, e)
	case *ast.Call:
		return c.inferCall(x, e)
	case *ast.ChainCall:
		return c.inferChainCall(x, e)
	case *ast.Unary:
		return c.inferUnary(x, e)
	case *ast.Binary:
		return c.inferBinary(x, e)
	case *ast.BinaryInplace:
		return c.inferBinaryInplace(x, e)
	case *ast.VarRef:
		return c.inferVarRef(x, e)

	// Control flow.
	case *ast.While:
		return c.inferWhile(x, e)
	case *ast.For:
		return c.inferFor(x, e)
	case *ast.ForIn:
		return c.inferForIn(x, e)
	case *ast.Guard:
		return c.inferGuard(x, e)
	case *ast.IncRange:
		return c.inferRange(x, x.Lo, x.Hi, e)
	case *ast.ExcRange:
		return c.inferRange(x, x.Lo, x.Hi, e)
	case *ast.FFIBody:
		return types.Unit
	case *ast.Test:
		scope := e.Clone()
		c.unifyAt(x.Body, c.infer(x.Body, scope), types.Unit)
		return types.Unit
	}
	return types.Unknown
}

// unifyAt unifies got with want over n's span.
func (c *Checker) unifyAt(n ast.Node, got, want types.Type) types.Type {
	from, to := token.UnknownLoc(), token.UnknownLoc()
	if n != nil {
		from, to = n.Span()
	}
	return c.unify(got, want, from, to)
}
