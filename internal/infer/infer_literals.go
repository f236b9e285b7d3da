package infer

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/env"
	"github.com/funvibe/selene/internal/types"
)

func (c *Checker) inferFstr(x *ast.FstrLit, e *env.Env) types.Type {
	for _, part := range x.Parts {
		c.infer(part, e)
	}
	return types.String
}

func (c *Checker) inferArr(x *ast.ArrLit, e *env.Env) types.Type {
	var elem types.Type = types.FreshWeak()
	for _, el := range x.Elems {
		elem = c.unifyAt(el, elem, c.infer(el, e))
	}
	return types.TFixedArray{Elem: elem}
}

func (c *Checker) inferTupleMake(x *ast.TupleMake, e *env.Env) types.Type {
	elems := make([]types.Type, len(x.Elems))
	for i, el := range x.Elems {
		elems[i] = c.infer(el, e)
	}
	return types.TTuple{Elems: elems}
}

func (c *Checker) inferTupleAccess(x *ast.TupleAccess, e *env.Env) types.Type {
	tup := compress(c.infer(x.Tuple, e))
	tt, ok := tup.(types.TTuple)
	if !ok {
		c.errAt(x, diag.ErrU001, "cannot project component %d out of %s", x.Index, tup)
		return types.Unknown
	}
	if x.Index < 0 || x.Index >= len(tt.Elems) {
		c.errAt(x, diag.ErrU002, "tuple %s has no component %d", tt, x.Index)
		return types.Unknown
	}
	return tt.Elems[x.Index]
}
