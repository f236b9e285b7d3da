package infer

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/env"
	"github.com/funvibe/selene/internal/types"
)

func (c *Checker) inferCall(x *ast.Call, e *env.Env) types.Type {
	calleeTy := c.infer(x.Callee, e)
	argTys := make([]types.Type, len(x.Args))
	for i, a := range x.Args {
		argTys[i] = c.infer(a, e)
	}

	switch ft := compress(calleeTy).(type) {
	case types.TFunc:
		inst, ok := instantiate(ft).(types.TFunc)
		if !ok {
			return types.Unit
		}
		if len(x.Args) != len(inst.Params) {
			c.errAt(x, diag.ErrU002, "expected %d arguments, got %d", len(inst.Params), len(x.Args))
		}
		for i := range x.Args {
			if i < len(inst.Params) {
				c.unifyAt(x.Args[i], argTys[i], inst.Params[i])
			}
		}
		c.matchKwargs(x, inst, e)
		return inst.Ret

	case types.TWeak:
		// A free callee resolves to a function of the argument types
		// with a fresh return cell.
		ret := types.FreshWeak()
		ft.Cell.Terminal().Val = types.TFunc{Params: argTys, Ret: ret}
		for _, k := range x.Kwargs {
			c.infer(k.Value, e)
		}
		return ret

	default:
		c.errAt(x, diag.ErrS006, "calling a non-function type %s", calleeTy)
		for _, k := range x.Kwargs {
			c.infer(k.Value, e)
		}
		return types.Unit
	}
}

// matchKwargs binds the call's keyword arguments against the callee's
// declared kwargs: matched values unify with the declared type, unknown
// names and missing defaults are structural errors.
func (c *Checker) matchKwargs(x *ast.Call, ft types.TFunc, e *env.Env) {
	seen := make(map[string]bool, len(x.Kwargs))
	for _, k := range x.Kwargs {
		valTy := c.infer(k.Value, e)
		found := false
		for _, decl := range ft.Kwargs {
			if decl.Name == k.Name {
				c.unifyAt(k.Value, valTy, decl.Ty)
				found = true
				break
			}
		}
		if !found {
			c.errAt(x, diag.ErrS007, "unknown keyword argument %s~", k.Name)
		}
		seen[k.Name] = true
	}
	for _, decl := range ft.Kwargs {
		if !decl.HasDefault && !seen[decl.Name] {
			c.errAt(x, diag.ErrS007, "missing required keyword argument %s~", decl.Name)
		}
	}
}

func (c *Checker) inferChainCall(x *ast.ChainCall, e *env.Env) types.Type {
	recvTy := c.infer(x.Recv, e)
	owner, ok := types.NameOf(compress(recvTy))
	if !ok {
		c.errAt(x, diag.ErrR006, "cannot resolve method %s on %s", x.Method, recvTy)
		for _, a := range x.Args {
			c.infer(a, e)
		}
		return types.Unknown
	}
	mty, ok := e.MethodTy(owner, x.Method)
	if !ok {
		c.errAt(x, diag.ErrR006, "%s has no method %s", owner, x.Method)
		for _, a := range x.Args {
			c.infer(a, e)
		}
		return types.Unknown
	}
	ft, ok := instantiate(mty).(types.TFunc)
	if !ok || len(ft.Params) == 0 {
		c.errAt(x, diag.ErrS006, "calling a non-function type %s", mty)
		return types.Unit
	}
	c.unifyAt(x.Recv, recvTy, ft.Params[0])
	rest := ft.Params[1:]
	if len(x.Args) != len(rest) {
		c.errAt(x, diag.ErrU002, "expected %d arguments, got %d", len(rest), len(x.Args))
	}
	for i, a := range x.Args {
		argTy := c.infer(a, e)
		if i < len(rest) {
			c.unifyAt(a, argTy, rest[i])
		}
	}
	return ft.Ret
}

func (c *Checker) inferEnumConstr(x *ast.EnumConstr, e *env.Env) types.Type {
	info, ok := e.Enum(x.Enum)
	if !ok {
		c.errAt(x, diag.ErrR001, "unknown type %s", x.Enum)
		for _, a := range x.Args {
			c.infer(a, e)
		}
		return types.Unknown
	}
	variant, ok := info.Variant(x.Variant)
	if !ok {
		c.errAt(x, diag.ErrR005, "%s has no variant %s", info.Name, x.Variant)
		return types.Unknown
	}
	args := make([]types.Type, len(info.TypeParams))
	for i := range args {
		args[i] = types.FreshWeak()
	}
	if len(x.Args) != len(variant.Params) {
		c.errAt(x, diag.ErrU002, "variant %s expects %d values, got %d",
			x.Variant, len(variant.Params), len(x.Args))
	}
	for i, a := range x.Args {
		argTy := c.infer(a, e)
		if i < len(variant.Params) {
			c.unifyAt(a, argTy, subst(variant.Params[i], info.TypeParams, args))
		}
	}
	return types.TEnum{Name: info.Name, Args: args}
}

func (c *Checker) inferStructInit(x *ast.StructInit, e *env.Env) types.Type {
	info, ok := e.Struct(x.Name)
	if !ok {
		c.errAt(x, diag.ErrR001, "unknown type %s", x.Name)
		for _, f := range x.Fields {
			c.infer(f.Value, e)
		}
		return types.Unknown
	}
	args := x.TyArgs
	if len(args) == 0 {
		args = make([]types.Type, len(info.TypeParams))
		for i := range args {
			args[i] = types.FreshWeak()
		}
	}
	for _, f := range x.Fields {
		valTy := c.infer(f.Value, e)
		fty, ok := info.FieldTy(f.Name)
		if !ok {
			c.errAt(x, diag.ErrR004, "%s has no field %s", info.Name, f.Name)
			continue
		}
		c.unifyAt(f.Value, valTy, subst(fty, info.TypeParams, args))
	}
	return types.TStruct{Name: info.Name, Args: args}
}

func (c *Checker) inferStructModif(x *ast.StructModif, e *env.Env) types.Type {
	targetTy := c.infer(x.Target, e)
	st, ok := compress(targetTy).(types.TStruct)
	if !ok {
		c.errAt(x, diag.ErrU001, "functional update requires a struct, got %s", targetTy)
		for _, f := range x.Fields {
			c.infer(f.Value, e)
		}
		return targetTy
	}
	info, found := e.Struct(st.Name)
	for _, f := range x.Fields {
		valTy := c.infer(f.Value, e)
		if !found {
			continue
		}
		fty, ok := info.FieldTy(f.Name)
		if !ok {
			c.errAt(x, diag.ErrR004, "%s has no field %s", st.Name, f.Name)
			continue
		}
		c.unifyAt(f.Value, valTy, subst(fty, info.TypeParams, st.Args))
	}
	return targetTy
}

func (c *Checker) inferFieldRef(x *ast.FieldRef, e *env.Env) types.Type {
	recvTy := c.infer(x.Recv, e)
	st, ok := compress(recvTy).(types.TStruct)
	if !ok {
		c.errAt(x, diag.ErrR004, "cannot resolve field %s on %s", x.Field, recvTy)
		return types.Unknown
	}
	info, found := e.Struct(st.Name)
	if !found {
		c.errAt(x, diag.ErrR001, "unknown type %s", st.Name)
		return types.Unknown
	}
	fty, ok := info.FieldTy(x.Field)
	if !ok {
		c.errAt(x, diag.ErrR004, "%s has no field %s", st.Name, x.Field)
		return types.Unknown
	}
	return subst(fty, info.TypeParams, st.Args)
}

func (c *Checker) inferArrAccess(x *ast.ArrAccess, e *env.Env) types.Type {
	elem := types.FreshWeak()
	c.unifyAt(x.Arr, c.infer(x.Arr, e), types.TFixedArray{Elem: elem})
	c.unifyAt(x.Index, c.infer(x.Index, e), types.Int)
	return elem
}

func (c *Checker) inferView(x *ast.View, e *env.Env) types.Type {
	arrTy := c.infer(x.Arr, e)
	elem := types.FreshWeak()
	c.unifyAt(x.Arr, arrTy, types.TFixedArray{Elem: elem})
	if x.Lo != nil {
		c.unifyAt(x.Lo, c.infer(x.Lo, e), types.Int)
	}
	if x.Hi != nil {
		c.unifyAt(x.Hi, c.infer(x.Hi, e), types.Int)
	}
	return types.TFixedArray{Elem: elem}
}
