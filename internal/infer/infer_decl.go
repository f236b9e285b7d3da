package infer

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/env"
	"github.com/funvibe/selene/internal/types"
)

func (c *Checker) inferFnDecl(x *ast.FnDecl, e *env.Env) types.Type {
	scope := e.Clone()
	scope.SetCurrFn(x.Name)

	// Each declared type variable becomes a fresh metavariable with its
	// trait bounds recorded.
	for _, tp := range x.TypeParams {
		scope.DefineTyvar(tp.Name, types.FreshWeak(), tp.Traits)
	}

	c.pushFrame()
	for _, p := range x.Params {
		scope.AddLocal(p.Name, false, p.DeclTy())
		c.infer(p, scope)
	}
	for _, k := range x.Kwargs {
		ty := k.DeclTy()
		scope.AddLocal(k.Name, false, ty)
		if k.Default != nil {
			c.unifyAt(k.Default, c.infer(k.Default, scope), ty)
		}
		k.SetType(ty)
	}

	bodyTy := c.infer(x.Body, scope)
	ret := x.RetTy
	if ret == nil {
		ret = types.Unknown
	}
	c.unifyAt(x.Body, ret, bodyTy)
	c.popFrame()
	return types.Unit
}

func (c *Checker) inferImplDecl(x *ast.ImplDecl, e *env.Env) types.Type {
	for _, m := range x.Methods {
		c.infer(m, e)
	}
	return types.Unit
}

func (c *Checker) inferGlobalDecl(x *ast.GlobalDecl, e *env.Env) types.Type {
	ty := c.infer(x.Init, e)
	if x.AnnTy != nil {
		ty = c.unifyAt(x, ty, x.AnnTy)
	}
	if b, ok := e.Global(x.Name); ok {
		b.Ty = ty
	}
	return types.Unit
}

func (c *Checker) inferVarDecl(x *ast.VarDecl, e *env.Env) types.Type {
	ty := c.infer(x.Init, e)
	if x.AnnTy != nil {
		ty = c.unifyAt(x, ty, x.AnnTy)
	}
	if _, exists := e.GetLocal(x.Name); exists {
		from, to := x.Span()
		c.sink.Warnf(diag.WarnW002, from, to, "binding %s shadows an earlier binding", x.Name)
	}
	b := e.AddLocal(x.Name, x.Mutable, ty)
	c.trackLocal(b, x)
	return types.Unit
}

func (c *Checker) inferTupleDecl(x *ast.TupleDecl, e *env.Env) types.Type {
	elems := make([]types.Type, len(x.Names))
	for i := range elems {
		elems[i] = types.FreshWeak()
	}
	c.unifyAt(x.Init, c.infer(x.Init, e), types.TTuple{Elems: elems})
	for i, name := range x.Names {
		b := e.AddLocal(name, false, elems[i])
		c.trackLocal(b, x)
	}
	return types.Unit
}

func (c *Checker) inferStructLet(x *ast.StructLet, e *env.Env) types.Type {
	info, ok := e.Struct(x.Struct)
	if !ok {
		c.errAt(x, diag.ErrR001, "unknown type %s", x.Struct)
		return types.Unit
	}
	args := make([]types.Type, len(info.TypeParams))
	for i := range args {
		args[i] = types.FreshWeak()
	}
	c.unifyAt(x.Init, c.infer(x.Init, e), types.TStruct{Name: info.Name, Args: args})
	for _, fname := range x.Fields {
		fty, ok := info.FieldTy(fname)
		if !ok {
			c.errAt(x, diag.ErrR004, "%s has no field %s", info.Name, fname)
			fty = types.Unknown
		}
		b := e.AddLocal(fname, false, subst(fty, info.TypeParams, args))
		c.trackLocal(b, x)
	}
	return types.Unit
}

func (c *Checker) inferEnumLet(x *ast.EnumLet, e *env.Env) types.Type {
	info, ok := e.Enum(x.Enum)
	if !ok {
		c.errAt(x, diag.ErrR001, "unknown type %s", x.Enum)
		return types.Unit
	}
	variant, ok := info.Variant(x.Variant)
	if !ok {
		c.errAt(x, diag.ErrR005, "%s has no variant %s", info.Name, x.Variant)
		return types.Unit
	}
	args := make([]types.Type, len(info.TypeParams))
	for i := range args {
		args[i] = types.FreshWeak()
	}
	c.unifyAt(x.Init, c.infer(x.Init, e), types.TEnum{Name: info.Name, Args: args})
	if len(x.Binds) > len(variant.Params) {
		c.errAt(x, diag.ErrU002, "variant %s carries %d values, %d bound", x.Variant, len(variant.Params), len(x.Binds))
	}
	for i, name := range x.Binds {
		var ty types.Type = types.Unknown
		if i < len(variant.Params) {
			ty = subst(variant.Params[i], info.TypeParams, args)
		}
		b := e.AddLocal(name, false, ty)
		c.trackLocal(b, x)
	}
	return types.Unit
}

func (c *Checker) inferVarRef(x *ast.VarRef, e *env.Env) types.Type {
	if x.Name.Standalone() {
		if b, ok := e.GetLocal(x.Name.Local); ok {
			c.markUsed(b)
			return b.Ty
		}
	}
	resolved := e.Resolve(x.Name)
	if ty, ok := e.Fn(resolved); ok {
		return ty
	}
	if b, ok := e.Global(resolved); ok {
		return b.Ty
	}
	c.errAt(x, diag.ErrR002, "unknown identifier %s", x.Name)
	return types.Unknown
}

// pushFrame opens a function body for unused-binding accounting.
func (c *Checker) pushFrame() {
	c.fnFrames = append(c.fnFrames, &fnFrame{})
}

func (c *Checker) popFrame() {
	frame := c.fnFrames[len(c.fnFrames)-1]
	c.fnFrames = c.fnFrames[:len(c.fnFrames)-1]
	for _, d := range frame.declared {
		if d.used || len(d.binding.Name.Local) == 0 || d.binding.Name.Local[0] == '_' {
			continue
		}
		from, to := d.node.Span()
		c.sink.Warnf(diag.WarnW001, from, to, "unused binding %s", d.binding.Name.Local)
	}
}

func (c *Checker) trackLocal(b *env.Binding, n ast.Node) {
	if len(c.fnFrames) == 0 {
		return
	}
	frame := c.fnFrames[len(c.fnFrames)-1]
	frame.declared = append(frame.declared, &declaredLocal{binding: b, node: n})
}

func (c *Checker) markUsed(b *env.Binding) {
	for _, frame := range c.fnFrames {
		for _, d := range frame.declared {
			if d.binding == b {
				d.used = true
			}
		}
	}
}
