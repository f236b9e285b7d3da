package ast

import (
	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/types"
)

// TypeParam is a declared type parameter with its trait bounds.
type TypeParam struct {
	Name   string
	Traits []names.Name
}

// FnDecl is a function declaration.
// fn name[T: Trait](a: A, b~: B = default) -> R { ... }
type FnDecl struct {
	Base
	Name       names.Name
	TypeParams []TypeParam
	Params     []*ParamDecl
	Kwargs     []*ParamDecl
	RetTy      types.Type
	Body       Node
}

// Sig builds the function type from the declared parameter and return
// types. Missing annotations contribute Unknown.
func (f *FnDecl) Sig() types.TFunc {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.DeclTy()
	}
	var kwargs []types.Kwarg
	for _, k := range f.Kwargs {
		kwargs = append(kwargs, types.Kwarg{Name: k.Name, Ty: k.DeclTy(), HasDefault: k.Default != nil})
	}
	ret := f.RetTy
	if ret == nil {
		ret = types.Unknown
	}
	return types.TFunc{Params: params, Ret: ret, Kwargs: kwargs}
}

// ParamDecl is a positional or keyword parameter.
type ParamDecl struct {
	Base
	Name    string
	DeclTyp types.Type
	Default Node // keyword parameters only
}

// DeclTy returns the declared type, Unknown when absent.
func (p *ParamDecl) DeclTy() types.Type {
	if p.DeclTyp == nil {
		return types.Unknown
	}
	return p.DeclTyp
}

// ImplDecl attaches trait methods to a target type.
type ImplDecl struct {
	Base
	Trait   names.Name
	Target  types.Type
	Methods []*FnDecl
}

// FieldDecl is a struct field declaration.
type FieldDecl struct {
	Name    string
	Ty      types.Type
	Mutable bool
}

// StructDecl declares a struct type.
type StructDecl struct {
	Base
	Name       names.Name
	TypeParams []TypeParam
	Fields     []*FieldDecl
}

// TraitMethod is a method signature inside a trait declaration.
type TraitMethod struct {
	Name string
	Ty   types.Type
}

// TraitDecl declares a trait.
type TraitDecl struct {
	Base
	Name    names.Name
	Methods []*TraitMethod
}

// VariantDecl is one constructor of an enum.
type VariantDecl struct {
	Name   string
	Params []types.Type
}

// EnumDecl declares an enum type.
type EnumDecl struct {
	Base
	Name       names.Name
	TypeParams []TypeParam
	Variants   []*VariantDecl
}

// AbstractDecl declares an abstract type; its representation is hidden.
type AbstractDecl struct {
	Base
	Name       names.Name
	TypeParams []TypeParam
}

// GlobalDecl is a top-level binding.
type GlobalDecl struct {
	Base
	Name    names.Name
	Mutable bool
	AnnTy   types.Type
	Init    Node
}

// VarDecl is a local binding. let x = e / let mut x: T = e
type VarDecl struct {
	Base
	Name    string
	Mutable bool
	AnnTy   types.Type
	Init    Node
}

// TupleDecl destructures a tuple into locals. let (a, b) = e
type TupleDecl struct {
	Base
	Names []string
	Init  Node
}

// StructLet destructures struct fields into locals.
// let {x, y} : P = e
type StructLet struct {
	Base
	Struct names.Name
	Fields []string
	Init   Node
}

// EnumLet binds the payload of a known enum variant.
// let Some(v) = e
type EnumLet struct {
	Base
	Enum    names.Name
	Variant string
	Binds   []string
	Init    Node
}

// TypealiasDecl introduces a type alias.
type TypealiasDecl struct {
	Base
	Name   names.Name
	Target types.Type
}

// FnaliasDecl re-exports a function under another name.
type FnaliasDecl struct {
	Base
	Name   names.Name
	Target names.Name
}
