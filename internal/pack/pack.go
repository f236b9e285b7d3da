package pack

import (
	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/types"
)

// Detail is the in-memory description of a dependency package, produced
// by the external package loader and ingested by Env.Load.
type Detail struct {
	Fullname  string // canonical package name
	Referred  string // the name the current unit imports it as
	Fns       []FnDetail
	Structs   []StructDetail
	Enums     []EnumDetail
	Traits    []TraitDetail
	Abstracts []AbstractDetail
	Impls     []ImplDetail
}

// FnDetail is one exported function or method signature.
type FnDetail struct {
	Name names.Name
	Ty   types.Type
}

// Field is one struct field.
type Field struct {
	Name    string
	Ty      types.Type
	Mutable bool
}

// StructDetail is one exported struct declaration.
type StructDetail struct {
	Name       names.Name
	TypeParams []string
	Fields     []Field
}

// Variant is one enum constructor.
type Variant struct {
	Name   string
	Params []types.Type
}

// EnumDetail is one exported enum declaration.
type EnumDetail struct {
	Name       names.Name
	TypeParams []string
	Variants   []Variant
}

// TraitDetail is one exported trait with its method signatures.
type TraitDetail struct {
	Name    names.Name
	Methods map[string]types.Type
}

// AbstractDetail is one exported abstract type.
type AbstractDetail struct {
	Name       names.Name
	TypeParams []string
}

// ImplDetail records that Target implements Trait.
type ImplDetail struct {
	Trait  names.Name
	Target names.Name
}
