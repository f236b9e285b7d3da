package types

import (
	"fmt"
	"strings"

	"github.com/funvibe/selene/internal/names"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	isType()
}

// TPrim is a built-in scalar type. The exported package variables below
// are the only instances; compare with ==.
type TPrim struct {
	name string
}

var (
	Int     = TPrim{"Int"}
	Long    = TPrim{"Long"}
	Float   = TPrim{"Float"}
	Double  = TPrim{"Double"}
	Bool    = TPrim{"Bool"}
	Char    = TPrim{"Char"}
	String  = TPrim{"String"}
	Unit    = TPrim{"Unit"}
	Error   = TPrim{"Error"}
	Unknown = TPrim{"Unknown"}
)

func (t TPrim) isType()        {}
func (t TPrim) String() string { return t.name }

// TOption is Option(T).
type TOption struct {
	Elem Type
}

func (t TOption) isType()        {}
func (t TOption) String() string { return t.Elem.String() + "?" }

// TFixedArray is FixedArray(T).
type TFixedArray struct {
	Elem Type
}

func (t TFixedArray) isType()        {}
func (t TFixedArray) String() string { return fmt.Sprintf("FixedArray[%s]", t.Elem) }

// TTuple is a tuple type.
type TTuple struct {
	Elems []Type
}

func (t TTuple) isType() {}
func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Kwarg is a declared keyword parameter of a function type.
type Kwarg struct {
	Name       string
	Ty         Type
	HasDefault bool
}

// TFunc is a function type.
type TFunc struct {
	Params []Type
	Ret    Type
	Kwargs []Kwarg
}

func (t TFunc) isType() {}
func (t TFunc) String() string {
	parts := make([]string, 0, len(t.Params)+len(t.Kwargs))
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	for _, k := range t.Kwargs {
		s := k.Name + "~ : " + k.Ty.String()
		if k.HasDefault {
			s += "?"
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret)
}

// TNamed is an unresolved reference to a user-declared type. Resolution
// replaces it with TStruct, TEnum or TAbstract.
type TNamed struct {
	Name names.Name
	Args []Type
}

func (t TNamed) isType()        {}
func (t TNamed) String() string { return applied(t.Name, t.Args) }

// TStruct is a resolved struct type.
type TStruct struct {
	Name names.Name
	Args []Type
}

func (t TStruct) isType()        {}
func (t TStruct) String() string { return applied(t.Name, t.Args) }

// TEnum is a resolved enum type.
type TEnum struct {
	Name names.Name
	Args []Type
}

func (t TEnum) isType()        {}
func (t TEnum) String() string { return applied(t.Name, t.Args) }

// TAbstract is a resolved abstract type.
type TAbstract struct {
	Name names.Name
	Args []Type
}

func (t TAbstract) isType()        {}
func (t TAbstract) String() string { return applied(t.Name, t.Args) }

func applied(n names.Name, args []Type) string {
	if len(args) == 0 {
		return n.String()
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", n, strings.Join(parts, ", "))
}

// TTypevar is a declared type parameter. Its trait bounds live in the
// environment's tyvarTraits table.
type TTypevar struct {
	Name string
}

func (t TTypevar) isType()        {}
func (t TTypevar) String() string { return t.Name }

// WeakCell is the shared mutable cell behind a TWeak. It holds Unknown
// while free; once resolved it holds a type, possibly another TWeak when
// two free cells were aliased.
type WeakCell struct {
	Val Type
}

// NewCell returns a fresh free cell.
func NewCell() *WeakCell {
	return &WeakCell{Val: Unknown}
}

// Resolve follows any chain of aliased cells and returns the terminal
// payload, Unknown when the chain ends free. Visited cells are
// path-compressed onto the terminal payload.
func (c *WeakCell) Resolve() Type {
	seen := []*WeakCell{}
	cur := c
	for {
		w, ok := cur.Val.(TWeak)
		if !ok {
			break
		}
		seen = append(seen, cur)
		cur = w.Cell
	}
	for _, s := range seen {
		if cur.Val != Unknown {
			s.Val = cur.Val
		}
	}
	return cur.Val
}

// Terminal returns the last cell of an alias chain.
func (c *WeakCell) Terminal() *WeakCell {
	cur := c
	for {
		w, ok := cur.Val.(TWeak)
		if !ok {
			return cur
		}
		cur = w.Cell
	}
}

// TWeak is a mutable inference metavariable.
type TWeak struct {
	Cell *WeakCell
}

func (t TWeak) isType() {}
func (t TWeak) String() string {
	if v := t.Cell.Resolve(); v != Unknown {
		return v.String()
	}
	return "_"
}

// Free reports whether the cell chain ends unresolved.
func (t TWeak) Free() bool {
	return t.Cell.Resolve() == Unknown
}

// FreshWeak returns a new metavariable over a fresh cell.
func FreshWeak() TWeak {
	return TWeak{Cell: NewCell()}
}

// TMayError wraps a type whose computation may raise an unspecified error.
type TMayError struct {
	Elem Type
}

func (t TMayError) isType()        {}
func (t TMayError) String() string { return t.Elem.String() + "!" }

// THasError wraps a type whose computation raises a specific error type.
type THasError struct {
	Elem Type
	Err  Type
}

func (t THasError) isType()        {}
func (t THasError) String() string { return fmt.Sprintf("%s!%s", t.Elem, t.Err) }

// TVirtualBase marks a dynamic-dispatch base payload.
type TVirtualBase struct {
	Elem Type
}

func (t TVirtualBase) isType()        {}
func (t TVirtualBase) String() string { return "&" + t.Elem.String() }
