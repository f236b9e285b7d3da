package types

import (
	"reflect"

	"github.com/funvibe/selene/internal/config"
	"github.com/funvibe/selene/internal/names"
)

// Map applies f bottom-up over t, rebuilding every compound variant from
// its mapped payloads. The payload of a weak cell is rewritten in place so
// cell identity survives mapping; Map(t, id) == t.
func Map(t Type, f func(Type) Type) Type {
	switch x := t.(type) {
	case TOption:
		return f(TOption{Elem: Map(x.Elem, f)})
	case TFixedArray:
		return f(TFixedArray{Elem: Map(x.Elem, f)})
	case TTuple:
		return f(TTuple{Elems: mapSlice(x.Elems, f)})
	case TFunc:
		kwargs := make([]Kwarg, len(x.Kwargs))
		for i, k := range x.Kwargs {
			kwargs[i] = Kwarg{Name: k.Name, Ty: Map(k.Ty, f), HasDefault: k.HasDefault}
		}
		if len(kwargs) == 0 {
			kwargs = nil
		}
		return f(TFunc{Params: mapSlice(x.Params, f), Ret: Map(x.Ret, f), Kwargs: kwargs})
	case TNamed:
		return f(TNamed{Name: x.Name, Args: mapSlice(x.Args, f)})
	case TStruct:
		return f(TStruct{Name: x.Name, Args: mapSlice(x.Args, f)})
	case TEnum:
		return f(TEnum{Name: x.Name, Args: mapSlice(x.Args, f)})
	case TAbstract:
		return f(TAbstract{Name: x.Name, Args: mapSlice(x.Args, f)})
	case TWeak:
		x.Cell.Val = Map(x.Cell.Val, f)
		return f(x)
	case TMayError:
		return f(TMayError{Elem: Map(x.Elem, f)})
	case THasError:
		return f(THasError{Elem: Map(x.Elem, f), Err: Map(x.Err, f)})
	case TVirtualBase:
		return f(TVirtualBase{Elem: Map(x.Elem, f)})
	default:
		return f(t)
	}
}

func mapSlice(ts []Type, f func(Type) Type) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Map(t, f)
	}
	return out
}

// Deweak collapses every reachable weak cell to its current resolution.
// Free cells collapse to Unknown; no TWeak remains in the result.
func Deweak(t Type) Type {
	return Map(t, func(t Type) Type {
		if w, ok := t.(TWeak); ok {
			return w.Cell.Resolve()
		}
		return t
	})
}

// Weaken replaces every reachable Unknown with a fresh weak metavariable.
// Cells are never shared between calls.
func Weaken(t Type) Type {
	return Map(t, func(t Type) Type {
		if t == Type(Unknown) {
			return FreshWeak()
		}
		return t
	})
}

// NameOf returns the canonical name of a type. Builtins report under the
// builtin package. Unknown, Typevar, Tuple and Function have no name, and
// neither does a free metavariable.
func NameOf(t Type) (names.Name, bool) {
	switch x := t.(type) {
	case TPrim:
		if x == Unknown {
			return names.Name{}, false
		}
		return names.Qualified(config.BuiltinPack, "", x.name), true
	case TOption:
		return names.Qualified(config.BuiltinPack, "", "Option"), true
	case TFixedArray:
		return names.Qualified(config.BuiltinPack, "", "FixedArray"), true
	case TNamed:
		return x.Name, true
	case TStruct:
		return x.Name, true
	case TEnum:
		return x.Name, true
	case TAbstract:
		return x.Name, true
	case TWeak:
		if v := x.Cell.Resolve(); v != Unknown {
			return NameOf(v)
		}
		return names.Name{}, false
	case TMayError:
		return NameOf(x.Elem)
	case THasError:
		return NameOf(x.Elem)
	case TVirtualBase:
		return NameOf(x.Elem)
	default:
		return names.Name{}, false
	}
}

// ResolveSelf rewrites every Named reference to Self into a reference to
// owner. Used when loading a method signature into its owning type's
// namespace.
func ResolveSelf(t Type, owner names.Name) Type {
	return Map(t, func(t Type) Type {
		if n, ok := t.(TNamed); ok && n.Name.Standalone() && n.Name.Local == config.SelfTypeName {
			return TNamed{Name: owner, Args: n.Args}
		}
		return t
	})
}

// Equal reports structural equality after collapsing weak cells.
func Equal(a, b Type) bool {
	return reflect.DeepEqual(Deweak(a), Deweak(b))
}
