package infer

import (
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/token"
	"github.com/funvibe/selene/internal/types"
)

// compress collapses resolved weak cells along a type but keeps free
// metavariables, so sharing survives until Check finalizes the tree.
func compress(t types.Type) types.Type {
	return types.Map(t, func(t types.Type) types.Type {
		if w, ok := t.(types.TWeak); ok {
			if v := w.Cell.Resolve(); v != types.Unknown {
				return v
			}
		}
		return t
	})
}

// unify destructively joins x and y and returns the joined form.
// Mismatches are reported on [from, to] and yield Unknown; inference
// continues with a best-effort type.
func (c *Checker) unify(x, y types.Type, from, to token.Loc) types.Type {
	wx, xWeak := x.(types.TWeak)
	wy, yWeak := y.(types.TWeak)

	// Weak <-> Weak.
	if xWeak && yWeak {
		cx := wx.Cell.Terminal()
		cy := wy.Cell.Terminal()
		if cx == cy {
			return x
		}
		rx := cx.Val
		ry := cy.Val
		switch {
		case rx == types.Unknown && ry == types.Unknown:
			// Alias the cells: either one's future resolution writes
			// through to the other.
			cy.Val = types.TWeak{Cell: cx}
			return x
		case ry == types.Unknown:
			cy.Val = compress(rx)
			return cy.Val
		case rx == types.Unknown:
			cx.Val = compress(ry)
			return cx.Val
		default:
			return c.unify(rx, ry, from, to)
		}
	}

	// Weak <-> concrete.
	if xWeak {
		cell := wx.Cell.Terminal()
		if cell.Val != types.Unknown {
			return c.unify(cell.Val, y, from, to)
		}
		cell.Val = compress(y)
		return cell.Val
	}
	if yWeak {
		cell := wy.Cell.Terminal()
		if cell.Val != types.Unknown {
			return c.unify(x, cell.Val, from, to)
		}
		cell.Val = compress(x)
		return cell.Val
	}

	// Unknown acts as a wildcard so one failure does not cascade.
	if x == types.Unknown {
		return y
	}
	if y == types.Unknown {
		return x
	}

	switch xt := x.(type) {
	case types.TPrim:
		if yt, ok := y.(types.TPrim); ok && xt == yt {
			return x
		}
		if n, ok := y.(types.TNamed); ok {
			return c.unify(x, c.env.LookupType(n.Name, n.Args), from, to)
		}
		if _, ok := y.(types.TTypevar); ok {
			return c.unifyTypevar(y.(types.TTypevar), x, from, to)
		}

	case types.TTuple:
		yt, ok := y.(types.TTuple)
		if !ok {
			break
		}
		if len(xt.Elems) != len(yt.Elems) {
			c.sink.Errorf(diag.ErrU002, from, to,
				"tuple arity mismatch: %d vs %d", len(xt.Elems), len(yt.Elems))
		}
		elems := make([]types.Type, len(xt.Elems))
		for i := range xt.Elems {
			if i < len(yt.Elems) {
				elems[i] = c.unify(xt.Elems[i], yt.Elems[i], from, to)
			} else {
				elems[i] = xt.Elems[i]
			}
		}
		return types.TTuple{Elems: elems}

	case types.TOption:
		if yt, ok := y.(types.TOption); ok {
			return types.TOption{Elem: c.unify(xt.Elem, yt.Elem, from, to)}
		}

	case types.TFixedArray:
		if yt, ok := y.(types.TFixedArray); ok {
			return types.TFixedArray{Elem: c.unify(xt.Elem, yt.Elem, from, to)}
		}
		if n, ok := y.(types.TNamed); ok {
			return c.unify(x, c.env.LookupType(n.Name, n.Args), from, to)
		}

	case types.TFunc:
		yt, ok := y.(types.TFunc)
		if !ok {
			break
		}
		if len(xt.Params) != len(yt.Params) {
			c.sink.Errorf(diag.ErrU002, from, to,
				"function arity mismatch: %d vs %d", len(xt.Params), len(yt.Params))
			return types.Unknown
		}
		params := make([]types.Type, len(xt.Params))
		for i := range xt.Params {
			params[i] = c.unify(xt.Params[i], yt.Params[i], from, to)
		}
		return types.TFunc{
			Params: params,
			Ret:    c.unify(xt.Ret, yt.Ret, from, to),
			Kwargs: xt.Kwargs,
		}

	case types.TNamed:
		// Resolve the reference and retry against the resolved form.
		resolved := c.env.LookupType(xt.Name, xt.Args)
		if resolved == types.Unknown {
			c.sink.Errorf(diag.ErrR001, from, to, "unknown type %s", xt.Name)
			return types.Unknown
		}
		return c.unify(resolved, y, from, to)

	case types.TStruct, types.TEnum, types.TAbstract:
		return c.unifyNominal(x, y, from, to)

	case types.TTypevar:
		return c.unifyTypevar(xt, y, from, to)

	case types.TMayError:
		if yt, ok := y.(types.TMayError); ok {
			return types.TMayError{Elem: c.unify(xt.Elem, yt.Elem, from, to)}
		}

	case types.THasError:
		if yt, ok := y.(types.THasError); ok {
			return types.THasError{
				Elem: c.unify(xt.Elem, yt.Elem, from, to),
				Err:  c.unify(xt.Err, yt.Err, from, to),
			}
		}

	case types.TVirtualBase:
		if yt, ok := y.(types.TVirtualBase); ok {
			return types.TVirtualBase{Elem: c.unify(xt.Elem, yt.Elem, from, to)}
		}
	}

	// Retry nominal and typevar rules when they appear on the right.
	switch y.(type) {
	case types.TNamed:
		yt := y.(types.TNamed)
		resolved := c.env.LookupType(yt.Name, yt.Args)
		if resolved == types.Unknown {
			c.sink.Errorf(diag.ErrR001, from, to, "unknown type %s", yt.Name)
			return types.Unknown
		}
		return c.unify(x, resolved, from, to)
	case types.TStruct, types.TEnum, types.TAbstract:
		return c.unifyNominal(x, y, from, to)
	case types.TTypevar:
		return c.unifyTypevar(y.(types.TTypevar), x, from, to)
	}

	c.sink.Errorf(diag.ErrU001, from, to, "cannot unify %s with %s", x, y)
	return types.Unknown
}

// nominalParts splits a struct/enum/abstract into its name and
// arguments, with a tag separating enums from the struct/abstract
// family (which cross-unifies).
func nominalParts(t types.Type) (n names.Name, args []types.Type, isEnum, ok bool) {
	switch x := t.(type) {
	case types.TStruct:
		return x.Name, x.Args, false, true
	case types.TAbstract:
		return x.Name, x.Args, false, true
	case types.TEnum:
		return x.Name, x.Args, true, true
	}
	return names.Name{}, nil, false, false
}

// unifyNominal handles struct/struct, struct/abstract, abstract/struct,
// abstract/abstract and enum/enum joins: resolved names must match, then
// the type-argument lists unify pairwise. The left form wins.
func (c *Checker) unifyNominal(x, y types.Type, from, to token.Loc) types.Type {
	if n, ok := y.(types.TNamed); ok {
		return c.unify(x, c.env.LookupType(n.Name, n.Args), from, to)
	}
	if n, ok := x.(types.TNamed); ok {
		return c.unify(c.env.LookupType(n.Name, n.Args), y, from, to)
	}
	if tv, ok := x.(types.TTypevar); ok {
		return c.unifyTypevar(tv, y, from, to)
	}
	if tv, ok := y.(types.TTypevar); ok {
		return c.unifyTypevar(tv, x, from, to)
	}

	xn, xargs, xEnum, xok := nominalParts(x)
	yn, yargs, yEnum, yok := nominalParts(y)
	if !xok || !yok || xEnum != yEnum {
		c.sink.Errorf(diag.ErrU001, from, to, "cannot unify %s with %s", x, y)
		return types.Unknown
	}

	xname := c.env.Resolve(xn)
	yname := c.env.Resolve(yn)
	if xname != yname {
		c.sink.Errorf(diag.ErrU003, from, to, "cannot unify %s with %s", xname, yname)
		return types.Unknown
	}
	if len(xargs) != len(yargs) {
		c.sink.Errorf(diag.ErrU002, from, to,
			"%s expects the same type arguments on both sides: %d vs %d", xname, len(xargs), len(yargs))
		return types.Unknown
	}
	args := make([]types.Type, len(xargs))
	for i := range xargs {
		args[i] = c.unify(xargs[i], yargs[i], from, to)
	}
	switch x.(type) {
	case types.TStruct:
		return types.TStruct{Name: xn, Args: args}
	case types.TEnum:
		return types.TEnum{Name: xn, Args: args}
	default:
		return types.TAbstract{Name: xn, Args: args}
	}
}

// unifyTypevar joins a declared type variable with t. A bound variable
// re-unifies its binding; trait bounds are verified against the
// registered implementations. An undeclared variable is a hard error.
func (c *Checker) unifyTypevar(tv types.TTypevar, t types.Type, from, to token.Loc) types.Type {
	if other, ok := t.(types.TTypevar); ok && other.Name == tv.Name {
		return tv
	}
	bound, ok := c.env.Tyvar(tv.Name)
	if !ok {
		c.sink.Errorf(diag.ErrU004, from, to, "unknown type variable %s", tv.Name)
		return types.Unknown
	}

	joined := c.unify(bound, t, from, to)

	if traits := c.env.TyvarBounds(tv.Name); len(traits) > 0 {
		if n, named := types.NameOf(compress(joined)); named {
			for _, trait := range traits {
				if !c.env.HasImpl(trait, n) {
					c.sink.Errorf(diag.ErrU005, from, to,
						"%s does not satisfy trait bound %s on %s", n, trait, tv.Name)
				}
			}
		}
	}
	return joined
}
