package infer

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/types"
)

// errAt reports an error diagnostic over n's span.
func (c *Checker) errAt(n ast.Node, code diag.ErrorCode, format string, args ...any) {
	from, to := n.Span()
	c.sink.Errorf(code, from, to, format, args...)
}

// instantiate replaces every declared type variable in t with a fresh
// metavariable, consistently per name, so a polymorphic signature can be
// used at one call site without polluting the declaration.
func instantiate(t types.Type) types.Type {
	fresh := make(map[string]types.TWeak)
	return types.Map(t, func(t types.Type) types.Type {
		tv, ok := t.(types.TTypevar)
		if !ok {
			return t
		}
		w, seen := fresh[tv.Name]
		if !seen {
			w = types.FreshWeak()
			fresh[tv.Name] = w
		}
		return w
	})
}

// subst replaces named type parameters with the given arguments.
func subst(t types.Type, params []string, args []types.Type) types.Type {
	if len(params) == 0 {
		return t
	}
	table := make(map[string]types.Type, len(params))
	for i, p := range params {
		if i < len(args) {
			table[p] = args[i]
		}
	}
	return types.Map(t, func(t types.Type) types.Type {
		switch x := t.(type) {
		case types.TTypevar:
			if r, ok := table[x.Name]; ok {
				return r
			}
		case types.TNamed:
			if x.Name.Standalone() && len(x.Args) == 0 {
				if r, ok := table[x.Name.Local]; ok {
					return r
				}
			}
		}
		return t
	})
}
