package ast

import (
	"github.com/funvibe/selene/internal/token"
	"github.com/funvibe/selene/internal/types"
)

// Node is the base interface for all AST nodes. Every node carries a
// source span and a mutable inferred-type slot that starts Unknown.
type Node interface {
	Span() (from, to token.Loc)
	Type() types.Type
	SetType(types.Type)
	isNode()
}

// Base is embedded by every node; it holds the span and the type slot.
type Base struct {
	From token.Loc
	To   token.Loc
	Ty   types.Type
}

// At builds a Base covering [from, to].
func At(from, to token.Loc) Base {
	return Base{From: from, To: to}
}

func (b *Base) Span() (token.Loc, token.Loc) { return b.From, b.To }

func (b *Base) Type() types.Type {
	if b.Ty == nil {
		return types.Unknown
	}
	return b.Ty
}

func (b *Base) SetType(t types.Type) { b.Ty = t }

func (b *Base) isNode() {}
