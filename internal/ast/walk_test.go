package ast

import (
	"math/big"
	"testing"

	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/token"
	"github.com/funvibe/selene/internal/types"
)

func lit(v int64) *IntLit {
	return &IntLit{Value: big.NewInt(v), Spec: token.DefaultIntSpec()}
}

func TestWalkVisitsAllNodes(t *testing.T) {
	tree := &Block{Stmts: []Node{
		&VarDecl{Name: "x", Init: &Binary{Lhs: lit(1), Rhs: lit(2)}},
		&If{
			Cond: &BoolLit{Value: true},
			Then: &Call{Callee: &VarRef{Name: names.New("f")}, Args: []Node{lit(3)}},
		},
	}}

	count := 0
	Walk(tree, func(Node) { count++ })
	// Block, VarDecl, Binary, 2 ints, If, Bool, Call, VarRef, int.
	if count != 10 {
		t.Errorf("visited %d nodes, want 10", count)
	}
}

func TestWalkSkipsNilChildren(t *testing.T) {
	tree := &If{Cond: &BoolLit{Value: true}, Then: &UnitLit{}} // no else
	count := 0
	Walk(tree, func(Node) { count++ })
	if count != 3 {
		t.Errorf("visited %d nodes, want 3", count)
	}
}

func TestWalkPreOrder(t *testing.T) {
	inner := lit(1)
	outer := &Unary{Operand: inner}
	var order []Node
	Walk(outer, func(n Node) { order = append(order, n) })
	if len(order) != 2 || order[0] != Node(outer) || order[1] != Node(inner) {
		t.Error("walk must visit the parent before its children")
	}
}

func TestFinalizeTypesRewritesEverySlot(t *testing.T) {
	w := types.FreshWeak()
	w.Cell.Val = types.Int

	b := &Binary{Lhs: lit(1), Rhs: lit(2)}
	b.SetType(w)
	b.Lhs.SetType(w)
	tree := &Block{Stmts: []Node{b}}
	tree.SetType(w)

	FinalizeTypes(tree, types.Deweak)
	Walk(tree, func(n Node) {
		if _, weak := n.Type().(types.TWeak); weak {
			t.Errorf("weak slot survived on %T", n)
		}
	})
	if b.Type() != types.Type(types.Int) {
		t.Errorf("binary type = %s", b.Type())
	}
}

func TestTypeSlotDefaultsToUnknown(t *testing.T) {
	n := &UnitLit{}
	if n.Type() != types.Type(types.Unknown) {
		t.Errorf("fresh node type = %s", n.Type())
	}
}

func TestSpan(t *testing.T) {
	n := &StrLit{Base: At(token.NewLoc("a.sel", 3), token.NewLoc("a.sel", 8)), Value: "hi"}
	from, to := n.Span()
	if from.Pos != 3 || to.Pos != 8 {
		t.Errorf("span = %d..%d", from.Pos, to.Pos)
	}
}
