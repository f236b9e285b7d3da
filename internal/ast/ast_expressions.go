package ast

import (
	"math/big"

	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/token"
	"github.com/funvibe/selene/internal/types"
)

// IntLit is an integer literal with its width/signedness spec.
type IntLit struct {
	Base
	Value *big.Int
	Spec  token.IntSpec
}

// DoubleLit is a 64-bit float literal.
type DoubleLit struct {
	Base
	Value float64
}

// FloatLit is a 32-bit float literal (F suffix).
type FloatLit struct {
	Base
	Value float64
}

// StrLit is a string literal; escapes are resolved by the parser.
type StrLit struct {
	Base
	Value string
}

// FstrLit is an interpolated string: literal parts and embedded
// expressions in source order.
type FstrLit struct {
	Base
	Parts []Node
}

// BoolLit is true/false.
type BoolLit struct {
	Base
	Value bool
}

// CharLit is a character literal.
type CharLit struct {
	Base
	Value rune
}

// ByteLit is b'c'.
type ByteLit struct {
	Base
	Value byte
}

// ByteStrLit is b"..." with escapes resolved and UTF-8 encoded.
type ByteStrLit struct {
	Base
	Value []byte
}

// ArrLit is an array literal.
type ArrLit struct {
	Base
	Elems []Node
}

// UnitLit is the unit value ().
type UnitLit struct {
	Base
}

// Leaf is an empty node; the bound AST of an empty environment.
type Leaf struct {
	Base
}

// Block is a brace-delimited sequence; its value is the final element's.
type Block struct {
	Base
	Stmts []Node
}

// If is a conditional expression.
type If struct {
	Base
	Cond Node
	Then Node
	Else Node // nil when absent
}

// MatchArm is one arm of a Match.
type MatchArm struct {
	Pat   Node
	Guard Node // nil when absent
	Body  Node
}

// Match is a pattern-match expression.
type Match struct {
	Base
	Subject Node
	Arms    []*MatchArm
}

// Is tests an expression against a pattern, yielding Bool.
type Is struct {
	Base
	Expr Node
	Pat  Node
}

// TupleMake builds a tuple value.
type TupleMake struct {
	Base
	Elems []Node
}

// TupleAccess projects a tuple component by index.
type TupleAccess struct {
	Base
	Tuple Node
	Index int
}

// Return exits the current function.
type Return struct {
	Base
	Value Node // nil for bare return
}

// Break exits the current loop.
type Break struct {
	Base
	Value Node // nil when absent
}

// Continue re-enters the current loop, optionally updating the
// induction variables.
type Continue struct {
	Base
	Args []Node
}

// EnumConstr constructs an enum variant value.
type EnumConstr struct {
	Base
	Enum    names.Name
	Variant string
	Args    []Node
}

// FieldInit is one field of a StructInit or StructModif.
type FieldInit struct {
	Name  string
	Value Node
}

// StructInit constructs a struct value.
type StructInit struct {
	Base
	Name   names.Name
	TyArgs []types.Type
	Fields []*FieldInit
}

// StructModif is functional update: { ..base, field: value }.
type StructModif struct {
	Base
	Target Node
	Fields []*FieldInit
}

// FieldRef reads a struct field.
type FieldRef struct {
	Base
	Recv  Node
	Field string
}

// ArrAccess indexes an array.
type ArrAccess struct {
	Base
	Arr   Node
	Index Node
}

// View slices an array: a[lo:hi].
type View struct {
	Base
	Arr Node
	Lo  Node // nil when absent
	Hi  Node // nil when absent
}

// KwArg is a named argument at a call site.
type KwArg struct {
	Name  string
	Value Node
}

// Call applies a callee to positional and keyword arguments.
type Call struct {
	Base
	Callee Node
	Args   []Node
	Kwargs []*KwArg
}

// ChainCall is method-call sugar: recv.method(args).
type ChainCall struct {
	Base
	Recv   Node
	Method string
	Args   []Node
}

// Unary applies a prefix operator.
type Unary struct {
	Base
	Op      token.TokenType
	Operand Node
}

// Binary applies an infix operator.
type Binary struct {
	Base
	Op  token.TokenType
	Lhs Node
	Rhs Node
}

// BinaryInplace is a compound assignment: lhs op= rhs.
type BinaryInplace struct {
	Base
	Op  token.TokenType
	Lhs Node
	Rhs Node
}

// VarRef references a binding by (possibly qualified) name.
type VarRef struct {
	Base
	Name names.Name
}
