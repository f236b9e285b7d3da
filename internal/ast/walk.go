package ast

import "github.com/funvibe/selene/internal/types"

// Walk visits n and every node reachable from it, pre-order. Nil
// children are skipped; f runs on the parent before its sub-nodes.
func Walk(n Node, f func(Node)) {
	if n == nil {
		return
	}
	f(n)
	for _, c := range children(n) {
		Walk(c, f)
	}
}

func children(n Node) []Node {
	switch x := n.(type) {
	case *FnDecl:
		out := make([]Node, 0, len(x.Params)+len(x.Kwargs)+1)
		for _, p := range x.Params {
			out = append(out, p)
		}
		for _, k := range x.Kwargs {
			out = append(out, k)
		}
		return append(out, x.Body)
	case *ParamDecl:
		return []Node{x.Default}
	case *ImplDecl:
		out := make([]Node, len(x.Methods))
		for i, m := range x.Methods {
			out[i] = m
		}
		return out
	case *GlobalDecl:
		return []Node{x.Init}
	case *VarDecl:
		return []Node{x.Init}
	case *TupleDecl:
		return []Node{x.Init}
	case *StructLet:
		return []Node{x.Init}
	case *EnumLet:
		return []Node{x.Init}
	case *FstrLit:
		return x.Parts
	case *ArrLit:
		return x.Elems
	case *Block:
		return x.Stmts
	case *If:
		return []Node{x.Cond, x.Then, x.Else}
	case *Match:
		out := []Node{x.Subject}
		for _, arm := range x.Arms {
			out = append(out, arm.Pat, arm.Guard, arm.Body)
		}
		return out
	case *Is:
		return []Node{x.Expr, x.Pat}
	case *TupleMake:
		return x.Elems
	case *TupleAccess:
		return []Node{x.Tuple}
	case *Return:
		return []Node{x.Value}
	case *Break:
		return []Node{x.Value}
	case *Continue:
		return x.Args
	case *EnumConstr:
		return x.Args
	case *StructInit:
		out := make([]Node, len(x.Fields))
		for i, fi := range x.Fields {
			out[i] = fi.Value
		}
		return out
	case *StructModif:
		out := []Node{x.Target}
		for _, fi := range x.Fields {
			out = append(out, fi.Value)
		}
		return out
	case *FieldRef:
		return []Node{x.Recv}
	case *ArrAccess:
		return []Node{x.Arr, x.Index}
	case *View:
		return []Node{x.Arr, x.Lo, x.Hi}
	case *Call:
		out := append([]Node{x.Callee}, x.Args...)
		for _, k := range x.Kwargs {
			out = append(out, k.Value)
		}
		return out
	case *ChainCall:
		return append([]Node{x.Recv}, x.Args...)
	case *Unary:
		return []Node{x.Operand}
	case *Binary:
		return []Node{x.Lhs, x.Rhs}
	case *BinaryInplace:
		return []Node{x.Lhs, x.Rhs}
	case *While:
		return []Node{x.Cond, x.Body, x.Exit}
	case *For:
		var out []Node
		for _, st := range x.Starts {
			out = append(out, st.Init)
		}
		out = append(out, x.Stop)
		for _, st := range x.Steps {
			out = append(out, st.Expr)
		}
		return append(out, x.Body, x.Exit)
	case *ForIn:
		return []Node{x.Iterable, x.Body, x.Exit}
	case *Guard:
		return []Node{x.Cond, x.Else}
	case *IncRange:
		return []Node{x.Lo, x.Hi}
	case *ExcRange:
		return []Node{x.Lo, x.Hi}
	case *Test:
		return []Node{x.Body}
	default:
		return nil
	}
}

// FinalizeTypes maps every node's inferred type through rewrite.
func FinalizeTypes(n Node, rewrite func(types.Type) types.Type) Node {
	Walk(n, func(c Node) {
		c.SetType(rewrite(c.Type()))
	})
	return n
}
