package pipeline

import (
	"math/big"
	"testing"

	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/pack"
	"github.com/funvibe/selene/internal/token"
	"github.com/funvibe/selene/internal/types"
)

func bigOne() *big.Int { return big.NewInt(1) }
func bigTwo() *big.Int { return big.NewInt(2) }

func TestPipelineRunsAllStages(t *testing.T) {
	ctx := &Context{
		Filename:   "main.sel",
		SourceCode: "let x = 1 + 2\n",
		// The AST normally comes from the external parser; build the
		// equivalent tree by hand.
		Program: &ast.Block{Stmts: []ast.Node{
			&ast.VarDecl{Name: "x", Init: &ast.Binary{
				Op:  token.PLUS,
				Lhs: &ast.IntLit{Value: bigOne(), Spec: token.DefaultIntSpec()},
				Rhs: &ast.IntLit{Value: bigTwo(), Spec: token.DefaultIntSpec()},
			}},
		}},
		Sink: diag.NewSink(),
	}

	p := New(&LexerProcessor{}, &BindProcessor{}, &CheckProcessor{})
	out := p.Run(ctx)

	if len(out.Tokens) == 0 {
		t.Fatal("lexing produced no tokens")
	}
	if out.Typed == nil {
		t.Fatal("checking produced no typed tree")
	}
	if out.Sink.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", out.Sink.Errors())
	}
}

func TestPipelineContinuesOnErrors(t *testing.T) {
	// A lexical error must not stop binding and checking; a later type
	// error accumulates on the same sink.
	ctx := &Context{
		Filename:   "main.sel",
		SourceCode: "\"unterminated\n",
		Program: &ast.Block{Stmts: []ast.Node{
			&ast.VarDecl{Name: "y", AnnTy: types.Double, Init: &ast.IntLit{Value: bigOne(), Spec: token.DefaultIntSpec()}},
		}},
		Sink: diag.NewSink(),
	}
	out := New(&LexerProcessor{}, &BindProcessor{}, &CheckProcessor{}).Run(ctx)

	var haveLex, haveUnify bool
	for _, d := range out.Sink.Errors() {
		switch d.Code {
		case diag.ErrL001:
			haveLex = true
		case diag.ErrU001:
			haveUnify = true
		}
	}
	if !haveLex || !haveUnify {
		t.Fatalf("expected both stages' diagnostics, got %v", out.Sink.Errors())
	}
}

func TestBindProcessorLoadsPackages(t *testing.T) {
	iter := names.Qualified("builtin", "", "Iter")
	ctx := &Context{
		Filename:   "main.sel",
		SourceCode: "\n",
		Packages: []*pack.Detail{{
			Fullname: "builtin",
			Structs:  []pack.StructDetail{{Name: iter, TypeParams: []string{"E"}}},
		}},
		Program: &ast.Block{},
		Sink:    diag.NewSink(),
	}
	out := New(&BindProcessor{}).Run(ctx)
	if got := out.Env.Resolve(names.New("Iter")); got != iter {
		t.Errorf("builtin exposure missing, Resolve(Iter) = %s", got)
	}
}
