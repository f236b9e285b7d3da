package pipeline

import (
	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/env"
	"github.com/funvibe/selene/internal/infer"
	"github.com/funvibe/selene/internal/lexer"
	"github.com/funvibe/selene/internal/pack"
	"github.com/funvibe/selene/internal/token"
)

// Context carries one compilation unit through the stages.
type Context struct {
	Filename   string
	SourceCode string
	Tokens     []token.Token
	Program    ast.Node // produced by the external parser
	Packages   []*pack.Detail
	Env        *env.Env
	Typed      ast.Node
	Sink       *diag.Sink
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	if ctx.Sink == nil {
		ctx.Sink = diag.Default
	}
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages.
	}
	return ctx
}

// LexerProcessor turns source text into tokens.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *Context) *Context {
	l := lexer.New(ctx.Filename, ctx.SourceCode, ctx.Sink)
	ctx.Tokens = l.Tokenize()
	return ctx
}

// BindProcessor loads dependency packages and binds the parsed program
// into a fresh environment.
type BindProcessor struct{}

func (bp *BindProcessor) Process(ctx *Context) *Context {
	e := env.Empty().WithSink(ctx.Sink)
	for _, d := range ctx.Packages {
		e.Load(d)
	}
	if ctx.Program != nil {
		e.Bind(ctx.Program)
	}
	ctx.Env = e
	return ctx
}

// CheckProcessor runs type inference over the bound program.
type CheckProcessor struct{}

func (cp *CheckProcessor) Process(ctx *Context) *Context {
	if ctx.Env == nil {
		return ctx
	}
	ctx.Typed = infer.NewChecker(ctx.Env).Check()
	return ctx
}
