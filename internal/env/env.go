package env

import (
	"golang.org/x/exp/maps"

	"github.com/funvibe/selene/internal/ast"
	"github.com/funvibe/selene/internal/config"
	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/names"
	"github.com/funvibe/selene/internal/pack"
	"github.com/funvibe/selene/internal/types"
)

// Binding is one value binding (local or global).
type Binding struct {
	Name    names.Name
	Mutable bool
	Ty      types.Type
}

// Field is one struct field record.
type Field struct {
	Name    string
	Ty      types.Type
	Mutable bool
}

// StructInfo describes a declared struct.
type StructInfo struct {
	Name       names.Name
	TypeParams []string
	Fields     []Field
}

// FieldTy returns the type of the named field.
func (s *StructInfo) FieldTy(name string) (types.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Ty, true
		}
	}
	return nil, false
}

// VariantInfo describes one enum constructor.
type VariantInfo struct {
	Name   string
	Params []types.Type
}

// EnumInfo describes a declared enum.
type EnumInfo struct {
	Name       names.Name
	TypeParams []string
	Variants   []VariantInfo
}

// Variant returns the named constructor.
func (e *EnumInfo) Variant(name string) (VariantInfo, bool) {
	for _, v := range e.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantInfo{}, false
}

// AbstractInfo describes a declared abstract type.
type AbstractInfo struct {
	Name       names.Name
	TypeParams []string
}

// TraitInfo describes a declared trait.
type TraitInfo struct {
	Name    names.Name
	Methods map[string]types.Type
}

// implKey identifies one trait implementation.
type implKey struct {
	trait  names.Name
	target names.Name
}

// Env holds the scoped tables inference resolves against. Clone opens a
// nested scope: the containers for locals, globals, structs, enums and
// functions are copied, the rest is shared with the parent.
type Env struct {
	locals    map[string]*Binding
	globals   map[names.Name]*Binding
	structs   map[names.Name]*StructInfo
	enums     map[names.Name]*EnumInfo
	abstracts map[names.Name]*AbstractInfo
	traits    map[names.Name]*TraitInfo
	impls     map[implKey]bool
	fns       map[names.Name]types.Type

	exposed     map[names.Name]names.Name
	typealiases map[names.Name]types.Type
	tyvars      map[string]types.Type
	tyvarTraits map[string][]names.Name

	currFn  *names.Name
	currFor ast.Node

	ast  ast.Node
	sink *diag.Sink
}

// Empty returns an Env with no bindings and a Leaf AST.
func Empty() *Env {
	return &Env{
		locals:      make(map[string]*Binding),
		globals:     make(map[names.Name]*Binding),
		structs:     make(map[names.Name]*StructInfo),
		enums:       make(map[names.Name]*EnumInfo),
		abstracts:   make(map[names.Name]*AbstractInfo),
		traits:      make(map[names.Name]*TraitInfo),
		impls:       make(map[implKey]bool),
		fns:         make(map[names.Name]types.Type),
		exposed:     make(map[names.Name]names.Name),
		typealiases: make(map[names.Name]types.Type),
		tyvars:      make(map[string]types.Type),
		tyvarTraits: make(map[string][]names.Name),
		ast:         &ast.Leaf{},
		sink:        diag.Default,
	}
}

// New returns an Env bound to the given AST.
func New(root ast.Node) *Env {
	e := Empty()
	e.Bind(root)
	return e
}

// WithSink redirects diagnostics to the given sink.
func (e *Env) WithSink(s *diag.Sink) *Env {
	e.sink = s
	return e
}

// Sink returns the diagnostic sink.
func (e *Env) Sink() *diag.Sink { return e.sink }

// AST returns the bound compilation AST.
func (e *Env) AST() ast.Node { return e.ast }

// Clone opens a nested scope. Containers for locals, globals, structs,
// enums and functions are copied so the child can shadow without leaking
// back; values (bindings, infos, weak cells) stay shared.
func (e *Env) Clone() *Env {
	child := *e
	child.locals = maps.Clone(e.locals)
	child.globals = maps.Clone(e.globals)
	child.structs = maps.Clone(e.structs)
	child.enums = maps.Clone(e.enums)
	child.fns = maps.Clone(e.fns)
	return &child
}

// Bind walks the AST and installs top-level declarations. Existing
// bindings are kept: repeated Bind merges and overrides.
func (e *Env) Bind(root ast.Node) {
	e.ast = root
	stmts := []ast.Node{root}
	if b, ok := root.(*ast.Block); ok {
		stmts = b.Stmts
	}
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.GlobalDecl:
			ty := d.AnnTy
			if ty == nil {
				ty = types.Unknown
			}
			e.globals[d.Name] = &Binding{Name: d.Name, Mutable: d.Mutable, Ty: ty}
		case *ast.StructDecl:
			info := &StructInfo{Name: d.Name}
			for _, tp := range d.TypeParams {
				info.TypeParams = append(info.TypeParams, tp.Name)
			}
			for _, f := range d.Fields {
				info.Fields = append(info.Fields, Field{Name: f.Name, Ty: f.Ty, Mutable: f.Mutable})
			}
			e.structs[d.Name] = info
		case *ast.EnumDecl:
			info := &EnumInfo{Name: d.Name}
			for _, tp := range d.TypeParams {
				info.TypeParams = append(info.TypeParams, tp.Name)
			}
			for _, v := range d.Variants {
				info.Variants = append(info.Variants, VariantInfo{Name: v.Name, Params: v.Params})
			}
			e.enums[d.Name] = info
		case *ast.AbstractDecl:
			info := &AbstractInfo{Name: d.Name}
			for _, tp := range d.TypeParams {
				info.TypeParams = append(info.TypeParams, tp.Name)
			}
			e.abstracts[d.Name] = info
		case *ast.TraitDecl:
			info := &TraitInfo{Name: d.Name, Methods: make(map[string]types.Type)}
			for _, m := range d.Methods {
				info.Methods[m.Name] = m.Ty
			}
			e.traits[d.Name] = info
		case *ast.ImplDecl:
			if target, ok := types.NameOf(d.Target); ok {
				e.impls[implKey{trait: d.Trait, target: target}] = true
			}
			for _, m := range d.Methods {
				e.fns[m.Name] = m.Sig()
			}
		case *ast.FnDecl:
			e.fns[d.Name] = d.Sig()
		case *ast.TypealiasDecl:
			e.typealiases[d.Name] = d.Target
		case *ast.FnaliasDecl:
			e.exposed[d.Name] = d.Target
		}
	}
}

// Load ingests a dependency package. Method signatures have Self
// resolved to their owning type. Loading the builtin package exposes
// every declaration's short name.
func (e *Env) Load(d *pack.Detail) {
	builtin := d.Fullname == config.BuiltinPack
	expose := func(n names.Name) {
		if builtin {
			e.exposed[names.New(n.Local)] = n
		}
	}

	for _, fd := range d.Fns {
		ty := fd.Ty
		if fd.Name.NS != "" {
			owner := names.Name{Pack: fd.Name.Pack, Local: fd.Name.NS}
			ty = types.ResolveSelf(ty, owner)
		}
		e.fns[fd.Name] = ty
		expose(fd.Name)
	}
	for _, sd := range d.Structs {
		fields := make([]Field, len(sd.Fields))
		for i, f := range sd.Fields {
			fields[i] = Field{Name: f.Name, Ty: f.Ty, Mutable: f.Mutable}
		}
		e.structs[sd.Name] = &StructInfo{Name: sd.Name, TypeParams: sd.TypeParams, Fields: fields}
		expose(sd.Name)
	}
	for _, ed := range d.Enums {
		variants := make([]VariantInfo, len(ed.Variants))
		for i, v := range ed.Variants {
			variants[i] = VariantInfo{Name: v.Name, Params: v.Params}
		}
		e.enums[ed.Name] = &EnumInfo{Name: ed.Name, TypeParams: ed.TypeParams, Variants: variants}
		expose(ed.Name)
	}
	for _, td := range d.Traits {
		e.traits[td.Name] = &TraitInfo{Name: td.Name, Methods: td.Methods}
		expose(td.Name)
	}
	for _, ad := range d.Abstracts {
		e.abstracts[ad.Name] = &AbstractInfo{Name: ad.Name, TypeParams: ad.TypeParams}
		expose(ad.Name)
	}
	for _, id := range d.Impls {
		e.impls[implKey{trait: id.Trait, target: id.Target}] = true
	}
}

// Resolve follows the exposed table to a fixed point and memoizes the
// result. Chains are bounded by the table size, so cycles terminate.
func (e *Env) Resolve(n names.Name) names.Name {
	cur := n
	for i := 0; i <= len(e.exposed); i++ {
		next, ok := e.exposed[cur]
		if !ok || next == cur {
			break
		}
		cur = next
	}
	if cur != n {
		e.exposed[n] = cur
	}
	return cur
}

// MethodTy returns the type of a method declared in the namespace of the
// named owner type.
func (e *Env) MethodTy(owner names.Name, method string) (types.Type, bool) {
	qualified := names.Name{Pack: owner.Pack, NS: owner.Local, Local: method}
	ty, ok := e.fns[qualified]
	return ty, ok
}

// LookupType resolves a type name to its declared form with the given
// arguments. Standalone names check in-scope type variables first.
// Unknown names yield Unknown.
func (e *Env) LookupType(n names.Name, args []types.Type) types.Type {
	resolved := e.Resolve(n)
	if resolved.Standalone() {
		if bound, ok := e.tyvars[resolved.Local]; ok {
			return bound
		}
	}
	if _, ok := e.structs[resolved]; ok {
		return types.TStruct{Name: resolved, Args: args}
	}
	if _, ok := e.enums[resolved]; ok {
		return types.TEnum{Name: resolved, Args: args}
	}
	if _, ok := e.abstracts[resolved]; ok {
		return types.TAbstract{Name: resolved, Args: args}
	}
	if target, ok := e.typealiases[resolved]; ok {
		return target
	}
	return types.Unknown
}

// AddLocal declares a local in the current scope.
func (e *Env) AddLocal(name string, mutable bool, ty types.Type) *Binding {
	b := &Binding{Name: names.New(name), Mutable: mutable, Ty: ty}
	e.locals[name] = b
	return b
}

// GetLocal returns the local with the given name.
func (e *Env) GetLocal(name string) (*Binding, bool) {
	b, ok := e.locals[name]
	return b, ok
}

// Global returns the global binding with the given name.
func (e *Env) Global(n names.Name) (*Binding, bool) {
	b, ok := e.globals[n]
	return b, ok
}

// Fn returns the function type registered under n.
func (e *Env) Fn(n names.Name) (types.Type, bool) {
	ty, ok := e.fns[n]
	return ty, ok
}

// Struct returns the struct info registered under n.
func (e *Env) Struct(n names.Name) (*StructInfo, bool) {
	s, ok := e.structs[e.Resolve(n)]
	return s, ok
}

// Enum returns the enum info registered under n.
func (e *Env) Enum(n names.Name) (*EnumInfo, bool) {
	en, ok := e.enums[e.Resolve(n)]
	return en, ok
}

// Abstract returns the abstract info registered under n.
func (e *Env) Abstract(n names.Name) (*AbstractInfo, bool) {
	a, ok := e.abstracts[e.Resolve(n)]
	return a, ok
}

// Trait returns the trait info registered under n.
func (e *Env) Trait(n names.Name) (*TraitInfo, bool) {
	t, ok := e.traits[e.Resolve(n)]
	return t, ok
}

// HasImpl reports whether target implements trait.
func (e *Env) HasImpl(trait, target names.Name) bool {
	return e.impls[implKey{trait: trait, target: target}]
}

// DefineTyvar installs a declared type parameter with its bounds.
func (e *Env) DefineTyvar(name string, ty types.Type, bounds []names.Name) {
	e.tyvars[name] = ty
	if len(bounds) > 0 {
		e.tyvarTraits[name] = bounds
	}
}

// Tyvar returns the binding of an in-scope type variable.
func (e *Env) Tyvar(name string) (types.Type, bool) {
	ty, ok := e.tyvars[name]
	return ty, ok
}

// SetTyvar rebinds an in-scope type variable.
func (e *Env) SetTyvar(name string, ty types.Type) {
	e.tyvars[name] = ty
}

// TyvarBounds returns the trait bounds recorded for a type variable.
func (e *Env) TyvarBounds(name string) []names.Name {
	return e.tyvarTraits[name]
}

// CurrFn returns the name of the function being inferred, if any.
func (e *Env) CurrFn() (names.Name, bool) {
	if e.currFn == nil {
		return names.Name{}, false
	}
	return *e.currFn, true
}

// SetCurrFn records the function being inferred.
func (e *Env) SetCurrFn(n names.Name) {
	e.currFn = &n
}

// CurrFor returns the innermost loop node, if any.
func (e *Env) CurrFor() (ast.Node, bool) {
	return e.currFor, e.currFor != nil
}

// SetCurrFor records the innermost loop node.
func (e *Env) SetCurrFor(n ast.Node) {
	e.currFor = n
}
