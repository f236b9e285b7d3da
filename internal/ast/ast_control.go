package ast

// While loops while Cond holds.
type While struct {
	Base
	Cond Node
	Body Node
	Exit Node // else-clause value when the loop exits normally; nil when absent
}

// ForStart declares one induction variable.
type ForStart struct {
	Name string
	Init Node
}

// ForStep updates one induction variable each iteration.
type ForStep struct {
	Name string
	Expr Node
}

// For is the C-style loop: for i = 0; i < n; i = i + 1 { ... }
type For struct {
	Base
	Starts []*ForStart
	Stop   Node // nil for an infinite loop
	Steps  []*ForStep
	Body   Node
	Exit   Node // nil when absent
}

// ForIn iterates a value through its iter/iter2 method.
type ForIn struct {
	Base
	Vars     []string
	Iterable Node
	Body     Node
	Exit     Node // nil when absent
}

// Guard checks a condition and runs Else when it fails.
type Guard struct {
	Base
	Cond Node
	Else Node // nil when absent
}

// IncRange is lo..=hi.
type IncRange struct {
	Base
	Lo Node
	Hi Node
}

// ExcRange is lo..<hi.
type ExcRange struct {
	Base
	Lo Node
	Hi Node
}

// FFIBody is an opaque foreign function body.
type FFIBody struct {
	Base
	Code string
}

// Test is an inline test block.
type Test struct {
	Base
	Name string
	Body Node
}
