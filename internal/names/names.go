package names

import "strings"

// Name is a fully-qualified name: optional package, optional namespace,
// and a local part. Absence is the empty string, so Name values are
// comparable and can key maps directly.
type Name struct {
	Pack  string
	NS    string
	Local string
}

// New returns a standalone name.
func New(local string) Name {
	return Name{Local: local}
}

// Qualified returns a name with package and namespace set.
func Qualified(pack, ns, local string) Name {
	return Name{Pack: pack, NS: ns, Local: local}
}

// Standalone reports whether the name has neither package nor namespace.
func (n Name) Standalone() bool {
	return n.Pack == "" && n.NS == ""
}

// WithPack returns a copy with the package set to p.
func (n Name) WithPack(p string) Name {
	n.Pack = p
	return n
}

// Unpack returns a copy with the package cleared.
func (n Name) Unpack() Name {
	n.Pack = ""
	return n
}

// WithNS returns a copy with the namespace set to ns.
func (n Name) WithNS(ns string) Name {
	n.NS = ns
	return n
}

func (n Name) String() string {
	var b strings.Builder
	if n.Pack != "" {
		b.WriteByte('@')
		b.WriteString(n.Pack)
		b.WriteString("::")
	}
	if n.NS != "" {
		b.WriteString(n.NS)
		b.WriteString("::")
	}
	b.WriteString(n.Local)
	return b.String()
}
