package latchtree

// NodeKind tags a node as an inner (branch) node or a leaf. Dispatch is a
// tag check plus a narrow-cast accessor rather than virtual dispatch.
type NodeKind int

const (
	KindInner NodeKind = iota
	KindLeaf
)

// node is the shape shared by innerNode and leafNode: a kind tag and the
// per-node latch. Children are stored as node so an innerNode's separators
// can point at either kind; callers narrow-cast through Kind().
type node interface {
	Kind() NodeKind
	Latch() *latch
}

// asInner narrow-casts n. Callers must already know n.Kind() == KindInner.
func asInner(n node) *innerNode { return n.(*innerNode) }

// asLeaf narrow-casts n. Callers must already know n.Kind() == KindLeaf.
func asLeaf(n node) *leafNode { return n.(*leafNode) }
