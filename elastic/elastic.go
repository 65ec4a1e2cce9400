package elastic

// ProtocolVersion selects the wire protocol generation a Client speaks.
// It is chosen once per client and threaded through every render call.
type ProtocolVersion int

const (
	V2 ProtocolVersion = 2
	V6 ProtocolVersion = 6
)

func (v ProtocolVersion) String() string {
	switch v {
	case V2:
		return "2.x"
	case V6:
		return "6.x"
	default:
		return "unknown"
	}
}

// Index names a logical document collection. Equality is by name.
type Index string

func (i Index) String() string { return string(i) }

// Type names a sub-collection within an index. An empty Type means the
// path segment is omitted.
type Type string

func (t Type) String() string { return string(t) }

// Query is the rendering contract for all query AST nodes. Source must be
// a pure function of the node's fields and the version tag.
type Query interface {
	Source(v ProtocolVersion) map[string]interface{}
}
