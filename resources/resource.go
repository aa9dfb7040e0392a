// Package resources renders domain models in the resource envelope used on
// the wire: a single root key naming the resource type, holding either one
// object or an array of objects.
//
//	{"sports": {"id": 1001, "name": "Basketball"}}
//	{"sports": [{"id": 1, "name": "Basketball"}, ...]}
package resources

// Resource is a wire representation that declares its own root key.
type Resource interface {
	RootKey() string
}

// Document is the top-level JSON object written to clients.
type Document map[string]any

// Serialize wraps a single resource under its root key.
func Serialize[R Resource](r R) Document {
	return Document{r.RootKey(): r}
}

// SerializeCollection wraps resources under their root key. A nil or empty
// slice is written as an empty array.
func SerializeCollection[R Resource](rs []R) Document {
	var zero R
	if rs == nil {
		rs = []R{}
	}
	return Document{zero.RootKey(): rs}
}
