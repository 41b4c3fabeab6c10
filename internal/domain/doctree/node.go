package doctree

import "encoding/json"

// Node is one node of the editor's document tree. The tree arrives from
// an external authoring tool and is stored verbatim, so every field is
// optional and nothing here is trusted.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// Mark is an inline style annotation attached to a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Decode parses a stored document value into a tree.
func Decode(raw []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// IntAttr reads an integer attribute, tolerating the float64 that
// encoding/json produces for untyped numbers. Missing or non-numeric
// attrs return the fallback.
func (n Node) IntAttr(key string, fallback int) int {
	v, ok := n.Attrs[key]
	if !ok {
		return fallback
	}
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	default:
		return fallback
	}
}
