package doctree

// Render walks a document tree and produces the ordered presentation
// blocks for it. It is a pure function: no side effects, no errors.
// Unknown node shapes contribute nothing instead of failing, so newer
// editor versions cannot break older readers.

// BlockKind tags a rendered block.
type BlockKind string

const (
	BlockParagraph   BlockKind = "paragraph"
	BlockHeading     BlockKind = "heading"
	BlockCode        BlockKind = "code"
	BlockBulletList  BlockKind = "bulletList"
	BlockOrderedList BlockKind = "orderedList"
)

// Span is a run of text with its recognized marks resolved. Marks keep
// the order the editor listed them; the first mark is the innermost
// wrapper when a consumer nests them.
type Span struct {
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Item is a single list entry with its nested inline content flattened.
type Item struct {
	Spans []Span `json:"spans"`
}

// Block is one presentation instruction, in document order.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Style string    `json:"style,omitempty"`
	Spans []Span    `json:"spans,omitempty"`
	Code  string    `json:"code,omitempty"`
	Items []Item    `json:"items,omitempty"`
}

// markWrappers maps editor mark types to the wrapper each contributes.
// Adding a mark type is one entry here; unrecognized marks fall through
// and the text renders unwrapped.
var markWrappers = map[string]string{
	"bold":   "bold",
	"italic": "italic",
	"code":   "inlineCode",
}

// headingStyles keys the style by level; levels outside the map render
// with the defaultHeadingStyle but keep their stored level.
var headingStyles = map[int]string{
	1: "h1",
	2: "h2",
	3: "h3",
}

const defaultHeadingStyle = "h2"

// Render converts the tree to presentation blocks. A nil or empty tree
// yields nil.
func Render(doc *Node) []Block {
	if doc == nil || len(doc.Content) == 0 {
		return nil
	}

	var out []Block
	for _, node := range doc.Content {
		switch node.Type {
		case "paragraph":
			out = append(out, Block{
				Kind:  BlockParagraph,
				Spans: renderInline(node.Content),
			})
		case "heading":
			level := node.IntAttr("level", 2)
			style, ok := headingStyles[level]
			if !ok {
				style = defaultHeadingStyle
			}
			out = append(out, Block{
				Kind:  BlockHeading,
				Level: level,
				Style: style,
				Spans: renderInline(node.Content),
			})
		case "codeBlock":
			out = append(out, Block{
				Kind: BlockCode,
				Code: codeText(node.Content),
			})
		case "bulletList":
			out = append(out, Block{
				Kind:  BlockBulletList,
				Items: renderItems(node.Content),
			})
		case "orderedList":
			out = append(out, Block{
				Kind:  BlockOrderedList,
				Items: renderItems(node.Content),
			})
		default:
			// unknown block type: no output, keep going
		}
	}
	return out
}

// renderInline resolves a span sequence. Only text nodes contribute;
// marks are folded left-to-right over the wrapper table.
func renderInline(content []Node) []Span {
	var spans []Span
	for _, n := range content {
		if n.Type != "text" {
			continue
		}
		sp := Span{Text: n.Text}
		for _, m := range n.Marks {
			if w, ok := markWrappers[m.Type]; ok {
				sp.Marks = append(sp.Marks, w)
			}
		}
		spans = append(spans, sp)
	}
	return spans
}

// codeText concatenates the raw text segments of a code block. Code
// content is verbatim; marks are never applied here.
func codeText(content []Node) string {
	var s string
	for _, n := range content {
		s += n.Text
	}
	return s
}

// renderItems renders list entries in source order. Each entry flattens
// the inline content of its nested paragraph-like children; ordinal
// numbering is positional, so nothing is stored for it.
func renderItems(content []Node) []Item {
	var items []Item
	for _, li := range content {
		var spans []Span
		for _, child := range li.Content {
			spans = append(spans, renderInline(child.Content)...)
		}
		items = append(items, Item{Spans: spans})
	}
	return items
}
