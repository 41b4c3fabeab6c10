package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textNode(text string, marks ...string) Node {
	n := Node{Type: "text", Text: text}
	for _, m := range marks {
		n.Marks = append(n.Marks, Mark{Type: m})
	}
	return n
}

func paragraph(children ...Node) Node {
	return Node{Type: "paragraph", Content: children}
}

func TestRender_Paragraph(t *testing.T) {
	doc := &Node{Type: "doc", Content: []Node{
		paragraph(textNode("hello "), textNode("world", "bold")),
	}}

	blocks := Render(doc)

	require.Len(t, blocks, 1)
	assert.Equal(t, BlockParagraph, blocks[0].Kind)
	require.Len(t, blocks[0].Spans, 2)
	assert.Equal(t, Span{Text: "hello "}, blocks[0].Spans[0])
	assert.Equal(t, Span{Text: "world", Marks: []string{"bold"}}, blocks[0].Spans[1])
}

func TestRender_MarkOrderAndUnknownMarks(t *testing.T) {
	doc := &Node{Type: "doc", Content: []Node{
		paragraph(
			textNode("emphasised", "bold", "italic"),
			textNode("struck", "strike"),
			textNode("snippet", "code"),
		),
	}}

	blocks := Render(doc)

	require.Len(t, blocks, 1)
	spans := blocks[0].Spans
	require.Len(t, spans, 3)

	// marks keep list order; the first is the innermost wrapper
	assert.Equal(t, []string{"bold", "italic"}, spans[0].Marks)

	// unrecognized mark: bare text, no wrapper, no error
	assert.Equal(t, "struck", spans[1].Text)
	assert.Empty(t, spans[1].Marks)

	assert.Equal(t, []string{"inlineCode"}, spans[2].Marks)
}

func TestRender_HeadingLevels(t *testing.T) {
	tests := []struct {
		name      string
		attrs     map[string]any
		wantLevel int
		wantStyle string
	}{
		{name: "level 1", attrs: map[string]any{"level": float64(1)}, wantLevel: 1, wantStyle: "h1"},
		{name: "level 3", attrs: map[string]any{"level": float64(3)}, wantLevel: 3, wantStyle: "h3"},
		{name: "missing level defaults", attrs: nil, wantLevel: 2, wantStyle: "h2"},
		{name: "level 0 keeps level, default style", attrs: map[string]any{"level": float64(0)}, wantLevel: 0, wantStyle: "h2"},
		{name: "level 6 keeps level, default style", attrs: map[string]any{"level": float64(6)}, wantLevel: 6, wantStyle: "h2"},
		{name: "non-numeric level defaults", attrs: map[string]any{"level": "two"}, wantLevel: 2, wantStyle: "h2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Node{Type: "doc", Content: []Node{
				{Type: "heading", Attrs: tt.attrs, Content: []Node{textNode("title")}},
			}}

			blocks := Render(doc)

			require.Len(t, blocks, 1)
			assert.Equal(t, BlockHeading, blocks[0].Kind)
			assert.Equal(t, tt.wantLevel, blocks[0].Level)
			assert.Equal(t, tt.wantStyle, blocks[0].Style)
		})
	}
}

func TestRender_CodeBlockConcatenatesVerbatim(t *testing.T) {
	doc := &Node{Type: "doc", Content: []Node{
		{Type: "codeBlock", Content: []Node{
			{Type: "text", Text: "func main() {\n", Marks: []Mark{{Type: "bold"}}},
			{Type: "text", Text: "\tprintln(\"hi\")\n"},
			{Type: "text", Text: "}"},
		}},
	}}

	blocks := Render(doc)

	require.Len(t, blocks, 1)
	assert.Equal(t, BlockCode, blocks[0].Kind)
	// code is literal: marks never apply inside a code block
	assert.Equal(t, "func main() {\n\tprintln(\"hi\")\n}", blocks[0].Code)
	assert.Empty(t, blocks[0].Spans)
}

func TestRender_ListsPreserveOrder(t *testing.T) {
	item := func(texts ...string) Node {
		var paras []Node
		for _, s := range texts {
			paras = append(paras, paragraph(textNode(s)))
		}
		return Node{Type: "listItem", Content: paras}
	}

	doc := &Node{Type: "doc", Content: []Node{
		{Type: "bulletList", Content: []Node{item("first"), item("second")}},
		{Type: "orderedList", Content: []Node{item("one"), item("two"), item("three sub-a", "three sub-b")}},
	}}

	blocks := Render(doc)

	require.Len(t, blocks, 2)
	assert.Equal(t, BlockBulletList, blocks[0].Kind)
	require.Len(t, blocks[0].Items, 2)
	assert.Equal(t, "first", blocks[0].Items[0].Spans[0].Text)
	assert.Equal(t, "second", blocks[0].Items[1].Spans[0].Text)

	assert.Equal(t, BlockOrderedList, blocks[1].Kind)
	require.Len(t, blocks[1].Items, 3)
	// nested paragraphs flatten into one entry, order kept
	require.Len(t, blocks[1].Items[2].Spans, 2)
	assert.Equal(t, "three sub-a", blocks[1].Items[2].Spans[0].Text)
	assert.Equal(t, "three sub-b", blocks[1].Items[2].Spans[1].Text)
}

func TestRender_UnknownBlockTypeIsSkipped(t *testing.T) {
	doc := &Node{Type: "doc", Content: []Node{
		paragraph(textNode("before")),
		{Type: "table", Content: []Node{textNode("cells")}},
		{Type: "horizontalRule"},
		paragraph(textNode("after")),
	}}

	blocks := Render(doc)

	// unknown blocks contribute nothing and do not stop their siblings
	require.Len(t, blocks, 2)
	assert.Equal(t, "before", blocks[0].Spans[0].Text)
	assert.Equal(t, "after", blocks[1].Spans[0].Text)
}

func TestRender_DegenerateTrees(t *testing.T) {
	assert.Nil(t, Render(nil))
	assert.Nil(t, Render(&Node{Type: "doc"}))

	// blocks with missing content still render, just empty
	blocks := Render(&Node{Type: "doc", Content: []Node{
		{Type: "paragraph"},
		{Type: "codeBlock"},
		{Type: "bulletList"},
	}})
	require.Len(t, blocks, 3)
	assert.Empty(t, blocks[0].Spans)
	assert.Empty(t, blocks[1].Code)
	assert.Empty(t, blocks[2].Items)
}

func TestRender_IsPure(t *testing.T) {
	doc := &Node{Type: "doc", Content: []Node{
		{Type: "heading", Attrs: map[string]any{"level": float64(1)}, Content: []Node{textNode("Title", "bold")}},
		paragraph(textNode("body")),
		{Type: "codeBlock", Content: []Node{{Type: "text", Text: "x := 1"}}},
	}}

	first := Render(doc)
	second := Render(doc)

	assert.Equal(t, first, second)
}

func TestDecode_RoundTripsEditorJSON(t *testing.T) {
	raw := []byte(`{
		"type": "doc",
		"content": [
			{"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Intro"}]},
			{"type": "paragraph", "content": [{"type": "text", "text": "bold bit", "marks": [{"type": "bold"}]}]}
		]
	}`)

	doc, err := Decode(raw)

	require.NoError(t, err)
	blocks := Render(doc)
	require.Len(t, blocks, 2)
	assert.Equal(t, "h2", blocks[0].Style)
	assert.Equal(t, []string{"bold"}, blocks[1].Spans[0].Marks)
}

func TestDecode_RejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"type": "doc", "content": [`))
	assert.Error(t, err)
}
