package tiptap

import (
	"reflect"
	"testing"
)

func TestNewText(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil becomes empty", nil, ""},
		{"string verbatim", "  spaced  ", "  spaced  "},
		{"number stringified", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewText(tt.input)
			if got.Type != "text" || got.Text != tt.want {
				t.Errorf("NewText(%v) = %#v, want text %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWithMarkDoesNotMutate(t *testing.T) {
	orig := NewText("x")
	bold := WithMark(orig, "bold", nil)
	italic := WithMark(bold, "italic", nil)

	if len(orig.Marks) != 0 {
		t.Errorf("original node mutated: %#v", orig)
	}
	if len(bold.Marks) != 1 || bold.Marks[0].Type != "bold" {
		t.Errorf("bold node = %#v", bold)
	}
	if len(italic.Marks) != 2 {
		t.Fatalf("italic node = %#v, want 2 marks", italic)
	}
	if italic.Marks[0].Type != "bold" || italic.Marks[1].Type != "italic" {
		t.Errorf("marks = %v, want [bold italic]", italic.Marks)
	}
}

func TestWithMarkSkipsNonText(t *testing.T) {
	hr := NewHorizontalRule()
	got := WithMark(hr, "bold", nil)
	if !reflect.DeepEqual(got, hr) {
		t.Errorf("WithMark changed non-text node: %#v", got)
	}
}

func TestNewHeadingClampsLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 1},
		{1, 1},
		{3, 3},
		{6, 6},
		{9, 6},
		{-2, 1},
	}

	for _, tt := range tests {
		h := NewHeading(tt.level, "t")
		if got := h.Attrs["level"].(int); got != tt.want {
			t.Errorf("NewHeading(%d) level = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestNewListItemEmpty(t *testing.T) {
	item := NewListItem(nil)
	if len(item.Content) != 1 || item.Content[0].Type != "paragraph" {
		t.Fatalf("empty listItem = %#v, want single empty paragraph", item)
	}
	if len(item.Content[0].Content) != 0 {
		t.Errorf("paragraph content = %#v, want empty", item.Content[0])
	}
}

func TestNewListItemSingleParagraph(t *testing.T) {
	p := NewParagraph("a")
	item := NewListItem([]Node{p})
	if len(item.Content) != 1 {
		t.Fatalf("listItem = %#v, want exactly the paragraph", item)
	}
	if !reflect.DeepEqual(item.Content[0], p) {
		t.Errorf("paragraph was re-wrapped: %#v", item.Content[0])
	}
}

func TestNewListItemMixedInlineAndBlock(t *testing.T) {
	nested := NewList(false, 0, []Node{NewListItem("inner")})
	item := NewListItem([]Node{NewText("head"), nested, NewText("tail")})

	if len(item.Content) != 3 {
		t.Fatalf("listItem content = %#v, want [paragraph, bulletList, paragraph]", item.Content)
	}
	if item.Content[0].Type != "paragraph" || item.Content[0].Content[0].Text != "head" {
		t.Errorf("first child = %#v, want paragraph(head)", item.Content[0])
	}
	if item.Content[1].Type != "bulletList" {
		t.Errorf("nested list was wrapped: %#v", item.Content[1])
	}
	if item.Content[2].Type != "paragraph" || item.Content[2].Content[0].Text != "tail" {
		t.Errorf("trailing inline buffer not flushed: %#v", item.Content[2])
	}
}

func TestNewListStartAttr(t *testing.T) {
	if l := NewList(true, 1, []Node{NewListItem("a")}); l.Attrs != nil {
		t.Errorf("start=1 must be omitted, got attrs %v", l.Attrs)
	}
	if l := NewList(true, 3, []Node{NewListItem("a")}); l.Attrs["start"] != 3 {
		t.Errorf("start=3 not preserved, got attrs %v", l.Attrs)
	}
	if l := NewList(false, 3, []Node{NewListItem("a")}); l.Attrs != nil {
		t.Errorf("bullet list must not carry start, got attrs %v", l.Attrs)
	}
}

func TestNewListWrapsBareItems(t *testing.T) {
	l := NewList(false, 0, []Node{NewText("bare")})
	if len(l.Content) != 1 || l.Content[0].Type != "listItem" {
		t.Fatalf("list = %#v, want wrapped listItem", l)
	}
}

func TestNewCodeBlockVerbatim(t *testing.T) {
	code := "def f():\n    return 1\n"
	cb := NewCodeBlock("python", code)
	if cb.Attrs["language"] != "python" {
		t.Errorf("language = %v", cb.Attrs["language"])
	}
	if len(cb.Content) != 1 || cb.Content[0].Text != code {
		t.Errorf("code text changed: %#v", cb.Content)
	}
}
