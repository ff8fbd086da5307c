package convert

import (
	"testing"
)

func TestHTMLParagraphWithMarks(t *testing.T) {
	nodes := HTML("<p>Hello <strong>world</strong></p>")
	if len(nodes) != 1 || nodes[0].Type != "paragraph" {
		t.Fatalf("expected paragraph, got %+v", nodes)
	}
	inline := nodes[0].Content
	if len(inline) != 2 {
		t.Fatalf("expected 2 inline nodes, got %+v", inline)
	}
	if inline[0].Text != "Hello " {
		t.Errorf("unexpected text: %q", inline[0].Text)
	}
	if inline[1].Text != "world" || len(inline[1].Marks) != 1 || inline[1].Marks[0].Type != "bold" {
		t.Errorf("expected bold world, got %+v", inline[1])
	}
}

func TestHTMLHeadings(t *testing.T) {
	nodes := HTML("<h2>Sub</h2>")
	if len(nodes) != 1 || nodes[0].Type != "heading" {
		t.Fatalf("expected heading, got %+v", nodes)
	}
	if level := nodes[0].Attrs["level"]; level != 2 {
		t.Errorf("expected level 2, got %v", level)
	}
}

func TestHTMLOrderedListStart(t *testing.T) {
	nodes := HTML("<ol start=\"5\"><li>five</li><li>six</li></ol>")
	if len(nodes) != 1 || nodes[0].Type != "orderedList" {
		t.Fatalf("expected orderedList, got %+v", nodes)
	}
	if start := nodes[0].Attrs["start"]; start != 5 {
		t.Errorf("expected start 5, got %v", start)
	}
	if len(nodes[0].Content) != 2 {
		t.Errorf("expected 2 items, got %d", len(nodes[0].Content))
	}
}

func TestHTMLListWhitespaceBetweenItems(t *testing.T) {
	nodes := HTML("<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>")
	if len(nodes) != 1 || nodes[0].Type != "bulletList" {
		t.Fatalf("expected bulletList, got %+v", nodes)
	}
	for _, item := range nodes[0].Content {
		if item.Type != "listItem" {
			t.Errorf("whitespace leaked into list: %+v", item)
		}
	}
}

func TestHTMLPreCodeLanguage(t *testing.T) {
	nodes := HTML("<pre><code class=\"language-python\">print(1)\n</code></pre>")
	if len(nodes) != 1 || nodes[0].Type != "codeBlock" {
		t.Fatalf("expected codeBlock, got %+v", nodes)
	}
	if lang := nodes[0].Attrs["language"]; lang != "python" {
		t.Errorf("expected language python, got %v", lang)
	}
	if got := nodes[0].Content[0].Text; got != "print(1)" {
		t.Errorf("unexpected code: %q", got)
	}
}

func TestHTMLInlineCode(t *testing.T) {
	nodes := HTML("<p>run <code>go vet</code></p>")
	inline := nodes[0].Content
	if len(inline) != 2 {
		t.Fatalf("expected 2 inline nodes, got %+v", inline)
	}
	if inline[1].Text != "go vet" || inline[1].Marks[0].Type != "code" {
		t.Errorf("expected code mark, got %+v", inline[1])
	}
}

func TestHTMLLinkAndImage(t *testing.T) {
	nodes := HTML("<p><a href=\"https://example.com\">site</a></p><img src=\"/x.png\" alt=\"x\">")
	link := nodes[0].Content[0]
	if link.Marks[0].Type != "link" || link.Marks[0].Attrs["href"] != "https://example.com" {
		t.Errorf("unexpected link: %+v", link)
	}
	img := nodes[1]
	if img.Type != "image" || img.Attrs["src"] != "/x.png" || img.Attrs["alt"] != "x" {
		t.Errorf("unexpected image: %+v", img)
	}
}

func TestHTMLUnknownTagUnwrapped(t *testing.T) {
	nodes := HTML("<p><span>kept</span></p>")
	if len(nodes) != 1 {
		t.Fatalf("expected 1 block, got %+v", nodes)
	}
	if got := nodes[0].Content[0].Text; got != "kept" {
		t.Errorf("expected unwrapped text, got %+v", nodes[0].Content)
	}
}

func TestHTMLNestedMarks(t *testing.T) {
	nodes := HTML("<p><strong><em>both</em></strong></p>")
	text := nodes[0].Content[0]
	seen := map[string]bool{}
	for _, m := range text.Marks {
		seen[m.Type] = true
	}
	if !seen["bold"] || !seen["italic"] {
		t.Errorf("expected bold+italic, got %+v", text.Marks)
	}
}

func TestStringDispatch(t *testing.T) {
	if nodes := String("<p>html</p>"); len(nodes) != 1 || nodes[0].Type != "paragraph" {
		t.Errorf("expected HTML path, got %+v", nodes)
	}
	nodes := String("# md")
	if len(nodes) != 1 || nodes[0].Type != "heading" {
		t.Errorf("expected Markdown path, got %+v", nodes)
	}
	// Сравнение "a < b" не выглядит как тег.
	nodes = String("a < b")
	if len(nodes) != 1 || nodes[0].Type != "paragraph" {
		t.Errorf("expected Markdown path for bare text, got %+v", nodes)
	}
}
