package convert

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aisa-it/ainotes/internal/ainotes/editor/tiptap"
)

// Markdown парсит строку Markdown в последовательность нод документа.
// Любая ошибка парсинга деградирует до единственного параграфа с исходной
// строкой: частичный контент всегда предпочтительнее падения посреди
// генерации.
func Markdown(src string) (nodes []tiptap.Node) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Markdown parse failed", "err", r)
			nodes = []tiptap.Node{tiptap.NewParagraph(src)}
		}
	}()

	source := []byte(src)
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
		),
	)
	root := md.Parser().Parse(text.NewReader(source))

	var converted []any
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		converted = append(converted, convertAST(child, source))
	}
	return tiptap.Flatten(converted)
}

// convertAST отображает одну ноду goldmark AST в ноду (или ноды) документа.
// Возвращает tiptap.Node, []tiptap.Node или nil; результат нормализуется
// вызывающей стороной через Flatten.
func convertAST(n ast.Node, source []byte) any {
	switch node := n.(type) {
	case *ast.Document:
		return convertASTChildren(node, source)

	case *ast.Paragraph, *ast.TextBlock:
		return tiptap.NewParagraph(convertASTChildren(n, source))

	case *ast.Text:
		value := string(node.Segment.Value(source))
		switch {
		case node.HardLineBreak():
			return []tiptap.Node{tiptap.NewText(value), tiptap.NewHardBreak()}
		case node.SoftLineBreak():
			// Мягкий перенос остается в тексте дословно.
			return tiptap.NewText(value + "\n")
		default:
			return tiptap.NewText(value)
		}

	case *ast.String:
		return tiptap.NewText(string(node.Value))

	case *ast.Heading:
		return tiptap.NewHeading(node.Level, convertASTChildren(node, source))

	case *ast.List:
		items := tiptap.Flatten(convertASTChildren(node, source))
		start := 0
		if node.IsOrdered() {
			start = node.Start
		}
		return tiptap.NewList(node.IsOrdered(), start, items)

	case *ast.ListItem:
		return tiptap.NewListItem(convertASTChildren(node, source))

	case *ast.Blockquote:
		return tiptap.NewBlockquote(convertASTChildren(node, source))

	case *ast.FencedCodeBlock:
		return tiptap.NewCodeBlock(string(node.Language(source)), blockLines(node, source))

	case *ast.CodeBlock:
		return tiptap.NewCodeBlock("", blockLines(node, source))

	case *ast.CodeSpan:
		return tiptap.WithMark(tiptap.NewText(astText(node, source)), "code", nil)

	case *ast.Emphasis:
		markType := "italic"
		if node.Level >= 2 {
			markType = "bold"
		}
		children := tiptap.Flatten(convertASTChildren(node, source))
		return tiptap.MarkTexts(children, markType, nil)

	case *extast.Strikethrough:
		children := tiptap.Flatten(convertASTChildren(node, source))
		return tiptap.MarkTexts(children, "strike", nil)

	case *ast.Link:
		children := tiptap.Flatten(convertASTChildren(node, source))
		return tiptap.MarkTexts(children, "link", map[string]interface{}{
			"href": string(node.Destination),
		})

	case *ast.AutoLink:
		u := string(node.URL(source))
		return tiptap.WithMark(tiptap.NewText(u), "link", map[string]interface{}{"href": u})

	case *ast.Image:
		return tiptap.NewImage(string(node.Destination), astText(node, source), string(node.Title))

	case *ast.ThematicBreak:
		return tiptap.NewHorizontalRule()

	case *ast.RawHTML:
		return tiptap.NewText(rawSegments(node.Segments, source))

	case *ast.HTMLBlock:
		return tiptap.NewParagraph(blockLines(node, source))

	case *extast.Table:
		return convertTable(node, source)

	default:
		// Нераспознанный тип: если есть дети — рекурсия, иначе нода опускается.
		if n.HasChildren() {
			return convertASTChildren(n, source)
		}
		slog.Debug("Unknown markdown AST node", "kind", n.Kind().String())
		return nil
	}
}

// convertASTChildren конвертирует всех прямых детей ноды.
func convertASTChildren(n ast.Node, source []byte) []any {
	var out []any
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, convertAST(child, source))
	}
	return out
}

// convertTable строит табличные ноды из goldmark table extension.
// Первая строка (TableHeader) получает ячейки tableHeaderCell.
func convertTable(table *extast.Table, source []byte) tiptap.Node {
	var rows []tiptap.Node
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*extast.TableHeader)
		cellType := "tableCell"
		if header {
			cellType = "tableHeaderCell"
		}

		var cells []tiptap.Node
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			content := tiptap.Flatten(convertASTChildren(cell, source))
			cells = append(cells, tiptap.Node{
				Type:    cellType,
				Content: []tiptap.Node{tiptap.NewParagraph(content)},
			})
		}
		rows = append(rows, tiptap.Node{Type: "tableRow", Content: cells})
	}
	return tiptap.Node{Type: "table", Content: rows}
}

// blockLines собирает текст строк блочной ноды (код, HTML-блок) дословно,
// без завершающего перевода строки.
func blockLines(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// rawSegments собирает сырой текст из списка сегментов.
func rawSegments(segments *text.Segments, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// astText возвращает конкатенацию текстовых сегментов поддерева.
func astText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
