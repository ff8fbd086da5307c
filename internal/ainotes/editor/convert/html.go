package convert

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/aisa-it/ainotes/internal/ainotes/editor/tiptap"
)

var languageClassReg = regexp.MustCompile(`language-([^\s]+)`)

// HTML парсит HTML строку в последовательность нод документа.
// Ошибка парсинга деградирует до параграфа с исходной строкой.
func HTML(src string) []tiptap.Node {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return []tiptap.Node{tiptap.NewParagraph(src)}
	}

	var converted []any
	for el := getBody(root).FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.TextNode && strings.TrimSpace(el.Data) == "" {
			continue
		}
		converted = append(converted, convertDOM(el))
	}
	return tiptap.Flatten(converted)
}

// convertDOM отображает DOM ноду в ноду (или ноды) документа.
// Возвращает tiptap.Node, []tiptap.Node или nil.
func convertDOM(n *html.Node) any {
	switch n.Type {
	case html.TextNode:
		return tiptap.NewText(n.Data)

	case html.DocumentNode:
		return convertDOMChildren(n, false)

	case html.ElementNode:
		switch n.Data {
		case "p":
			return tiptap.NewParagraph(convertDOMChildren(n, false))
		case "br":
			return tiptap.NewHardBreak()
		case "hr":
			return tiptap.NewHorizontalRule()
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level, _ := strconv.Atoi(n.Data[1:])
			return tiptap.NewHeading(level, convertDOMChildren(n, false))
		case "blockquote":
			return tiptap.NewBlockquote(convertDOMChildren(n, true))
		case "ul":
			items := tiptap.Flatten(convertDOMChildren(n, true))
			return tiptap.NewList(false, 0, items)
		case "ol":
			items := tiptap.Flatten(convertDOMChildren(n, true))
			start := 0
			if s, err := strconv.Atoi(attrValue(n, "start")); err == nil {
				start = s
			}
			return tiptap.NewList(true, start, items)
		case "li":
			return tiptap.NewListItem(convertDOMChildren(n, false))
		case "pre":
			return convertPre(n)
		case "code":
			return tiptap.WithMark(tiptap.NewText(textContent(n)), "code", nil)
		case "strong", "b":
			return markChildren(n, "bold", nil)
		case "em", "i":
			return markChildren(n, "italic", nil)
		case "u":
			return markChildren(n, "underline", nil)
		case "s", "del":
			return markChildren(n, "strike", nil)
		case "a":
			return markChildren(n, "link", map[string]interface{}{
				"href": attrValue(n, "href"),
			})
		case "img":
			return tiptap.NewImage(attrValue(n, "src"), attrValue(n, "alt"), attrValue(n, "title"))
		default:
			// Неизвестный тег: обертка отбрасывается, дети сохраняются.
			return convertDOMChildren(n, false)
		}

	default:
		return nil
	}
}

// convertDOMChildren конвертирует детей ноды. В блочном контексте
// (списки, цитаты) текстовые ноды из одних пробелов опускаются — это
// межтеговое форматирование разметки, а не содержимое.
func convertDOMChildren(n *html.Node, blockContext bool) []any {
	var out []any
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if blockContext && child.Type == html.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		out = append(out, convertDOM(child))
	}
	return out
}

// convertPre строит codeBlock из <pre>. Язык извлекается из класса
// language-* вложенного <code>, если он есть.
func convertPre(pre *html.Node) tiptap.Node {
	for child := pre.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "code" {
			language := ""
			if m := languageClassReg.FindStringSubmatch(attrValue(child, "class")); m != nil {
				language = m[1]
			}
			return tiptap.NewCodeBlock(language, strings.TrimSuffix(textContent(child), "\n"))
		}
	}
	return tiptap.NewCodeBlock("", strings.TrimSuffix(textContent(pre), "\n"))
}

// markChildren конвертирует детей элемента и применяет mark ко всем
// получившимся текстовым нодам.
func markChildren(n *html.Node, markType string, attrs map[string]interface{}) []tiptap.Node {
	children := tiptap.Flatten(convertDOMChildren(n, false))
	return tiptap.MarkTexts(children, markType, attrs)
}

// textContent возвращает конкатенацию всего текста поддерева дословно.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}

// attrValue возвращает значение атрибута или пустую строку.
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// getBody возвращает ноду body распарсенного документа.
func getBody(root *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	if body == nil {
		return root
	}
	return body
}
