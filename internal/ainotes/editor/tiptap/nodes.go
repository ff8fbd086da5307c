package tiptap

import "fmt"

// NewText создает текстовую ноду из произвольного значения.
// nil превращается в пустую строку, остальные значения приводятся к строке
// без какой-либо обрезки пробелов: ведущий пробел в тексте значим для
// редактора и должен сохраняться дословно.
func NewText(value any) Node {
	var text string
	switch v := value.(type) {
	case nil:
		text = ""
	case string:
		text = v
	default:
		text = fmt.Sprint(v)
	}
	return Node{Type: "text", Text: text}
}

// WithMark возвращает копию ноды с добавленным mark. Для нод, не являющихся
// текстом, возвращается вход без изменений. Исходная нода не мутируется:
// слайс marks копируется перед добавлением.
func WithMark(n Node, markType string, attrs map[string]interface{}) Node {
	if n.Type != "text" {
		return n
	}
	marks := make([]Mark, 0, len(n.Marks)+1)
	marks = append(marks, n.Marks...)
	marks = append(marks, Mark{Type: markType, Attrs: attrs})
	n.Marks = marks
	return n
}

// MarkTexts применяет mark ко всем текстовым нодам слайса. Нетекстовые ноды
// (например, блок, ошибочно оказавшийся во встроенном контексте) проходят
// без изменений. Возвращается новый слайс.
func MarkTexts(nodes []Node, markType string, attrs map[string]interface{}) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = WithMark(n, markType, attrs)
	}
	return out
}

// NewParagraph создает параграф. Содержимое нормализуется через Flatten,
// пустое содержимое представляется пустым слайсом, а не nil.
func NewParagraph(content any) Node {
	children := Flatten(content)
	if children == nil {
		children = []Node{}
	}
	return Node{Type: "paragraph", Content: children}
}

// NewListItem создает элемент списка с корректной структурой содержимого
// независимо от того, смешивал ли источник встроенные и блочные ноды на
// одном уровне (частая нерегулярность Markdown/HTML):
//   - без детей элемент получает один пустой параграф;
//   - единственный параграф используется напрямую, без двойной обертки;
//   - иначе последовательные встроенные ноды буферизуются и сбрасываются в
//     параграф перед каждой блочной нодой; блочные ноды (вложенные списки,
//     параграфы, блоки кода) добавляются как есть.
func NewListItem(content any) Node {
	children := Flatten(content)

	var itemContent []Node
	switch {
	case len(children) == 0:
		itemContent = []Node{NewParagraph(nil)}
	case len(children) == 1 && children[0].Type == "paragraph":
		itemContent = []Node{children[0]}
	default:
		var inlineBuf []Node
		flush := func() {
			if len(inlineBuf) > 0 {
				itemContent = append(itemContent, Node{Type: "paragraph", Content: inlineBuf})
				inlineBuf = nil
			}
		}
		for _, child := range children {
			if !IsValid(child) {
				continue
			}
			if IsInline(child) {
				inlineBuf = append(inlineBuf, child)
				continue
			}
			flush()
			itemContent = append(itemContent, child)
		}
		flush()
	}

	return Node{Type: "listItem", Content: itemContent}
}

// NewHeading создает заголовок. Уровень ограничивается диапазоном [1,6].
func NewHeading(level int, content any) Node {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	children := Flatten(content)
	if children == nil {
		children = []Node{}
	}
	return Node{
		Type:    "heading",
		Attrs:   map[string]interface{}{"level": level},
		Content: children,
	}
}

// NewList создает bulletList или orderedList. Элементы, не являющиеся
// listItem, заворачиваются через NewListItem. Атрибут start сохраняется
// только для нумерованного списка и только если он задан и отличен от 1.
func NewList(ordered bool, start int, items []Node) Node {
	listType := "bulletList"
	if ordered {
		listType = "orderedList"
	}

	content := make([]Node, 0, len(items))
	for _, item := range items {
		if !IsValid(item) {
			continue
		}
		if item.Type != "listItem" {
			item = NewListItem(item)
		}
		content = append(content, item)
	}

	list := Node{Type: listType, Content: content}
	if ordered && start != 0 && start != 1 {
		list.Attrs = map[string]interface{}{"start": start}
	}
	return list
}

// NewBlockquote создает цитату с нормализованным содержимым.
func NewBlockquote(content any) Node {
	children := Flatten(content)
	if children == nil {
		children = []Node{}
	}
	return Node{Type: "blockquote", Content: children}
}

// NewCodeBlock создает блок кода. Текст кода сохраняется дословно,
// включая все пробелы и переводы строк.
func NewCodeBlock(language, code string) Node {
	return Node{
		Type:    "codeBlock",
		Attrs:   map[string]interface{}{"language": language},
		Content: []Node{NewText(code)},
	}
}

// NewImage создает атомарную ноду изображения.
func NewImage(src, alt, title string) Node {
	return Node{
		Type:  "image",
		Attrs: map[string]interface{}{"src": src, "alt": alt, "title": title},
	}
}

// NewHorizontalRule создает горизонтальный разделитель.
func NewHorizontalRule() Node {
	return Node{Type: "horizontalRule"}
}

// NewHardBreak создает перенос строки.
func NewHardBreak() Node {
	return Node{Type: "hardBreak"}
}
