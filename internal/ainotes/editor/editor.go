// Редактор документа в памяти: хранит дерево нод, позицию курсора и
// рассылает уведомления об изменениях. Серверный аналог клиентского
// rich-text редактора, используется конвейером генерации для живой
// вставки текста и финальной структурной замены.
package editor

import (
	"bytes"
	"strconv"
	"strings"
	"sync"

	"github.com/aisa-it/ainotes/internal/ainotes/editor/tiptap"
)

// Position адресует точку в документе: индекс блока верхнего уровня и
// смещение в рунах внутри сцепленного inline текста блока.
type Position struct {
	Block  int `json:"block"`
	Offset int `json:"offset"`
}

// Editor — изменяемый документ с курсором. Все операции потокобезопасны.
type Editor struct {
	mu       sync.Mutex
	doc      *tiptap.Document
	cursor   Position
	onChange []func()
}

func New() *Editor {
	return &Editor{doc: tiptap.NewDocument(nil)}
}

// Load создает редактор из сериализованного документа. Пустой contentJSON
// дает пустой документ.
func Load(contentJSON []byte) (*Editor, error) {
	if len(contentJSON) == 0 {
		return New(), nil
	}
	doc, err := tiptap.ParseJSON(bytes.NewReader(contentJSON))
	if err != nil {
		return nil, err
	}
	e := &Editor{doc: doc}
	e.cursor = e.endLocked()
	return e, nil
}

// JSON сериализует текущий документ.
func (e *Editor) JSON() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return tiptap.Serialize(e.doc)
}

// Document возвращает копию дерева документа.
func (e *Editor) Document() tiptap.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.doc
}

func (e *Editor) Cursor() Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

func (e *Editor) SetCursor(pos Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = e.clampLocked(pos)
}

// End возвращает позицию за последним символом документа.
func (e *Editor) End() Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.endLocked()
}

// OnChange подписывает колбэк на каждое изменение документа.
// Колбэки вызываются синхронно после применения операции, без удержания
// внутренней блокировки.
func (e *Editor) OnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = append(e.onChange, fn)
}

// InsertText вставляет текст как есть в позицию pos и возвращает позицию
// сразу за вставленным текстом. Переводы строк не разбивают блок: текст
// попадает в документ дословно, структурная разметка появляется только на
// этапе финальной замены.
func (e *Editor) InsertText(pos Position, text string) Position {
	if text == "" {
		e.mu.Lock()
		pos = e.clampLocked(pos)
		e.mu.Unlock()
		return pos
	}

	e.mu.Lock()
	pos = e.clampLocked(pos)

	if pos.Block >= len(e.doc.Content) {
		e.doc.Content = append(e.doc.Content, tiptap.NewParagraph(nil))
		pos = Position{Block: len(e.doc.Content) - 1, Offset: 0}
	}

	block := &e.doc.Content[pos.Block]
	if blockOnly(*block) {
		// Список или таблица не принимают текст напрямую: текст идет в
		// новый параграф сразу за блоком.
		out := make([]tiptap.Node, 0, len(e.doc.Content)+1)
		out = append(out, e.doc.Content[:pos.Block+1]...)
		out = append(out, tiptap.NewParagraph(nil))
		out = append(out, e.doc.Content[pos.Block+1:]...)
		e.doc.Content = out
		pos = Position{Block: pos.Block + 1, Offset: 0}
		block = &e.doc.Content[pos.Block]
	}
	left, right := splitInline(block.Content, pos.Offset)
	inserted := tiptap.NewText(text)
	block.Content = append(append(left, inserted), right...)

	next := Position{Block: pos.Block, Offset: pos.Offset + len([]rune(text))}
	e.cursor = next
	e.mu.Unlock()

	e.notify()
	return next
}

// ReplaceSpan удаляет диапазон [from, to) и вставляет на его место блочные
// ноды. Граничный блок режется только когда граница попадает строго внутрь
// его inline содержимого: остаток сохраняет тип и атрибуты исходного блока.
// Блок, чье содержимое целиком лежит вне диапазона (в том числе список или
// таблица — блоки без inline содержимого), остается нетронутым.
func (e *Editor) ReplaceSpan(from, to Position, nodes []tiptap.Node) {
	e.mu.Lock()
	from = e.clampLocked(from)
	to = e.clampLocked(to)
	if to.Block < from.Block || (to.Block == from.Block && to.Offset < from.Offset) {
		from, to = to, from
	}

	docLen := len(e.doc.Content)

	fromCut := from.Block
	var prefix []tiptap.Node
	if from.Block < docLen {
		block := e.doc.Content[from.Block]
		w := inlineLen(block.Content)
		switch {
		case blockOnly(block) || (w > 0 && from.Offset >= w):
			// Содержимое блока целиком до диапазона.
			fromCut = from.Block + 1
		case from.Offset > 0:
			left, _ := splitInline(block.Content, from.Offset)
			prefix = []tiptap.Node{{Type: block.Type, Attrs: block.Attrs, Content: left}}
		}
	}

	toCut := min(to.Block+1, docLen)
	var suffix []tiptap.Node
	if to.Block < docLen {
		block := e.doc.Content[to.Block]
		w := inlineLen(block.Content)
		switch {
		case blockOnly(block) || to.Offset <= 0:
			// Содержимое блока целиком после диапазона.
			toCut = to.Block
		case to.Offset < w:
			_, right := splitInline(block.Content, to.Offset)
			suffix = []tiptap.Node{{Type: block.Type, Attrs: block.Attrs, Content: right}}
		}
	}
	if toCut < fromCut {
		toCut = fromCut
	}

	replacement := make([]tiptap.Node, 0, len(prefix)+len(nodes)+len(suffix))
	replacement = append(replacement, prefix...)
	replacement = append(replacement, nodes...)
	replacement = append(replacement, suffix...)

	out := make([]tiptap.Node, 0, fromCut+len(replacement)+docLen-toCut)
	out = append(out, e.doc.Content[:fromCut]...)
	out = append(out, replacement...)
	out = append(out, e.doc.Content[toCut:]...)
	e.doc.Content = out

	e.cursor = e.clampLocked(Position{Block: fromCut + len(replacement), Offset: 0})
	e.mu.Unlock()

	e.notify()
}

// Outline строит плоское оглавление документа: строка на заголовок и
// строка на параграф. Передается модели как контекст заметки.
func (e *Editor) Outline() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var sb strings.Builder
	var walk func(nodes []tiptap.Node)
	walk = func(nodes []tiptap.Node) {
		for _, n := range nodes {
			switch n.Type {
			case "heading":
				level := 1
				if l, ok := n.Attrs["level"].(int); ok {
					level = l
				} else if l, ok := n.Attrs["level"].(float64); ok {
					level = int(l)
				}
				sb.WriteString("Heading ")
				sb.WriteString(strconv.Itoa(level))
				sb.WriteString(": ")
				sb.WriteString(inlineText(n.Content))
				sb.WriteString("\n")
			case "paragraph":
				if text := inlineText(n.Content); text != "" {
					sb.WriteString("- ")
					sb.WriteString(text)
					sb.WriteString("\n")
				}
			default:
				walk(n.Content)
			}
		}
	}
	walk(e.doc.Content)
	return strings.TrimSuffix(sb.String(), "\n")
}

// PlainText возвращает текст документа без разметки, блоки разделены
// переводами строк.
func (e *Editor) PlainText() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var lines []string
	var walk func(nodes []tiptap.Node)
	walk = func(nodes []tiptap.Node) {
		for _, n := range nodes {
			if tiptap.IsInline(n) || n.Type == "paragraph" || n.Type == "heading" || n.Type == "codeBlock" {
				if text := inlineText([]tiptap.Node{n}); text != "" {
					lines = append(lines, text)
				}
				continue
			}
			walk(n.Content)
		}
	}
	walk(e.doc.Content)
	return strings.Join(lines, "\n")
}

func (e *Editor) notify() {
	e.mu.Lock()
	callbacks := make([]func(), len(e.onChange))
	copy(callbacks, e.onChange)
	e.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

func (e *Editor) endLocked() Position {
	if len(e.doc.Content) == 0 {
		return Position{}
	}
	last := len(e.doc.Content) - 1
	return Position{Block: last, Offset: inlineLen(e.doc.Content[last].Content)}
}

// clampLocked приводит позицию к границам документа.
func (e *Editor) clampLocked(pos Position) Position {
	if pos.Block < 0 {
		pos.Block = 0
	}
	if pos.Block >= len(e.doc.Content) {
		return e.endLocked()
	}
	if pos.Offset < 0 {
		pos.Offset = 0
	}
	if max := inlineLen(e.doc.Content[pos.Block].Content); pos.Offset > max {
		pos.Offset = max
	}
	return pos
}

// splitInline режет inline последовательность по смещению в рунах.
// Текстовая нода на границе делится на две с теми же marks.
func splitInline(content []tiptap.Node, offset int) (left, right []tiptap.Node) {
	for i, n := range content {
		width := inlineWidth(n)
		if offset >= width {
			left = append(left, n)
			offset -= width
			continue
		}
		if offset > 0 && n.Type == "text" {
			runes := []rune(n.Text)
			head, tail := n, n
			head.Text = string(runes[:offset])
			tail.Text = string(runes[offset:])
			left = append(left, head)
			right = append(right, tail)
		} else {
			right = append(right, n)
		}
		right = append(right, content[i+1:]...)
		return left, right
	}
	return left, nil
}

// blockOnly сообщает, состоит ли содержимое блока только из блочных нод
// (список, таблица, цитата): такие блоки не имеют inline позиций.
func blockOnly(n tiptap.Node) bool {
	return len(n.Content) > 0 && inlineLen(n.Content) == 0
}

func inlineWidth(n tiptap.Node) int {
	if n.Type == "text" {
		return len([]rune(n.Text))
	}
	if n.Type == "hardBreak" {
		return 1
	}
	return 0
}

func inlineLen(content []tiptap.Node) int {
	total := 0
	for _, n := range content {
		total += inlineWidth(n)
	}
	return total
}

// inlineText собирает текст поддерева нод.
func inlineText(nodes []tiptap.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n.Type {
		case "text":
			sb.WriteString(n.Text)
		case "hardBreak":
			sb.WriteString("\n")
		default:
			sb.WriteString(inlineText(n.Content))
		}
	}
	return sb.String()
}

