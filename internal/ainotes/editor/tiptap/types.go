// Пакет tiptap содержит модель документа TipTap редактора и инструменты для
// построения и нормализации его нод. Документ хранится в том же виде, в каком
// фронтенд сериализует его в JSON (content_json заметки).
package tiptap

// Document представляет корневой документ TipTap.
type Document struct {
	Type    string `json:"type"`
	Content []Node `json:"content,omitempty"`
}

// Node представляет узел в дереве документа TipTap.
// Используется универсальная структура с map для атрибутов для поддержки различных типов нод.
type Node struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []Node                 `json:"content,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
	Text    string                 `json:"text,omitempty"`
}

// Mark представляет форматирование текста (bold, italic, link и т.д.).
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// NewDocument создает корневой документ с переданным содержимым.
// Содержимое предварительно нормализуется через Flatten.
func NewDocument(content any) *Document {
	return &Document{
		Type:    "doc",
		Content: Flatten(content),
	}
}

// IsInline возвращает true для нод, допустимых внутри параграфа.
func IsInline(n Node) bool {
	return n.Type == "text" || n.Type == "hardBreak"
}

// IsValid возвращает true, если нода несет либо текст, либо содержимое,
// то есть соответствует минимальной схеме документа.
func IsValid(n Node) bool {
	return n.Type != ""
}
