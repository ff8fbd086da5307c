package tiptap

import (
	"encoding/json"
	"io"
)

// ParseJSON парсит JSON контент TipTap редактора в Document.
// Принимает io.Reader с JSON данными и возвращает распарсенный документ.
// Содержимое нормализуется через Flatten, чтобы дальнейшие операции над
// документом могли полагаться на плоскую валидную структуру.
func ParseJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	if doc.Type == "" {
		doc.Type = "doc"
	}
	doc.Content = Flatten(doc.Content)

	return &doc, nil
}

// Serialize сериализует Document в TipTap JSON.
func Serialize(doc *Document) ([]byte, error) {
	if doc.Type == "" {
		doc.Type = "doc"
	}
	return json.Marshal(doc)
}
