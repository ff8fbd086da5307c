// DTO структуры API заметок: облегченные представления для списков и
// полные представления с содержимым документа.
package dto

import (
	"encoding/json"
	"time"
)

// NoteLight — представление заметки в списках, без содержимого.
type NoteLight struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note — полное представление заметки.
type Note struct {
	NoteLight
	CreatedAt   time.Time       `json:"created_at"`
	ContentJSON json.RawMessage `json:"content_json"`
	Version     int             `json:"version"`
}

// Backup — описание файла резервной копии.
type Backup struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
