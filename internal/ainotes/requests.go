// Структуры тел запросов API заметок.
package ainotes

import "encoding/json"

type NoteSaveRequest struct {
	Id          string          `json:"id"`
	Title       string          `json:"title" validate:"required,noteTitle"`
	ContentJSON json.RawMessage `json:"content_json"`
}

type SummarizeRequest struct {
	Text string `json:"text" validate:"required"`
}

type GenerateRequest struct {
	Text        string `json:"text" validate:"required"`
	NoteTitle   string `json:"note_title"`
	NoteContext string `json:"note_context"`
}

type AutocompleteRequest struct {
	CurrentText string `json:"current_text" validate:"required"`
	NoteTitle   string `json:"note_title"`
	NoteContext string `json:"note_context"`
}

type NoteGenerateRequest struct {
	Text string `json:"text" validate:"required"`
}

type RestoreRequest struct {
	Name string `json:"name" validate:"required"`
}
