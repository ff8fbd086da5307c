// Слой доступа к данным заметок: модель Note и функции работы с БД.
package dao

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/aisa-it/ainotes/internal/ainotes/apierrors"
	"github.com/aisa-it/ainotes/internal/ainotes/dto"
)

const NoteTitleMaxLen = 150

type Note struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `json:"title" validate:"required,noteTitle"`
	ContentJSON string `json:"content_json" gorm:"type:text"`
	Version     int    `json:"version" gorm:"default:1"`
}

func (Note) TableName() string { return "notes" }

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID.IsNil() {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		n.ID = id
	}
	return nil
}

// Преобразует структуру Note в dto.NoteLight для списков.
func (n *Note) ToLightDTO() *dto.NoteLight {
	if n == nil {
		return nil
	}
	return &dto.NoteLight{
		Id:        n.ID.String(),
		Title:     n.Title,
		UpdatedAt: n.UpdatedAt,
	}
}

// Преобразует структуру Note в dto.Note для удобства использования в API.
func (n *Note) ToDTO() *dto.Note {
	if n == nil {
		return nil
	}
	content := json.RawMessage(n.ContentJSON)
	if n.ContentJSON == "" {
		content = json.RawMessage(`{"type":"doc","content":[]}`)
	}
	return &dto.Note{
		NoteLight:   *n.ToLightDTO(),
		CreatedAt:   n.CreatedAt,
		ContentJSON: content,
		Version:     n.Version,
	}
}

// GetNote возвращает заметку по идентификатору.
func GetNote(db *gorm.DB, id uuid.UUID) (*Note, error) {
	var note Note
	if err := db.Where("id = ?", id).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// GetNotes возвращает все заметки, самые свежие первыми.
func GetNotes(db *gorm.DB) ([]Note, error) {
	var notes []Note
	if err := db.Order("updated_at desc").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// SaveNote создает заметку без идентификатора или обновляет существующую,
// увеличивая версию. Неизвестный идентификатор — ошибка, а не создание:
// клиент не назначает id сам.
func SaveNote(db *gorm.DB, note *Note) error {
	if note.ID.IsNil() {
		return db.Create(note).Error
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing Note
		err := tx.Where("id = ?", note.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apierrors.ErrNoteNotFound
		case err != nil:
			return err
		}

		note.CreatedAt = existing.CreatedAt
		note.Version = existing.Version + 1
		return tx.Save(note).Error
	})
}

// DeleteNote удаляет заметку по идентификатору.
func DeleteNote(db *gorm.DB, id uuid.UUID) error {
	res := db.Where("id = ?", id).Delete(&Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierrors.ErrNoteNotFound
	}
	return nil
}
