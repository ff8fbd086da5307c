// Обработчики CRUD операций над заметками.
//
// Основные возможности:
//   - Получение списка заметок и отдельной заметки.
//   - Создание и обновление заметок с валидацией содержимого.
//   - Удаление заметок.
package ainotes

import (
	"bytes"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aisa-it/ainotes/internal/ainotes/apierrors"
	"github.com/aisa-it/ainotes/internal/ainotes/dao"
	"github.com/aisa-it/ainotes/internal/ainotes/dto"
	"github.com/aisa-it/ainotes/internal/ainotes/editor/tiptap"
	"github.com/aisa-it/ainotes/internal/ainotes/utils"
)

func (s *Services) AddNoteServices(g *echo.Group) {
	g.GET("notes/", s.getNoteList)
	g.POST("notes/save/", s.saveNote)
	g.GET("notes/:noteId/", s.getNote)
	g.DELETE("notes/:noteId/", s.deleteNote)
}

// getNoteList godoc
// @id getNoteList
// @Summary notes: получение списка заметок
// @Description Возвращает все заметки без содержимого, свежие первыми
// @Tags Notes
// @Accept json
// @Produce json
// @Success 200 {array} dto.NoteLight "список заметок"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/notes/ [get]
func (s *Services) getNoteList(c echo.Context) error {
	notes, err := dao.GetNotes(s.db)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, utils.SliceToSlice(&notes, func(n *dao.Note) dto.NoteLight { return *n.ToLightDTO() }))
}

// getNote godoc
// @id getNote
// @Summary notes: получение заметки
// @Description Возвращает заметку с полным содержимым документа
// @Tags Notes
// @Accept json
// @Produce json
// @Param noteId path string true "Id заметки"
// @Success 200 {object} dto.Note "заметка"
// @Failure 400 {object} apierrors.DefinedError "Некорректный идентификатор"
// @Failure 404 {object} apierrors.DefinedError "Заметка не найдена"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/notes/{noteId}/ [get]
func (s *Services) getNote(c echo.Context) error {
	id, err := uuid.FromString(c.Param("noteId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidNoteID)
	}

	note, err := dao.GetNote(s.db, id)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, note.ToDTO())
}

// saveNote godoc
// @id saveNote
// @Summary notes: сохранение заметки
// @Description Создает заметку или обновляет существующую по id
// @Tags Notes
// @Accept json
// @Produce json
// @Param data body NoteSaveRequest true "Заметка"
// @Success 200 {object} dto.Note "сохраненная заметка"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Заметка не найдена"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/notes/save/ [post]
func (s *Services) saveNote(c echo.Context) error {
	var req NoteSaveRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequestBody)
	}
	if strings.TrimSpace(req.Title) == "" {
		return EErrorDefined(c, apierrors.ErrNoteTitleRequired)
	}
	if utf8.RuneCountInString(req.Title) > dao.NoteTitleMaxLen {
		return EErrorDefined(c, apierrors.ErrNoteTitleTooLong.WithFormattedMessage(dao.NoteTitleMaxLen))
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}

	note := dao.Note{Title: req.Title}
	if req.Id != "" {
		id, err := uuid.FromString(req.Id)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrInvalidNoteID)
		}
		note.ID = id
	}

	if len(req.ContentJSON) > 0 {
		doc, err := tiptap.ParseJSON(bytes.NewReader(req.ContentJSON))
		if err != nil {
			return EErrorDefined(c, apierrors.ErrNoteContentInvalid)
		}
		normalized, err := tiptap.Serialize(doc)
		if err != nil {
			return EError(c, err)
		}
		note.ContentJSON = string(normalized)
	}

	if err := dao.SaveNote(s.db, &note); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, note.ToDTO())
}

// deleteNote godoc
// @id deleteNote
// @Summary notes: удаление заметки
// @Description Удаляет заметку по идентификатору
// @Tags Notes
// @Accept json
// @Produce json
// @Param noteId path string true "Id заметки"
// @Success 204 "заметка удалена"
// @Failure 400 {object} apierrors.DefinedError "Некорректный идентификатор"
// @Failure 404 {object} apierrors.DefinedError "Заметка не найдена"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/notes/{noteId}/ [delete]
func (s *Services) deleteNote(c echo.Context) error {
	id, err := uuid.FromString(c.Param("noteId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidNoteID)
	}

	if err := dao.DeleteNote(s.db, id); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
