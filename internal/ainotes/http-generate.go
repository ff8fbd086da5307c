// Обработчики генерации текста: суммаризация, стриминговая генерация и
// автодополнение, а также серверная генерация прямо в документ заметки.
//
// Основные возможности:
//   - Проксирование стрима модели клиенту как chunked text/plain.
//   - Вставка результата в заметку с финальной конвертацией Markdown
//     в структуру документа и автосохранением.
package ainotes

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aisa-it/ainotes/internal/ainotes/apierrors"
	"github.com/aisa-it/ainotes/internal/ainotes/dao"
	"github.com/aisa-it/ainotes/internal/ainotes/editor"
	"github.com/aisa-it/ainotes/internal/ainotes/editor/autosave"
	"github.com/aisa-it/ainotes/internal/ainotes/editor/ingest"
	"github.com/aisa-it/ainotes/internal/ainotes/grok"
)

func (s *Services) AddGenerateServices(g *echo.Group) {
	g.POST("summarize/", s.summarize)
	g.POST("generate/stream/", s.generateStream)
	g.POST("generate/autocomplete/", s.generateAutocomplete)
	g.POST("notes/:noteId/generate/", s.generateIntoNote)
}

// summarize godoc
// @id summarize
// @Summary generate: суммаризация текста
// @Description Возвращает краткое изложение переданного текста
// @Tags Generate
// @Accept json
// @Produce json
// @Param data body SummarizeRequest true "Текст для суммаризации"
// @Success 200 {object} map[string]string "краткое изложение"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 502 {object} apierrors.DefinedError "Ошибка обращения к модели"
// @Failure 503 {object} apierrors.DefinedError "Генерация не настроена"
// @Router /api/summarize/ [post]
func (s *Services) summarize(c echo.Context) error {
	if s.provider == nil {
		return EErrorDefined(c, apierrors.ErrGenerationUnavailable)
	}

	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequestBody)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}

	ctx, cancel := generationContext(c)
	defer cancel()

	summary, err := s.provider.Complete(ctx, grok.SummarizeMessages(req.Text))
	if err != nil {
		return EError(c, apierrors.ErrGenerationFailed)
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

// generateStream godoc
// @id generateStream
// @Summary generate: стриминговая генерация
// @Description Стримит ответ модели клиенту по мере генерации
// @Tags Generate
// @Accept json
// @Produce plain
// @Param data body GenerateRequest true "Запрос генерации с контекстом заметки"
// @Success 200 {string} string "поток текста"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 503 {object} apierrors.DefinedError "Генерация не настроена"
// @Router /api/generate/stream/ [post]
func (s *Services) generateStream(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequestBody)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}
	return s.streamToClient(c, grok.GenerateMessages(req.Text, req.NoteTitle, req.NoteContext))
}

// generateAutocomplete godoc
// @id generateAutocomplete
// @Summary generate: автодополнение текста
// @Description Стримит продолжение набираемого текста
// @Tags Generate
// @Accept json
// @Produce plain
// @Param data body AutocompleteRequest true "Набранный текст с контекстом заметки"
// @Success 200 {string} string "поток текста"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 503 {object} apierrors.DefinedError "Генерация не настроена"
// @Router /api/generate/autocomplete/ [post]
func (s *Services) generateAutocomplete(c echo.Context) error {
	var req AutocompleteRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequestBody)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}
	return s.streamToClient(c, grok.AutocompleteMessages(req.CurrentText, req.NoteTitle, req.NoteContext))
}

// streamToClient проксирует стрим модели в ответ как chunked text/plain.
// Начатый стрим при ошибке обрывается без структурированного ответа:
// статус уже отправлен клиенту.
func (s *Services) streamToClient(c echo.Context, messages []grok.Message) error {
	if s.provider == nil {
		return EErrorDefined(c, apierrors.ErrGenerationUnavailable)
	}

	ctx, cancel := generationContext(c)
	defer cancel()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	resp.WriteHeader(http.StatusOK)

	err := s.provider.Stream(ctx, messages, func(chunk string) error {
		if _, err := resp.Write([]byte(chunk)); err != nil {
			return err
		}
		resp.Flush()
		return nil
	})
	if err != nil {
		if resp.Committed {
			return nil
		}
		return EError(c, apierrors.ErrGenerationFailed)
	}
	return nil
}

// generateIntoNote godoc
// @id generateIntoNote
// @Summary generate: генерация в заметку
// @Description Выполняет генерацию и вставляет результат в конец документа заметки: во время стрима как сырой текст, по завершении как структурированные ноды
// @Tags Generate
// @Accept json
// @Produce json
// @Param noteId path string true "Id заметки"
// @Param data body NoteGenerateRequest true "Запрос генерации"
// @Success 200 {object} dto.Note "обновленная заметка"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Заметка не найдена"
// @Failure 409 {object} apierrors.DefinedError "Генерация уже идет"
// @Failure 503 {object} apierrors.DefinedError "Генерация не настроена"
// @Router /api/notes/{noteId}/generate/ [post]
func (s *Services) generateIntoNote(c echo.Context) error {
	if s.provider == nil {
		return EErrorDefined(c, apierrors.ErrGenerationUnavailable)
	}

	id, err := uuid.FromString(c.Param("noteId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidNoteID)
	}

	var req NoteGenerateRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequestBody)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}

	if !s.lockNoteGeneration(id) {
		return EErrorDefined(c, apierrors.ErrGenerationBusy)
	}
	defer s.unlockNoteGeneration(id)

	note, err := dao.GetNote(s.db, id)
	if err != nil {
		return EError(c, err)
	}

	host, err := editor.Load([]byte(note.ContentJSON))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrNoteContentInvalid)
	}

	pipeline := autosave.New(host, func(contentJSON []byte) error {
		note.ContentJSON = string(contentJSON)
		return dao.SaveNote(s.db, note)
	}, cfg.AutosaveDebounce())
	defer pipeline.Stop()

	ingestor := ingest.New(host)
	if err := ingestor.Begin(); err != nil {
		return EErrorDefined(c, apierrors.ErrGenerationBusy)
	}

	ctx, cancel := generationContext(c)
	defer cancel()

	streamErr := s.provider.Stream(ctx, grok.GenerateMessages(req.Text, note.Title, host.Outline()), func(chunk string) error {
		ingestor.Chunk(chunk)
		return nil
	})
	ingestor.Finish(streamErr)
	pipeline.Flush()

	return c.JSON(http.StatusOK, note.ToDTO())
}

func (s *Services) lockNoteGeneration(id uuid.UUID) bool {
	s.generateMu.Lock()
	defer s.generateMu.Unlock()
	if _, busy := s.generating[id]; busy {
		return false
	}
	s.generating[id] = struct{}{}
	return true
}

func (s *Services) unlockNoteGeneration(id uuid.UUID) {
	s.generateMu.Lock()
	defer s.generateMu.Unlock()
	delete(s.generating, id)
}

// generationContext ограничивает время запроса к модели, чтобы зависший
// стрим не держал соединение бесконечно.
func generationContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), cfg.GenerateTimeout())
}
