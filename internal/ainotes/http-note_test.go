package ainotes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aisa-it/ainotes/internal/ainotes/apierrors"
	"github.com/aisa-it/ainotes/internal/ainotes/config"
	"github.com/aisa-it/ainotes/internal/ainotes/dao"
	"github.com/aisa-it/ainotes/internal/ainotes/dto"
	"github.com/aisa-it/ainotes/internal/ainotes/grok"
	"github.com/gofrs/uuid"
)

// fakeProvider отдает заранее заданные чанки вместо обращения к модели.
type fakeProvider struct {
	chunks   []string
	complete string
}

func (f *fakeProvider) Complete(ctx context.Context, messages []grok.Message) (string, error) {
	return f.complete, nil
}

func (f *fakeProvider) Stream(ctx context.Context, messages []grok.Message, fn func(chunk string) error) error {
	for _, chunk := range f.chunks {
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}

func newTestServices(t *testing.T) (*echo.Echo, *Services) {
	t.Helper()

	cfg = &config.Config{AutosaveDebounceMs: 100, GenerateTimeoutSec: 5}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dao.Note{}))

	e := echo.New()
	e.Validator = NewRequestValidator()

	return e, &Services{db: db, generating: make(map[uuid.UUID]struct{})}
}

func postJSON(e *echo.Echo, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSaveAndGetNote(t *testing.T) {
	e, s := newTestServices(t)

	c, rec := postJSON(e, "/api/notes/save/", NoteSaveRequest{
		Title:       "Meeting notes",
		ContentJSON: json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"agenda"}]}]}`),
	})
	require.NoError(t, s.saveNote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var saved dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "Meeting notes", saved.Title)
	assert.Equal(t, 1, saved.Version)
	require.NotEmpty(t, saved.Id)

	// Получение по id
	req := httptest.NewRequest(http.MethodGet, "/api/notes/"+saved.Id+"/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("noteId")
	c.SetParamValues(saved.Id)
	require.NoError(t, s.getNote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Contains(t, string(fetched.ContentJSON), "agenda")
}

func TestSaveNoteUpdatesVersion(t *testing.T) {
	e, s := newTestServices(t)

	c, rec := postJSON(e, "/api/notes/save/", NoteSaveRequest{Title: "v1"})
	require.NoError(t, s.saveNote(c))
	var saved dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	c, rec = postJSON(e, "/api/notes/save/", NoteSaveRequest{Id: saved.Id, Title: "v2"})
	require.NoError(t, s.saveNote(c))
	var updated dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))

	assert.Equal(t, saved.Id, updated.Id)
	assert.Equal(t, "v2", updated.Title)
	assert.Equal(t, 2, updated.Version)
}

func TestSaveNoteValidation(t *testing.T) {
	e, s := newTestServices(t)

	c, rec := postJSON(e, "/api/notes/save/", NoteSaveRequest{Title: "   "})
	require.NoError(t, s.saveNote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp apierrors.DefinedError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrNoteTitleRequired.Code, resp.Code)

	c, rec = postJSON(e, "/api/notes/save/", NoteSaveRequest{Title: strings.Repeat("x", dao.NoteTitleMaxLen+1)})
	require.NoError(t, s.saveNote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrNoteTitleTooLong.Code, resp.Code)

	c, rec = postJSON(e, "/api/notes/save/", map[string]any{
		"title":        "bad content",
		"content_json": "not a document",
	})
	require.NoError(t, s.saveNote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveNoteUnknownIdReturns404(t *testing.T) {
	e, s := newTestServices(t)

	id, err := uuid.NewV4()
	require.NoError(t, err)
	c, rec := postJSON(e, "/api/notes/save/", NoteSaveRequest{Id: id.String(), Title: "ghost"})
	require.NoError(t, s.saveNote(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Неизвестный id не должен создавать заметку.
	notes, err := dao.GetNotes(s.db)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestGetNoteNotFound(t *testing.T) {
	e, s := newTestServices(t)

	id, _ := uuid.NewV4()
	req := httptest.NewRequest(http.MethodGet, "/api/notes/"+id.String()+"/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("noteId")
	c.SetParamValues(id.String())
	require.NoError(t, s.getNote(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteNote(t *testing.T) {
	e, s := newTestServices(t)

	c, rec := postJSON(e, "/api/notes/save/", NoteSaveRequest{Title: "to delete"})
	require.NoError(t, s.saveNote(c))
	var saved dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	req := httptest.NewRequest(http.MethodDelete, "/api/notes/"+saved.Id+"/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("noteId")
	c.SetParamValues(saved.Id)
	require.NoError(t, s.deleteNote(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	notes, err := dao.GetNotes(s.db)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestGetNoteList(t *testing.T) {
	e, s := newTestServices(t)

	for _, title := range []string{"first", "second"} {
		c, _ := postJSON(e, "/api/notes/save/", NoteSaveRequest{Title: title})
		require.NoError(t, s.saveNote(c))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/notes/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, s.getNoteList(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []dto.NoteLight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	assert.Len(t, notes, 2)
}
