package ainotes

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofrs/uuid"

	"github.com/aisa-it/ainotes/internal/ainotes/backup"
	"github.com/aisa-it/ainotes/internal/ainotes/dao"
	"github.com/aisa-it/ainotes/internal/ainotes/dto"
	"github.com/aisa-it/ainotes/internal/ainotes/editor/tiptap"
)

func TestSummarize(t *testing.T) {
	e, s := newTestServices(t)
	s.provider = &fakeProvider{complete: "A short summary."}

	c, rec := postJSON(e, "/api/summarize/", SummarizeRequest{Text: "a very long note text"})
	require.NoError(t, s.summarize(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A short summary.", resp["summary"])
}

func TestSummarizeWithoutProvider(t *testing.T) {
	e, s := newTestServices(t)

	c, rec := postJSON(e, "/api/summarize/", SummarizeRequest{Text: "text"})
	require.NoError(t, s.summarize(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateStreamProxiesChunks(t *testing.T) {
	e, s := newTestServices(t)
	s.provider = &fakeProvider{chunks: []string{"## Hi", "\n\nthis is ", "*nice*"}}

	c, rec := postJSON(e, "/api/generate/stream/", GenerateRequest{Text: "write a greeting"})
	require.NoError(t, s.generateStream(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "## Hi\n\nthis is *nice*", rec.Body.String())
}

func TestGenerateAutocompleteValidation(t *testing.T) {
	e, s := newTestServices(t)
	s.provider = &fakeProvider{}

	c, rec := postJSON(e, "/api/generate/autocomplete/", AutocompleteRequest{})
	require.NoError(t, s.generateAutocomplete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateIntoNote(t *testing.T) {
	e, s := newTestServices(t)
	s.provider = &fakeProvider{chunks: []string{"## Hi", "\n\nthis is ", "*nice*"}}

	c, rec := postJSON(e, "/api/notes/save/", NoteSaveRequest{Title: "My note"})
	require.NoError(t, s.saveNote(c))
	var saved dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	c, rec = postJSON(e, "/api/notes/"+saved.Id+"/generate/", NoteGenerateRequest{Text: "greet me"})
	c.SetParamNames("noteId")
	c.SetParamValues(saved.Id)
	require.NoError(t, s.generateIntoNote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))

	var doc tiptap.Document
	require.NoError(t, json.Unmarshal(updated.ContentJSON, &doc))
	require.Len(t, doc.Content, 2)

	heading := doc.Content[0]
	assert.Equal(t, "heading", heading.Type)
	assert.EqualValues(t, 2, heading.Attrs["level"])
	require.Len(t, heading.Content, 1)
	assert.Equal(t, "Hi", heading.Content[0].Text)

	para := doc.Content[1]
	assert.Equal(t, "paragraph", para.Type)
	require.Len(t, para.Content, 2)
	assert.Equal(t, "this is ", para.Content[0].Text)
	assert.Equal(t, "nice", para.Content[1].Text)
	require.Len(t, para.Content[1].Marks, 1)
	assert.Equal(t, "italic", para.Content[1].Marks[0].Type)

	// Результат сохранен в базе, а не только в ответе
	persisted, err := dao.GetNotes(s.db)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Contains(t, persisted[0].ContentJSON, "heading")
}

func TestGenerateIntoNoteBusy(t *testing.T) {
	e, s := newTestServices(t)
	s.provider = &fakeProvider{}

	c, rec := postJSON(e, "/api/notes/save/", NoteSaveRequest{Title: "busy"})
	require.NoError(t, s.saveNote(c))
	var saved dto.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	id, err := uuid.FromString(saved.Id)
	require.NoError(t, err)
	require.True(t, s.lockNoteGeneration(id))

	c, rec = postJSON(e, "/api/notes/"+saved.Id+"/generate/", NoteGenerateRequest{Text: "x"})
	c.SetParamNames("noteId")
	c.SetParamValues(saved.Id)
	require.NoError(t, s.generateIntoNote(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	s.unlockNoteGeneration(id)
}

func TestRestoreBackupUnknownName(t *testing.T) {
	e, s := newTestServices(t)

	var err error
	s.backupService, err = backup.NewService(s.db, t.TempDir())
	require.NoError(t, err)

	c, rec := postJSON(e, "/api/notes-restore/", RestoreRequest{Name: "../outside.db"})
	require.NoError(t, s.restoreBackup(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

