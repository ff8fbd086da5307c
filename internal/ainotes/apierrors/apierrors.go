// Пакет содержит определения ошибок API заметок. Каждая ошибка имеет
// внутренний код, HTTP статус и сообщения на двух языках, что позволяет
// единообразно отдавать клиенту информативные ответы.
//
// Основные возможности:
//   - Ошибки валидации и общие ошибки сервиса.
//   - Ошибки работы с заметками и их сохранением.
//   - Ошибки генерации текста и суммаризации.
//   - Ошибки резервного копирования.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - validation errors
	ErrInvalidRequestBody = DefinedError{Code: 1001, StatusCode: http.StatusBadRequest, Err: "invalid request body", RuErr: "Некорректное тело запроса"}
	ErrValidationFailed   = DefinedError{Code: 1002, StatusCode: http.StatusBadRequest, Err: "validation failed: %s", RuErr: "Ошибка валидации: %s"}
	ErrInvalidNoteID      = DefinedError{Code: 1003, StatusCode: http.StatusBadRequest, Err: "invalid note id", RuErr: "Некорректный идентификатор заметки"}

	// 2*** - note errors
	ErrNoteNotFound       = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "note not found", RuErr: "Заметка не найдена"}
	ErrNoteTitleRequired  = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "note title is required", RuErr: "Название заметки не может быть пустым"}
	ErrNoteTitleTooLong   = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "note title exceeds %d characters", RuErr: "Название заметки длиннее %d символов"}
	ErrNoteContentInvalid = DefinedError{Code: 2004, StatusCode: http.StatusBadRequest, Err: "note content is not a valid document", RuErr: "Содержимое заметки не является корректным документом"}

	// 3*** - generation errors
	ErrGenerationUnavailable = DefinedError{Code: 3001, StatusCode: http.StatusServiceUnavailable, Err: "generation backend is not configured", RuErr: "Сервис генерации не настроен"}
	ErrGenerationFailed      = DefinedError{Code: 3002, StatusCode: http.StatusBadGateway, Err: "generation request failed", RuErr: "Не удалось выполнить запрос к модели"}
	ErrGenerationBusy        = DefinedError{Code: 3003, StatusCode: http.StatusConflict, Err: "generation already in progress for this note", RuErr: "Для этой заметки уже идет генерация"}

	// 4*** - backup errors
	ErrBackupFailed   = DefinedError{Code: 4001, StatusCode: http.StatusInternalServerError, Err: "backup failed", RuErr: "Не удалось создать резервную копию"}
	ErrBackupNotFound = DefinedError{Code: 4002, StatusCode: http.StatusNotFound, Err: "backup not found", RuErr: "Резервная копия не найдена"}
	ErrRestoreFailed  = DefinedError{Code: 4003, StatusCode: http.StatusInternalServerError, Err: "restore failed", RuErr: "Не удалось восстановить данные из копии"}

	// 5*** - general errors
	ErrGeneric       = DefinedError{Code: 5000, StatusCode: http.StatusBadRequest, Err: "Something went wrong. Please try again later or contact the support team.", RuErr: "Что-то пошло не так. Повторите попытку позже или обратитесь в службу поддержки"}
	ErrEntityToLarge = DefinedError{Code: 5010, StatusCode: http.StatusRequestEntityTooLarge, Err: "size exceeds the allowed limit", RuErr: "Размер запроса превышает допустимый"}
)

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
		e.RuErr = fmt.Sprintf(e.RuErr, args...)
	} else {
		e.Err = strings.Replace(e.Err, "%s", "", -1)
		e.RuErr = strings.Replace(e.RuErr, "%s", "", -1)
	}
	return e
}
