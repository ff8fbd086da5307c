// Прием стриминга генерации в документ. Во время стрима каждый чанк
// вставляется в редактор как сырой текст, чтобы прогресс был виден сразу;
// по завершении накопленный буфер парсится целиком и заменяет сырой
// диапазон структурированными нодами. Парсинг каждого чанка по отдельности
// не выполняется: полная перезамена документа на каждый чанк дает мерцание.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aisa-it/ainotes/internal/ainotes/editor"
	"github.com/aisa-it/ainotes/internal/ainotes/editor/convert"
	"github.com/aisa-it/ainotes/internal/ainotes/editor/tiptap"
)

var ErrAlreadyGenerating = errors.New("generation already in progress")

// Ingestor принимает чанки одного запроса генерации и управляет жизненным
// циклом вставки. Повторный Begin до Finish отклоняется: на документ
// допускается не больше одного активного стрима.
type Ingestor struct {
	editor *editor.Editor

	mu         sync.Mutex
	generating bool
	buf        strings.Builder
	start      editor.Position
	cursor     editor.Position
}

func New(e *editor.Editor) *Ingestor {
	return &Ingestor{editor: e}
}

// Generating сообщает, идет ли сейчас прием стрима.
func (in *Ingestor) Generating() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.generating
}

// Begin переводит прием в активное состояние и фиксирует позицию начала
// вставки.
func (in *Ingestor) Begin() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.generating {
		return ErrAlreadyGenerating
	}
	in.generating = true
	in.buf.Reset()
	in.start = in.editor.Cursor()
	in.cursor = in.start
	return nil
}

// Chunk добавляет очередной чанк в буфер и вставляет его в документ как
// есть. Вызов вне активного стрима игнорируется.
func (in *Ingestor) Chunk(chunk string) {
	in.mu.Lock()
	if !in.generating {
		in.mu.Unlock()
		return
	}
	in.buf.WriteString(chunk)
	pos := in.cursor
	in.mu.Unlock()

	next := in.editor.InsertText(pos, chunk)

	in.mu.Lock()
	in.cursor = next
	in.mu.Unlock()
}

// Finish завершает стрим: парсит накопленный буфер и заменяет сырой
// диапазон результатом. При streamErr или ошибке парсинга сырой текст
// остается в документе, а после него добавляется видимая нода с текстом
// ошибки. Буфер и позиции сбрасываются безусловно.
func (in *Ingestor) Finish(streamErr error) {
	in.mu.Lock()
	if !in.generating {
		in.mu.Unlock()
		return
	}
	raw := in.buf.String()
	start, end := in.start, in.cursor

	defer func() {
		in.mu.Lock()
		in.generating = false
		in.buf.Reset()
		in.start = editor.Position{}
		in.cursor = editor.Position{}
		in.mu.Unlock()
	}()
	in.mu.Unlock()

	if streamErr != nil {
		slog.Error("Generation stream failed", "err", streamErr)
		in.appendError(end, streamErr)
		return
	}
	if raw == "" {
		return
	}

	nodes := convert.String(raw)
	in.editor.ReplaceSpan(start, end, nodes)
}

// appendError вставляет за сырым текстом жирную ноду с сообщением об
// ошибке, не трогая уже вставленный вывод.
func (in *Ingestor) appendError(pos editor.Position, err error) {
	errText := tiptap.WithMark(tiptap.NewText(" [generation failed: "+err.Error()+"]"), "bold", nil)
	in.editor.ReplaceSpan(pos, pos, []tiptap.Node{tiptap.NewParagraph(errText)})
}

// Consume читает стрим до конца, передавая каждый прочитанный фрагмент в
// Chunk, и завершает прием. Отмена контекста останавливает чтение; уже
// вставленный текст остается в документе.
func (in *Ingestor) Consume(ctx context.Context, r io.Reader) error {
	if err := in.Begin(); err != nil {
		return err
	}

	reader := bufio.NewReader(r)
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			in.Finish(err)
			return err
		}
		n, err := reader.Read(buf)
		if n > 0 {
			in.Chunk(string(buf[:n]))
		}
		if err == io.EOF {
			in.Finish(nil)
			return nil
		}
		if err != nil {
			in.Finish(err)
			return err
		}
	}
}
