// Отложенное автосохранение документа. Каждое изменение перезапускает
// единственный таймер тишины; сохранение выполняется один раз после
// затишья и уносит содержимое последнего изменения. Позиция курсора
// снимается перед сериализацией и восстанавливается после сохранения,
// чтобы сохранение не сдвигало точку ввода.
package autosave

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aisa-it/ainotes/internal/ainotes/editor"
)

const DefaultDebounce = 1200 * time.Millisecond

// Status — пассивный индикатор состояния сохранения.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusFailed Status = "save failed"
)

// SaveFunc сохраняет сериализованный документ во внешнем хранилище.
type SaveFunc func(contentJSON []byte) error

// Pipeline дебаунсит изменения документа. Одновременно существует не
// больше одного отложенного таймера: новый запрос отменяет предыдущий.
type Pipeline struct {
	editor *editor.Editor
	save   SaveFunc
	delay  time.Duration

	mu      sync.Mutex
	pending *time.Timer
	status  Status
	done    chan struct{}
}

// New создает конвейер и подписывает его на изменения редактора.
// Неположительный delay заменяется значением по умолчанию.
func New(e *editor.Editor, save SaveFunc, delay time.Duration) *Pipeline {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	p := &Pipeline{editor: e, save: save, delay: delay, status: StatusIdle}
	e.OnChange(p.Schedule)
	return p
}

// Schedule регистрирует изменение: статус немедленно становится saving,
// фактическое сохранение откладывается до конца окна тишины.
func (p *Pipeline) Schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusSaving
	if p.pending != nil {
		p.pending.Stop()
	}
	done := make(chan struct{})
	p.done = done
	p.pending = time.AfterFunc(p.delay, func() {
		defer close(done)
		p.flush()
	})
}

// Flush немедленно выполняет отложенное сохранение, если оно есть, и
// дожидается его завершения.
func (p *Pipeline) Flush() {
	p.mu.Lock()
	pending, done := p.pending, p.done
	p.pending = nil
	p.mu.Unlock()

	if pending == nil {
		return
	}
	if pending.Stop() {
		p.flush()
		return
	}
	// Таймер уже сработал, ждем его колбэк.
	<-done
}

// Stop отменяет отложенное сохранение без выполнения. Контракт очистки
// при уходе с заметки: не сохранять в документ, который больше не активен.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		p.pending.Stop()
	}
	p.pending = nil
	p.status = StatusIdle
}

func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Pipeline) flush() {
	cursor := p.editor.Cursor()
	content, err := p.editor.JSON()
	if err == nil {
		err = p.save(content)
	}
	p.editor.SetCursor(cursor)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		slog.Error("Autosave failed", "err", err)
		p.status = StatusFailed
		return
	}
	p.status = StatusSaved
}
