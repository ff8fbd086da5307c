// Пакет для управления периодическими задачами сервиса (резервное
// копирование по расписанию).
//
// Основные возможности:
//   - Регистрация задач по cron-выражению.
//   - Запуск и корректная остановка диспетчера.
package cronmanager

import (
	"fmt"
	"sync"

	"log/slog"

	"github.com/robfig/cron/v3"
)

type CronManager struct {
	dispatcher *cron.Cron
	jobs       map[string]cron.EntryID
	mu         sync.Mutex
}

func NewCronManager() *CronManager {
	dispatcher := cron.New(
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	return &CronManager{
		dispatcher: dispatcher,
		jobs:       make(map[string]cron.EntryID),
	}
}

// AddJob регистрирует задачу под именем name с cron-расписанием schedule.
// Повторная регистрация имени заменяет предыдущую задачу.
func (cm *CronManager) AddJob(name, schedule string, fn func()) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if entryID, exists := cm.jobs[name]; exists {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}

	id, err := cm.dispatcher.AddFunc(schedule, fn)
	if err != nil {
		slog.Error("Failed to add job", "name", name, "err", err)
		return fmt.Errorf("failed to add job '%s': %v", name, err)
	}
	cm.jobs[name] = id
	return nil
}

// RemoveJob removes a job by its name.
func (cm *CronManager) RemoveJob(name string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if entryID, exists := cm.jobs[name]; exists {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}
}

func (cm *CronManager) Start() {
	cm.dispatcher.Start()
}

// Stop останавливает диспетчер и дожидается завершения запущенных задач.
func (cm *CronManager) Stop() {
	ctx := cm.dispatcher.Stop()
	<-ctx.Done()
}
