// Резервное копирование базы заметок. Копия снимается с живой базы
// через VACUUM INTO в отдельный файл с отметкой времени; восстановление
// читает заметки из файла копии и переносит их в рабочую базу.
package backup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aisa-it/ainotes/internal/ainotes/apierrors"
	"github.com/aisa-it/ainotes/internal/ainotes/dao"
	"github.com/aisa-it/ainotes/internal/ainotes/dto"
)

const filePrefix = "notes_backup_"

type Service struct {
	db  *gorm.DB
	dir string
}

func NewService(db *gorm.DB, dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Service{db: db, dir: dir}, nil
}

// Run снимает копию базы в новый файл и возвращает его описание.
func (s *Service) Run() (*dto.Backup, error) {
	name := filePrefix + time.Now().Format("2006-01-02_150405") + ".db"
	path := filepath.Join(s.dir, name)

	if err := s.db.Exec("VACUUM INTO ?", path).Error; err != nil {
		slog.Error("Backup failed", "path", path, "err", err)
		return nil, apierrors.ErrBackupFailed
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apierrors.ErrBackupFailed
	}

	slog.Info("Backup created", "path", path, "size", info.Size())
	return &dto.Backup{Name: name, Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

// List возвращает имеющиеся копии, самые свежие первыми.
func (s *Service) List() ([]dto.Backup, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	backups := make([]dto.Backup, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, dto.Backup{
			Name:      entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].CreatedAt.After(backups[j].CreatedAt) })
	return backups, nil
}

// Restore переносит заметки из файла копии в рабочую базу. Существующие
// заметки с теми же идентификаторами перезаписываются, остальные данные
// рабочей базы не трогаются.
func (s *Service) Restore(name string) (int, error) {
	// Имя приходит из запроса, выходы за пределы каталога запрещены.
	if name != filepath.Base(name) || !strings.HasPrefix(name, filePrefix) {
		return 0, apierrors.ErrBackupNotFound
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return 0, apierrors.ErrBackupNotFound
	}

	backupDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		slog.Error("Failed to open backup", "path", path, "err", err)
		return 0, apierrors.ErrRestoreFailed
	}
	defer func() {
		if sqlDB, err := backupDB.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var notes []dao.Note
	if err := backupDB.Find(&notes).Error; err != nil {
		slog.Error("Failed to read backup", "path", path, "err", err)
		return 0, apierrors.ErrRestoreFailed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range notes {
			// Save пропускает удалённые записи, нужен именно upsert
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&notes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("Restore failed", "path", path, "err", err)
		return 0, apierrors.ErrRestoreFailed
	}

	slog.Info("Restore finished", "path", path, "notes", len(notes))
	return len(notes), nil
}
