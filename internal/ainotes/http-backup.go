// Обработчики резервного копирования базы заметок.
//
// Основные возможности:
//   - Список имеющихся резервных копий.
//   - Создание копии по запросу.
//   - Восстановление заметок из выбранной копии.
package ainotes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aisa-it/ainotes/internal/ainotes/apierrors"
)

func (s *Services) AddBackupServices(g *echo.Group) {
	g.GET("notes-backup/", s.getBackupList)
	g.POST("notes-backup/", s.createBackup)
	g.POST("notes-restore/", s.restoreBackup)
}

// getBackupList godoc
// @id getBackupList
// @Summary backup: список резервных копий
// @Description Возвращает имеющиеся копии, свежие первыми
// @Tags Backup
// @Accept json
// @Produce json
// @Success 200 {array} dto.Backup "список копий"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/notes-backup/ [get]
func (s *Services) getBackupList(c echo.Context) error {
	backups, err := s.backupService.List()
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, backups)
}

// createBackup godoc
// @id createBackup
// @Summary backup: создание резервной копии
// @Description Снимает копию базы в новый файл
// @Tags Backup
// @Accept json
// @Produce json
// @Success 200 {object} dto.Backup "созданная копия"
// @Failure 500 {object} apierrors.DefinedError "Ошибка создания копии"
// @Router /api/notes-backup/ [post]
func (s *Services) createBackup(c echo.Context) error {
	b, err := s.backupService.Run()
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// restoreBackup godoc
// @id restoreBackup
// @Summary backup: восстановление из копии
// @Description Переносит заметки из файла копии в рабочую базу
// @Tags Backup
// @Accept json
// @Produce json
// @Param data body RestoreRequest true "Имя файла копии"
// @Success 200 {object} map[string]int "количество восстановленных заметок"
// @Failure 400 {object} apierrors.DefinedError "Некорректные параметры запроса"
// @Failure 404 {object} apierrors.DefinedError "Копия не найдена"
// @Failure 500 {object} apierrors.DefinedError "Ошибка восстановления"
// @Router /api/notes-restore/ [post]
func (s *Services) restoreBackup(c echo.Context) error {
	var req RestoreRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequestBody)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrValidationFailed.WithFormattedMessage(err.Error()))
	}

	restored, err := s.backupService.Restore(req.Name)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"restored": restored})
}
