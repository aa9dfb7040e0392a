package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые сервисами и маппингом HTTP.
var (
	ErrSportNotFound        = errors.New("sport not found")
	ErrSportNameRequired    = errors.New("sport name is required")
	ErrSportNameTooLong     = fmt.Errorf("sport name must not exceed %d characters", MaxSportNameLength)
	ErrSportNameConflict    = errors.New("sport name already exists")
	ErrSportLogoUnsupported = errors.New("unsupported logo content type")

	// Хранилище файлов не настроено или недоступно.
	ErrStorageUnavailable = errors.New("file storage is not configured")
)
