package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/sports-api/events"
	"github.com/Dosada05/sports-api/models"
	"github.com/Dosada05/sports-api/repositories"
	"github.com/Dosada05/sports-api/storage"
	"github.com/google/uuid"
)

var (
	ErrSportCreationFailed = errors.New("failed to create sport")
	ErrSportUpdateFailed   = errors.New("failed to update sport")
	ErrSportDeleteFailed   = errors.New("failed to delete sport")
	ErrSportLogoFailed     = errors.New("failed to upload sport logo")
)

// MaxSportNameLength совпадает с VARCHAR(255) колонки sports.name.
const MaxSportNameLength = 255

type SportService interface {
	CreateSport(ctx context.Context, input CreateSportInput) (*models.Sport, error)
	GetSportByID(ctx context.Context, id int) (*models.Sport, error)
	GetAllSports(ctx context.Context) ([]models.Sport, error)
	UpdateSport(ctx context.Context, id int, input UpdateSportInput) (*models.Sport, error)
	DeleteSport(ctx context.Context, id int) error
	UploadSportLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Sport, error)
}

// EventPublisher receives a notification after every successful mutation.
type EventPublisher interface {
	Publish(ev events.Event)
}

type CreateSportInput struct {
	Name string `json:"name"`
}

// UpdateSportInput lists the mutable fields; nil means "leave unchanged".
type UpdateSportInput struct {
	Name *string `json:"name"`
}

type sportService struct {
	sportRepo repositories.SportRepository
	uploader  storage.FileUploader
	publisher EventPublisher
	logger    *slog.Logger
}

// NewSportService wires the service. uploader and publisher may be nil:
// logo uploads then fail with ErrStorageUnavailable and no events are sent.
func NewSportService(
	sportRepo repositories.SportRepository,
	uploader storage.FileUploader,
	publisher EventPublisher,
	logger *slog.Logger,
) SportService {
	return &sportService{
		sportRepo: sportRepo,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *sportService) CreateSport(ctx context.Context, input CreateSportInput) (*models.Sport, error) {
	name, err := normalizeSportName(input.Name)
	if err != nil {
		return nil, err
	}

	sport := &models.Sport{
		Name: name,
	}

	if err := s.sportRepo.Create(ctx, sport); err != nil {
		if errors.Is(err, repositories.ErrSportNameConflict) {
			return nil, ErrSportNameConflict
		}
		return nil, fmt.Errorf("%w: %w", ErrSportCreationFailed, err)
	}

	s.publish(events.SportCreated, sport)
	return sport, nil
}

func (s *sportService) GetSportByID(ctx context.Context, id int) (*models.Sport, error) {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to get sport by id %d: %w", id, err)
	}
	populateSportLogoURLFunc(sport, s.uploader)
	return sport, nil
}

func (s *sportService) GetAllSports(ctx context.Context) ([]models.Sport, error) {
	sports, err := s.sportRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sports: %w", err)
	}
	if sports == nil {
		return []models.Sport{}, nil
	}
	for i := range sports {
		populateSportLogoURLFunc(&sports[i], s.uploader)
	}
	return sports, nil
}

func (s *sportService) UpdateSport(ctx context.Context, id int, input UpdateSportInput) (*models.Sport, error) {
	if input.Name == nil {
		return s.GetSportByID(ctx, id)
	}

	name, err := normalizeSportName(*input.Name)
	if err != nil {
		return nil, err
	}

	err = s.sportRepo.Update(ctx, &models.Sport{ID: id, Name: name})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSportNotFound):
			return nil, ErrSportNotFound
		case errors.Is(err, repositories.ErrSportNameConflict):
			return nil, ErrSportNameConflict
		default:
			return nil, fmt.Errorf("%w (id: %d): %w", ErrSportUpdateFailed, id, err)
		}
	}

	// Перечитываем запись, чтобы вернуть logo_url вместе с новым именем.
	updated, err := s.GetSportByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(events.SportUpdated, updated)
	return updated, nil
}

func (s *sportService) DeleteSport(ctx context.Context, id int) error {
	sport, err := s.sportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return ErrSportNotFound
		}
		return fmt.Errorf("%w (id: %d): %w", ErrSportDeleteFailed, id, err)
	}

	if err := s.sportRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return ErrSportNotFound
		}
		return fmt.Errorf("%w (id: %d): %w", ErrSportDeleteFailed, id, err)
	}

	if sport.LogoKey != nil {
		s.deleteObject(ctx, *sport.LogoKey)
	}
	s.publish(events.SportDeleted, map[string]int{"id": id})
	return nil
}

func (s *sportService) UploadSportLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Sport, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	sport, err := s.GetSportByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("sports/%d/logo-%s%s", id, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("%w (id: %d): %w", ErrSportLogoFailed, id, err)
	}
	s.logger.Info("sport logo uploaded",
		slog.Int("sport_id", id),
		slog.String("key", result.Key),
		slog.String("etag", result.ETag),
	)

	if err := s.sportRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		s.deleteObject(ctx, key)
		if errors.Is(err, repositories.ErrSportNotFound) {
			return nil, ErrSportNotFound
		}
		return nil, fmt.Errorf("%w (id: %d): %w", ErrSportLogoFailed, id, err)
	}

	if sport.LogoKey != nil && *sport.LogoKey != key {
		s.deleteObject(ctx, *sport.LogoKey)
	}

	sport.LogoKey = &key
	sport.LogoURL = nil
	if result.Location != "" {
		sport.LogoURL = &result.Location
	} else {
		populateSportLogoURLFunc(sport, s.uploader)
	}
	s.publish(events.SportUpdated, sport)
	return sport, nil
}

func normalizeSportName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrSportNameRequired
	}
	if utf8.RuneCountInString(name) > MaxSportNameLength {
		return "", ErrSportNameTooLong
	}
	return name, nil
}

// deleteObject removes a stored file; failures only leave an orphan object.
func (s *sportService) deleteObject(ctx context.Context, key string) {
	if s.uploader == nil {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete sport logo object", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *sportService) publish(eventType string, payload any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Event{Type: eventType, Payload: payload})
}
