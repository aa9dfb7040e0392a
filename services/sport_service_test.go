package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/sports-api/events"
	"github.com/Dosada05/sports-api/repositories"
	"github.com/Dosada05/sports-api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type fakeUploader struct {
	objects   map[string]string
	deleted   []string
	uploadErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string]string{}}
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.objects[key] = string(data)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key), ETag: "etag-" + key}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example/" + key
}

type fixture struct {
	repo      *repositories.MemorySportRepository
	uploader  *fakeUploader
	publisher *recordingPublisher
	logs      *bytes.Buffer
	svc       SportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      repositories.NewMemorySportRepository(),
		uploader:  newFakeUploader(),
		publisher: &recordingPublisher{},
		logs:      &bytes.Buffer{},
	}
	f.svc = NewSportService(f.repo, f.uploader, f.publisher, slog.New(slog.NewJSONHandler(f.logs, nil)))
	return f
}

func ptr[T any](v T) *T { return &v }

func TestCreateSport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sport, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "  Basketball "})
	require.NoError(t, err)
	assert.Positive(t, sport.ID)
	assert.Equal(t, "Basketball", sport.Name)
	assert.Equal(t, []string{events.SportCreated}, f.publisher.types())

	_, err = f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	assert.ErrorIs(t, err, ErrSportNameConflict)

	_, err = f.svc.CreateSport(ctx, CreateSportInput{Name: "   "})
	assert.ErrorIs(t, err, ErrSportNameRequired)

	assert.Len(t, f.publisher.types(), 1)
}

func TestSportNameLength(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	atLimit := strings.Repeat("ж", MaxSportNameLength)
	sport, err := f.svc.CreateSport(ctx, CreateSportInput{Name: " " + atLimit + " "})
	require.NoError(t, err)
	assert.Equal(t, atLimit, sport.Name)

	tooLong := strings.Repeat("x", MaxSportNameLength+1)
	_, err = f.svc.CreateSport(ctx, CreateSportInput{Name: tooLong})
	assert.ErrorIs(t, err, ErrSportNameTooLong)

	_, err = f.svc.UpdateSport(ctx, sport.ID, UpdateSportInput{Name: ptr(tooLong)})
	assert.ErrorIs(t, err, ErrSportNameTooLong)

	got, err := f.svc.GetSportByID(ctx, sport.ID)
	require.NoError(t, err)
	assert.Equal(t, atLimit, got.Name)
	assert.Len(t, f.publisher.types(), 1)
}

func TestGetSport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	require.NoError(t, err)

	got, err := f.svc.GetSportByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Basketball", got.Name)
	assert.Nil(t, got.LogoURL)

	_, err = f.svc.GetSportByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrSportNotFound)
}

func TestGetAllSportsEmpty(t *testing.T) {
	f := newFixture(t)
	sports, err := f.svc.GetAllSports(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sports)
	assert.Empty(t, sports)
}

func TestUpdateSport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sport, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSport(ctx, sport.ID, UpdateSportInput{Name: ptr("basketball")})
	require.NoError(t, err)
	assert.Equal(t, "basketball", updated.Name)

	reloaded, err := f.repo.GetByID(ctx, sport.ID)
	require.NoError(t, err)
	assert.Equal(t, "basketball", reloaded.Name)
	assert.Equal(t, []string{events.SportCreated, events.SportUpdated}, f.publisher.types())
}

func TestUpdateSportWithoutChangesReturnsCurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sport, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	require.NoError(t, err)

	got, err := f.svc.UpdateSport(ctx, sport.ID, UpdateSportInput{})
	require.NoError(t, err)
	assert.Equal(t, "Basketball", got.Name)
	assert.Equal(t, []string{events.SportCreated}, f.publisher.types())

	_, err = f.svc.UpdateSport(ctx, 999, UpdateSportInput{})
	assert.ErrorIs(t, err, ErrSportNotFound)
}

func TestUpdateSportErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	require.NoError(t, err)
	hockey, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Hockey"})
	require.NoError(t, err)

	_, err = f.svc.UpdateSport(ctx, hockey.ID, UpdateSportInput{Name: ptr("Basketball")})
	assert.ErrorIs(t, err, ErrSportNameConflict)

	_, err = f.svc.UpdateSport(ctx, hockey.ID, UpdateSportInput{Name: ptr("")})
	assert.ErrorIs(t, err, ErrSportNameRequired)

	_, err = f.svc.UpdateSport(ctx, 999, UpdateSportInput{Name: ptr("Chess")})
	assert.ErrorIs(t, err, ErrSportNotFound)
}

func TestDeleteSport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sport, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	require.NoError(t, err)
	_, err = f.svc.UploadSportLogo(ctx, sport.ID, strings.NewReader("png"), "image/png")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSport(ctx, sport.ID))

	_, err = f.repo.GetByID(ctx, sport.ID)
	assert.ErrorIs(t, err, repositories.ErrSportNotFound)
	assert.Empty(t, f.uploader.objects)
	assert.Equal(t, events.SportDeleted, f.publisher.types()[len(f.publisher.types())-1])

	assert.ErrorIs(t, f.svc.DeleteSport(ctx, sport.ID), ErrSportNotFound)
}

func TestUploadSportLogo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sport, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	require.NoError(t, err)

	first, err := f.svc.UploadSportLogo(ctx, sport.ID, strings.NewReader("one"), "image/png")
	require.NoError(t, err)
	require.NotNil(t, first.LogoKey)
	require.NotNil(t, first.LogoURL)
	assert.True(t, strings.HasPrefix(*first.LogoKey, "sports/1/logo-"))
	assert.True(t, strings.HasSuffix(*first.LogoKey, ".png"))
	assert.Equal(t, "https://cdn.example/"+*first.LogoKey, *first.LogoURL)

	second, err := f.svc.UploadSportLogo(ctx, sport.ID, strings.NewReader("two"), "image/jpeg; charset=binary")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(*second.LogoKey, ".jpg"))

	// Старый логотип удалён, в хранилище остался только новый.
	assert.Equal(t, []string{*first.LogoKey}, f.uploader.deleted)
	assert.Equal(t, map[string]string{*second.LogoKey: "two"}, f.uploader.objects)

	got, err := f.svc.GetSportByID(ctx, sport.ID)
	require.NoError(t, err)
	assert.Equal(t, second.LogoURL, got.LogoURL)

	assert.Contains(t, f.logs.String(), `"msg":"sport logo uploaded"`)
	assert.Contains(t, f.logs.String(), `"etag":"etag-`+*second.LogoKey+`"`)
}

func TestUploadSportLogoErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sport, err := f.svc.CreateSport(ctx, CreateSportInput{Name: "Basketball"})
	require.NoError(t, err)

	_, err = f.svc.UploadSportLogo(ctx, sport.ID, strings.NewReader("x"), "application/pdf")
	assert.ErrorIs(t, err, ErrSportLogoUnsupported)

	_, err = f.svc.UploadSportLogo(ctx, 999, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrSportNotFound)

	f.uploader.uploadErr = errors.New("bucket gone")
	_, err = f.svc.UploadSportLogo(ctx, sport.ID, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrSportLogoFailed)

	noStorage := NewSportService(f.repo, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err = noStorage.UploadSportLogo(ctx, sport.ID, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestGetExtensionFromContentType(t *testing.T) {
	tests := map[string]string{
		"image/png":      ".png",
		"IMAGE/JPEG":     ".jpg",
		"image/jpg":      ".jpg",
		"image/gif":      ".gif",
		"image/webp":     ".webp",
		"image/svg+xml":  ".svg",
		"image/png; q=1": ".png",
	}
	for ct, want := range tests {
		got, err := GetExtensionFromContentType(ct)
		require.NoError(t, err, ct)
		assert.Equal(t, want, got, ct)
	}

	_, err := GetExtensionFromContentType("text/plain")
	assert.ErrorIs(t, err, ErrSportLogoUnsupported)
}
