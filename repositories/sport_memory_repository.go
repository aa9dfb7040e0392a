package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/Dosada05/sports-api/models"
)

// MemorySportRepository keeps sports in a map guarded by a mutex. Every
// instance is independent, so tests build one per case instead of sharing
// a database. Values are copied on the way in and out.
type MemorySportRepository struct {
	mu     sync.RWMutex
	nextID int
	sports map[int]models.Sport
}

func NewMemorySportRepository() *MemorySportRepository {
	return &MemorySportRepository{
		nextID: 1,
		sports: make(map[int]models.Sport),
	}
}

func (r *MemorySportRepository) Create(ctx context.Context, sport *models.Sport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(sport.Name, 0) {
		return ErrSportNameConflict
	}

	sport.ID = r.nextID
	r.nextID++
	r.sports[sport.ID] = sport.Clone()
	return nil
}

func (r *MemorySportRepository) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.sports[id]
	if !ok {
		return nil, ErrSportNotFound
	}
	sport := stored.Clone()
	return &sport, nil
}

func (r *MemorySportRepository) GetAll(ctx context.Context) ([]models.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sports := make([]models.Sport, 0, len(r.sports))
	for _, s := range r.sports {
		sports = append(sports, s.Clone())
	}
	sort.Slice(sports, func(i, j int) bool {
		if sports[i].Name != sports[j].Name {
			return sports[i].Name < sports[j].Name
		}
		return sports[i].ID < sports[j].ID
	})
	return sports, nil
}

func (r *MemorySportRepository) Update(ctx context.Context, sport *models.Sport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sports[sport.ID]
	if !ok {
		return ErrSportNotFound
	}
	if r.nameTakenLocked(sport.Name, sport.ID) {
		return ErrSportNameConflict
	}
	stored.Name = sport.Name
	r.sports[sport.ID] = stored
	return nil
}

func (r *MemorySportRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sports[id]
	if !ok {
		return ErrSportNotFound
	}
	stored.LogoKey = logoKey
	r.sports[id] = stored.Clone()
	return nil
}

func (r *MemorySportRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sports[id]; !ok {
		return ErrSportNotFound
	}
	delete(r.sports, id)
	return nil
}

// nameTakenLocked reports whether a sport other than exceptID uses name.
func (r *MemorySportRepository) nameTakenLocked(name string, exceptID int) bool {
	for id, s := range r.sports {
		if id != exceptID && s.Name == name {
			return true
		}
	}
	return false
}
