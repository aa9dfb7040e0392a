package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/sports-api/models"
	"github.com/lib/pq"
)

var (
	ErrSportNotFound     = errors.New("sport not found")
	ErrSportNameConflict = errors.New("sport name conflict")
)

// pq error codes, см. https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pqUniqueViolation = "23505"
	sportsNameKey     = "sports_name_key"
)

type SportRepository interface {
	Create(ctx context.Context, sport *models.Sport) error
	GetByID(ctx context.Context, id int) (*models.Sport, error)
	GetAll(ctx context.Context) ([]models.Sport, error)
	Update(ctx context.Context, sport *models.Sport) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresSportRepository struct {
	db *sql.DB
}

func NewPostgresSportRepository(db *sql.DB) SportRepository {
	return &postgresSportRepository{db: db}
}

func (r *postgresSportRepository) Create(ctx context.Context, sport *models.Sport) error {
	query := `INSERT INTO sports (name, logo_key) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, sport.Name, nullableString(sport.LogoKey)).Scan(&sport.ID)
	if err != nil {
		return mapPostgresSportError(err)
	}
	return nil
}

func (r *postgresSportRepository) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	query := `SELECT id, name, logo_key FROM sports WHERE id = $1`

	sport, err := scanSport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}
	return sport, nil
}

func (r *postgresSportRepository) GetAll(ctx context.Context) ([]models.Sport, error) {
	// COLLATE "C" сортирует по байтам, как sqlite (BINARY) и память.
	query := `SELECT id, name, logo_key FROM sports ORDER BY name COLLATE "C" ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectSports(rows)
}

func (r *postgresSportRepository) Update(ctx context.Context, sport *models.Sport) error {
	query := `UPDATE sports SET name = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, sport.Name, sport.ID)
	if err != nil {
		return mapPostgresSportError(err)
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *postgresSportRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE sports SET logo_key = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, nullableString(logoKey), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *postgresSportRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM sports WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func mapPostgresSportError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation && pqErr.Constraint == sportsNameKey {
		return ErrSportNameConflict
	}
	return err
}
