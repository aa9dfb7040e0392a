package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/sports-api/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type sqliteSportRepository struct {
	db *sql.DB
}

// NewSQLiteSportRepository works against the schema created by db.Migrate
// for the sqlite driver.
func NewSQLiteSportRepository(db *sql.DB) SportRepository {
	return &sqliteSportRepository{db: db}
}

func (r *sqliteSportRepository) Create(ctx context.Context, sport *models.Sport) error {
	query := `INSERT INTO sports (name, logo_key) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, sport.Name, nullableString(sport.LogoKey))
	if err != nil {
		return mapSQLiteSportError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sport.ID = int(id)
	return nil
}

func (r *sqliteSportRepository) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	query := `SELECT id, name, logo_key FROM sports WHERE id = ?`

	sport, err := scanSport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}
	return sport, nil
}

func (r *sqliteSportRepository) GetAll(ctx context.Context) ([]models.Sport, error) {
	query := `SELECT id, name, logo_key FROM sports ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectSports(rows)
}

func (r *sqliteSportRepository) Update(ctx context.Context, sport *models.Sport) error {
	query := `UPDATE sports SET name = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, sport.Name, sport.ID)
	if err != nil {
		return mapSQLiteSportError(err)
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *sqliteSportRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE sports SET logo_key = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, nullableString(logoKey), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func (r *sqliteSportRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM sports WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSportNotFound)
}

func mapSQLiteSportError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return ErrSportNameConflict
	}
	return err
}
