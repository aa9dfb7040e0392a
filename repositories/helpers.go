package repositories

import (
	"database/sql"
	"fmt"

	"github.com/Dosada05/sports-api/models"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSport(row rowScanner) (*models.Sport, error) {
	var (
		sport   models.Sport
		logoKey sql.NullString
	)
	if err := row.Scan(&sport.ID, &sport.Name, &logoKey); err != nil {
		return nil, err
	}
	if logoKey.Valid {
		sport.LogoKey = &logoKey.String
	}
	return &sport, nil
}

// collectSports drains rows and closes them. Пустой результат - пустой слайс, не nil.
func collectSports(rows *sql.Rows) ([]models.Sport, error) {
	defer rows.Close()

	sports := make([]models.Sport, 0)
	for rows.Next() {
		sport, err := scanSport(rows)
		if err != nil {
			return nil, err
		}
		sports = append(sports, *sport)
	}

	// Критически важная проверка ошибки после цикла
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sports, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
