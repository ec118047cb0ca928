package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lucasorrentino/weekwise/internal/core/domain"
)

const uniqueViolation = "23505"

type PostgresRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresRecordRepository(db *sqlx.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

// The 7 day slots are stored as two parallel postgres arrays
// (float8[7], bool[7]) indexed by Monday=0.
func (r *PostgresRecordRepository) scanRecord(row scannable) (*domain.WeeklyRecord, error) {
	var rec domain.WeeklyRecord
	hours := make([]float64, 0, 7)
	done := make([]bool, 0, 7)

	err := row.Scan(
		&rec.ID, &rec.HabitID, &rec.UserID, &rec.WeekID,
		pq.Array(&hours), pq.Array(&done),
		&rec.Version, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 7 && i < len(hours); i++ {
		rec.Days[i].Hours = hours[i]
	}
	for i := 0; i < 7 && i < len(done); i++ {
		rec.Days[i].Completed = done[i]
	}

	return &rec, nil
}

func dayArrays(rec *domain.WeeklyRecord) ([]float64, []bool) {
	hours := make([]float64, 7)
	done := make([]bool, 7)
	for i, d := range rec.Days {
		hours[i] = d.Hours
		done[i] = d.Completed
	}
	return hours, done
}

func (r *PostgresRecordRepository) GetByHabitAndWeek(ctx context.Context, habitID, weekID string) (*domain.WeeklyRecord, error) {
	query := `
        SELECT id, habit_id, user_id, week_id, day_hours, day_done, version, updated_at
        FROM weekly_records
        WHERE habit_id = $1 AND week_id = $2`

	row := r.db.QueryRowContext(ctx, query, habitID, weekID)

	rec, err := r.scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("record scan error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRecordRepository) ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]*domain.WeeklyRecord, error) {
	query := `
        SELECT id, habit_id, user_id, week_id, day_hours, day_done, version, updated_at
        FROM weekly_records
        WHERE user_id = $1 AND week_id = $2`

	rows, err := r.db.QueryContext(ctx, query, userID, weekID)
	if err != nil {
		return nil, fmt.Errorf("record query error: %w", err)
	}
	defer rows.Close()

	var records []*domain.WeeklyRecord

	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("record row scan error: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Upsert first tries a version-checked update, then falls back to an
// insert for the lazily materialized first write. A unique violation on
// insert means a concurrent writer won the race.
func (r *PostgresRecordRepository) Upsert(ctx context.Context, rec *domain.WeeklyRecord) error {
	hours, done := dayArrays(rec)

	update := `
        UPDATE weekly_records SET
            day_hours=$1, day_done=$2,
            updated_at=NOW(), version = version + 1
        WHERE habit_id=$3 AND week_id=$4 AND version=$5
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, update,
		pq.Array(hours), pq.Array(done),
		rec.HabitID, rec.WeekID, rec.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err := row.Scan(&newVersion, &newUpdatedAt)
	if err == nil {
		rec.Version = newVersion
		rec.UpdatedAt = newUpdatedAt
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record update failed: %w", err)
	}

	var count int
	if checkErr := r.db.QueryRowContext(ctx, `SELECT count(*) FROM weekly_records WHERE habit_id = $1 AND week_id = $2`, rec.HabitID, rec.WeekID).Scan(&count); checkErr != nil {
		return fmt.Errorf("record existence check failed: %w", checkErr)
	}
	if count > 0 {
		return domain.ErrRecordConflict
	}

	insert := `
        INSERT INTO weekly_records (
            id, habit_id, user_id, week_id, day_hours, day_done, version, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, 1, $7)`

	_, err = r.db.ExecContext(ctx, insert,
		rec.ID, rec.HabitID, rec.UserID, rec.WeekID,
		pq.Array(hours), pq.Array(done), rec.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrRecordConflict
		}
		return fmt.Errorf("record insert failed: %w", err)
	}

	rec.Version = 1
	return nil
}

func (r *PostgresRecordRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.WeeklyRecord, error) {
	query := `
        SELECT id, habit_id, user_id, week_id, day_hours, day_done, version, updated_at
        FROM weekly_records
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("record sync query error: %w", err)
	}
	defer rows.Close()

	var records []*domain.WeeklyRecord

	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("record sync scan error: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}
