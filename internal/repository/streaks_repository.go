package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/cadence/internal/error_values"
	"github.com/limbo/cadence/pkg/cleanup"
	"github.com/limbo/cadence/pkg/entity"
)

type StreaksRepository struct {
	conn PgConnection
}

func NewStreaksRepo(cfg DBConfig) *StreaksRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for streaksRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for streaksRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &StreaksRepository{
		conn: pool,
	}
}

func NewStreaksRepoWithConn(conn PgConnection) *StreaksRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for streaksRepo: " + err.Error())
	}
	return &StreaksRepository{
		conn: conn,
	}
}

func (sr *StreaksRepository) Get(ctx context.Context, uid uuid.UUID, category string) (*entity.StreakRecord, error) {
	record := entity.StreakRecord{
		UserID:   uid,
		Category: category,
	}
	row := sr.conn.QueryRow(
		ctx,
		`SELECT current_streak, longest_streak, last_activity_date, updated_at FROM streaks WHERE user_id = $1 AND category = $2;`,
		uid,
		category,
	)
	if err := row.Scan(&record.CurrentStreak, &record.LongestStreak, &record.LastActivityDate, &record.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrStreakNotFound
		}
		return nil, errors.New("getting streak record error: " + err.Error())
	}
	return &record, nil
}

func (sr *StreaksRepository) Upsert(ctx context.Context, record *entity.StreakRecord) error {
	if record == nil {
		return errors.New("streak record is nil")
	}
	_, err := sr.conn.Exec(
		ctx,
		`INSERT INTO streaks (user_id, category, current_streak, longest_streak, last_activity_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, category) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_activity_date = EXCLUDED.last_activity_date,
			updated_at = NOW();`,
		record.UserID,
		record.Category,
		record.CurrentStreak,
		record.LongestStreak,
		record.LastActivityDate,
	)
	if err != nil {
		return errors.New("upserting streak record error: " + err.Error())
	}
	return nil
}
