package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/limbo/cadence/pkg/cleanup"
	"github.com/limbo/cadence/pkg/entity"
)

type ActivityRepository struct {
	conn PgConnection
}

func NewActivityRepo(cfg DBConfig) *ActivityRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for activityRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activityRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ActivityRepository{
		conn: pool,
	}
}

func NewActivityRepoWithConn(conn PgConnection) *ActivityRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activityRepo: " + err.Error())
	}
	return &ActivityRepository{
		conn: conn,
	}
}

func (ar *ActivityRepository) IncrementDaily(ctx context.Context, uid uuid.UUID, category string, day time.Time) error {
	_, err := ar.conn.Exec(
		ctx,
		`INSERT INTO daily_activity (user_id, category, day, count) VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, category, day) DO UPDATE SET count = daily_activity.count + 1;`,
		uid,
		category,
		day,
	)
	if err != nil {
		return errors.New("incrementing daily activity error: " + err.Error())
	}
	return nil
}

func (ar *ActivityRepository) GetRange(ctx context.Context, uid uuid.UUID, category string, from, to time.Time) ([]entity.DailyActivity, error) {
	rows, err := ar.conn.Query(
		ctx,
		`SELECT user_id, category, day, count FROM daily_activity
		WHERE user_id = $1 AND category = $2 AND day >= $3 AND day <= $4 ORDER BY day;`,
		uid,
		category,
		from,
		to,
	)
	if err != nil {
		return nil, errors.New("getting activity for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.DailyActivity, 0, 2)
	for rows.Next() {
		activity := entity.DailyActivity{}
		err = rows.Scan(&activity.UserID, &activity.Category, &activity.Day, &activity.Count)
		if err != nil {
			return nil, errors.New("activity row parsing error: " + err.Error())
		}
		result = append(result, activity)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected activity rows error: " + rows.Err().Error())
	}
	return result, nil
}
