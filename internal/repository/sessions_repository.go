package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/limbo/cadence/pkg/cleanup"
)

type SessionsRepository struct {
	conn PgConnection
}

func NewSessionsRepo(cfg DBConfig) *SessionsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for sessionsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for sessionsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &SessionsRepository{
		conn: pool,
	}
}

func NewSessionsRepoWithConn(conn PgConnection) *SessionsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for sessionsRepo: " + err.Error())
	}
	return &SessionsRepository{
		conn: conn,
	}
}

func (sr *SessionsRepository) GetRecentSessionIDs(ctx context.Context, uid uuid.UUID, category string, limit int) ([]uuid.UUID, error) {
	rows, err := sr.conn.Query(
		ctx,
		`SELECT id FROM practice_sessions WHERE user_id = $1 AND category = $2 ORDER BY started_at DESC LIMIT $3;`,
		uid,
		category,
		limit,
	)
	if err != nil {
		return nil, errors.New("getting recent sessions error: " + err.Error())
	}
	defer rows.Close()
	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		err = rows.Scan(&id)
		if err != nil {
			return nil, errors.New("session row parsing error: " + err.Error())
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected session rows error: " + rows.Err().Error())
	}
	return ids, nil
}

func (sr *SessionsRepository) GetTargetWords(ctx context.Context, sessionIDs []uuid.UUID, limit int) ([]string, error) {
	rows, err := sr.conn.Query(
		ctx,
		`SELECT target_words FROM exercises WHERE session_id = ANY($1) ORDER BY created_at DESC LIMIT $2;`,
		sessionIDs,
		limit,
	)
	if err != nil {
		return nil, errors.New("getting exercise target words error: " + err.Error())
	}
	defer rows.Close()
	words := make([]string, 0, limit)
	for rows.Next() {
		var exerciseWords []string
		err = rows.Scan(&exerciseWords)
		if err != nil {
			return nil, errors.New("exercise row parsing error: " + err.Error())
		}
		words = append(words, exerciseWords...)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected exercise rows error: " + rows.Err().Error())
	}
	return words, nil
}
