package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/cadence/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type StreaksRepositoryI interface {
	// Reads streak record for (uid, category). ErrStreakNotFound when user
	// was never active in the category
	Get(ctx context.Context, uid uuid.UUID, category string) (*entity.StreakRecord, error)
	// Writes record with full-replace semantics, inserting on first activity
	Upsert(ctx context.Context, record *entity.StreakRecord) error
}

type ActivityRepositoryI interface {
	// Bumps activity counter for (uid, category, day). Best-effort
	// analytics, safe to call several times a day
	IncrementDaily(ctx context.Context, uid uuid.UUID, category string, day time.Time) error
	// Provides daily activity counts for a period, for calendar views
	GetRange(ctx context.Context, uid uuid.UUID, category string, from, to time.Time) ([]entity.DailyActivity, error)
}

type SessionsRepositoryI interface {
	// Lists ids of the user's most recent practice sessions in category,
	// newest first
	GetRecentSessionIDs(ctx context.Context, uid uuid.UUID, category string, limit int) ([]uuid.UUID, error)
	// Flattens target words of the newest exercises belonging to given
	// sessions
	GetTargetWords(ctx context.Context, sessionIDs []uuid.UUID, limit int) ([]string, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
