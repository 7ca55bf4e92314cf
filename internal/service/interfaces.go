package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/cadence/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type StreakServiceI interface {
	// Reports streak state for (uid, category). Never fails: store errors
	// degrade to the zero state so the caller stays usable
	GetStreak(ctx context.Context, uid uuid.UUID, category string) *entity.StreakData
	// Credits today's activity to the streak. Idempotent within a calendar
	// day. A failed streak write is returned to the caller
	RecordActivity(ctx context.Context, uid uuid.UUID, category string) (*entity.StreakData, error)
	// Provides per-day activity counts for calendar views
	GetActivityCalendar(ctx context.Context, uid uuid.UUID, category string, from, to time.Time) ([]entity.DailyActivity, error)
}

type WordTrackerServiceI interface {
	AddWordToSession(sessionID uuid.UUID, word string)
	IsWordUsedInSession(sessionID uuid.UUID, word string) bool
	SetCooldown(uid uuid.UUID, word string)
	IsWordInCooldown(uid uuid.UUID, word string) bool
	// Seeds cross-session avoidance from stored exercise history. Advisory:
	// any fetch failure yields an empty list
	LoadRecentWords(ctx context.Context, uid uuid.UUID, category string) []string
	// Merged set of words exercise generation must not pick next
	GetAvoidanceList(sessionID, uid uuid.UUID, recentWords []string) []string
	ClearSession(sessionID uuid.UUID)
}
