package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// StreakRecord is the persisted continuity state for one (user, category)
// pair. LastActivityDate is nil when the user has never been active in the
// category. Dates are day-resolution UTC.
type StreakRecord struct {
	UserID           uuid.UUID  `json:"uid"`
	Category         string     `json:"category"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// StreakData is the read model handed to callers. CurrentStreak is already
// lazily zeroed when the streak is broken; the stored record stays untouched.
type StreakData struct {
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	StreakActive     bool       `json:"streak_active"`
}

type DailyActivity struct {
	UserID   uuid.UUID `json:"uid"`
	Category string    `json:"category"`
	Day      time.Time `json:"day"`
	Count    int       `json:"count"`
}
