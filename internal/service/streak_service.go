package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/cadence/internal/error_values"
	"github.com/limbo/cadence/internal/repository"
	"github.com/limbo/cadence/pkg/clock"
	"github.com/limbo/cadence/pkg/entity"
)

// StreakService tracks daily activity continuity per (user, category).
// A streak is alive while the last credited day is today or yesterday in
// UTC; a broken streak is reported as zero on read without touching the
// stored record, and physically reset on the next credited activity.
type StreakService struct {
	streaksRepo  repository.StreaksRepositoryI
	activityRepo repository.ActivityRepositoryI
	clk          clock.Clock
}

func NewStreakService(streaksRepo repository.StreaksRepositoryI, activityRepo repository.ActivityRepositoryI, clk clock.Clock) *StreakService {
	if streaksRepo == nil || activityRepo == nil {
		log.Fatal("on streak service provided nil repos")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &StreakService{
		streaksRepo:  streaksRepo,
		activityRepo: activityRepo,
		clk:          clk,
	}
}

func (ss *StreakService) GetStreak(ctx context.Context, uid uuid.UUID, category string) *entity.StreakData {
	zero := &entity.StreakData{}
	if err := validateCategory(category); err != nil {
		return zero
	}
	record, err := ss.streaksRepo.Get(ctx, uid, category)
	if err != nil {
		if !errors.Is(err, errorvalues.ErrStreakNotFound) {
			// Read path degrades to the zero state so the caller stays usable
			slog.Warn("streak read failed, reporting zero state",
				slog.String("uid", uid.String()),
				slog.String("category", category),
				slog.String("error", err.Error()),
			)
		}
		return zero
	}
	today := clock.DayUTC(ss.clk.Now())
	active := streakActive(record.LastActivityDate, today)
	current := 0
	if active {
		current = record.CurrentStreak
	}
	return &entity.StreakData{
		CurrentStreak:    current,
		LongestStreak:    record.LongestStreak,
		LastActivityDate: record.LastActivityDate,
		StreakActive:     active,
	}
}

func (ss *StreakService) RecordActivity(ctx context.Context, uid uuid.UUID, category string) (*entity.StreakData, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	today := clock.DayUTC(ss.clk.Now())
	// Analytics counter is best-effort and must not block the streak credit
	if err := ss.activityRepo.IncrementDaily(ctx, uid, category, today); err != nil {
		slog.Warn("daily activity increment failed",
			slog.String("uid", uid.String()),
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
	}
	record, err := ss.streaksRepo.Get(ctx, uid, category)
	if err != nil && !errors.Is(err, errorvalues.ErrStreakNotFound) {
		return nil, errors.New("streaks repository error: " + err.Error())
	}
	current := nextStreak(record, today)
	longest := current
	if record != nil && record.LongestStreak > longest {
		longest = record.LongestStreak
	}
	updated := entity.StreakRecord{
		UserID:           uid,
		Category:         category,
		CurrentStreak:    current,
		LongestStreak:    longest,
		LastActivityDate: &today,
	}
	// Losing an earned credit is user-visible, so the write error surfaces
	if err = ss.streaksRepo.Upsert(ctx, &updated); err != nil {
		return nil, errors.New("streaks repository error: " + err.Error())
	}
	return &entity.StreakData{
		CurrentStreak:    current,
		LongestStreak:    longest,
		LastActivityDate: &today,
		StreakActive:     true,
	}, nil
}

func (ss *StreakService) GetActivityCalendar(ctx context.Context, uid uuid.UUID, category string, from, to time.Time) ([]entity.DailyActivity, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	activity, err := ss.activityRepo.GetRange(ctx, uid, category, clock.DayUTC(from), clock.DayUTC(to))
	if err != nil {
		return nil, errors.New("activity repository error: " + err.Error())
	}
	return activity, nil
}

// nextStreak resolves the continuity transition for a credit landing on
// today: first activity and any gap of two or more days start at 1, exactly
// yesterday continues, a repeat credit the same day keeps the stored value.
// A stored date in the future is malformed and treated as a reset.
func nextStreak(record *entity.StreakRecord, today time.Time) int {
	if record == nil || record.LastActivityDate == nil {
		return 1
	}
	last := clock.DayUTC(*record.LastActivityDate)
	switch {
	case last.Equal(today):
		return record.CurrentStreak
	case last.Equal(today.AddDate(0, 0, -1)):
		return record.CurrentStreak + 1
	default:
		return 1
	}
}

func streakActive(lastActivityDate *time.Time, today time.Time) bool {
	if lastActivityDate == nil {
		return false
	}
	last := clock.DayUTC(*lastActivityDate)
	return last.Equal(today) || last.Equal(today.AddDate(0, 0, -1))
}

func validateCategory(category string) error {
	if err := validate.Var(category, "required,category,min=2,max=64"); err != nil {
		return errorvalues.ErrInvalidCategory
	}
	return nil
}
