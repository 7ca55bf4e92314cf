package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/cadence/internal/repository"
	"github.com/limbo/cadence/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementDaily(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	activityRepo := repository.NewActivityRepoWithConn(mock)
	query := regexp.QuoteMeta(`INSERT INTO daily_activity (user_id, category, day, count) VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, category, day) DO UPDATE SET count = daily_activity.count + 1;`)
	userID := uuid.New()
	day := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		Desc         string
		Error        error
		MockPrepFunc func()
	}{
		{
			Desc:  "successful",
			Error: nil,
			MockPrepFunc: func() {
				mock.ExpectExec(query).WithArgs(userID, "german", day).WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("incrementing daily activity error: db error"),
			MockPrepFunc: func() {
				mock.ExpectExec(query).WithArgs(userID, "german", day).WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			err := activityRepo.IncrementDaily(ctx, userID, "german", day)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetActivityRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	activityRepo := repository.NewActivityRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT user_id, category, day, count FROM daily_activity
		WHERE user_id = $1 AND category = $2 AND day >= $3 AND day <= $4 ORDER BY day;`)
	userID := uuid.New()
	to := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -7)
	returned := []entity.DailyActivity{
		{UserID: userID, Category: "german", Day: from, Count: 2},
		{UserID: userID, Category: "german", Day: to, Count: 1},
	}
	testCases := []struct {
		Desc         string
		Error        error
		Result       []entity.DailyActivity
		MockPrepFunc func()
	}{
		{
			Desc:   "successful",
			Error:  nil,
			Result: returned,
			MockPrepFunc: func() {
				rows := pgxmock.NewRows([]string{"user_id", "category", "day", "count"}).
					AddRow(userID, "german", from, 2).
					AddRow(userID, "german", to, 1)
				mock.ExpectQuery(query).WithArgs(userID, "german", from, to).WillReturnRows(rows)
			},
		},
		{
			Desc:   "no activity",
			Error:  nil,
			Result: []entity.DailyActivity{},
			MockPrepFunc: func() {
				rows := pgxmock.NewRows([]string{"user_id", "category", "day", "count"})
				mock.ExpectQuery(query).WithArgs(userID, "german", from, to).WillReturnRows(rows)
			},
		},
		{
			Desc:   "db error",
			Error:  errors.New("getting activity for period error: db error"),
			Result: nil,
			MockPrepFunc: func() {
				mock.ExpectQuery(query).WithArgs(userID, "german", from, to).WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			result, err := activityRepo.GetRange(ctx, userID, "german", from, to)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.Result, result)
		})
	}
}
