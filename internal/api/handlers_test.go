package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/cadence/internal/api"
	errorvalues "github.com/limbo/cadence/internal/error_values"
	"github.com/limbo/cadence/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	uid       = uuid.New()
	sessionID = uuid.New()
)

type StreakServiceMock struct {
	streak *entity.StreakData
	err    error
}

func (sm *StreakServiceMock) ChangeState(streak *entity.StreakData, err error) {
	sm.streak = streak
	sm.err = err
}

func (sm *StreakServiceMock) GetStreak(ctx context.Context, uid uuid.UUID, category string) *entity.StreakData {
	if sm.streak != nil {
		return sm.streak
	}
	return &entity.StreakData{}
}

func (sm *StreakServiceMock) RecordActivity(ctx context.Context, uid uuid.UUID, category string) (*entity.StreakData, error) {
	if sm.err != nil {
		return nil, sm.err
	}
	return sm.streak, nil
}

func (sm *StreakServiceMock) GetActivityCalendar(ctx context.Context, uid uuid.UUID, category string, from, to time.Time) ([]entity.DailyActivity, error) {
	if sm.err != nil {
		return nil, sm.err
	}
	return []entity.DailyActivity{}, nil
}

type WordTrackerServiceMock struct {
	sessionWords map[uuid.UUID][]string
	avoidance    []string
	cleared      []uuid.UUID
}

func (wm *WordTrackerServiceMock) AddWordToSession(sessionID uuid.UUID, word string) {
	if wm.sessionWords == nil {
		wm.sessionWords = make(map[uuid.UUID][]string)
	}
	wm.sessionWords[sessionID] = append(wm.sessionWords[sessionID], word)
}

func (wm *WordTrackerServiceMock) IsWordUsedInSession(sessionID uuid.UUID, word string) bool {
	for _, w := range wm.sessionWords[sessionID] {
		if w == word {
			return true
		}
	}
	return false
}

func (wm *WordTrackerServiceMock) SetCooldown(uid uuid.UUID, word string) {}

func (wm *WordTrackerServiceMock) IsWordInCooldown(uid uuid.UUID, word string) bool {
	return false
}

func (wm *WordTrackerServiceMock) LoadRecentWords(ctx context.Context, uid uuid.UUID, category string) []string {
	return []string{}
}

func (wm *WordTrackerServiceMock) GetAvoidanceList(sessionID, uid uuid.UUID, recentWords []string) []string {
	return wm.avoidance
}

func (wm *WordTrackerServiceMock) ClearSession(sessionID uuid.UUID) {
	wm.cleared = append(wm.cleared, sessionID)
}

func newTestServer(streakMock *StreakServiceMock, trackerMock *WordTrackerServiceMock) *api.Server {
	return api.New(&api.ServicesList{
		StreakService:      streakMock,
		WordTrackerService: trackerMock,
	})
}

func authorizedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), "User-ID", uid)
	return req.WithContext(ctx)
}

func TestGetStreakHandler(t *testing.T) {
	streakMock := &StreakServiceMock{}
	serv := newTestServer(streakMock, &WordTrackerServiceMock{})
	lastActivity := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	streakMock.ChangeState(&entity.StreakData{
		CurrentStreak:    3,
		LongestStreak:    5,
		LastActivityDate: &lastActivity,
		StreakActive:     true,
	}, nil)

	t.Run("success", func(t *testing.T) {
		req := authorizedRequest(http.MethodGet, "/api/v1/streaks/german", nil)
		req.SetPathValue("category", "german")
		rec := httptest.NewRecorder()
		serv.GetStreak(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var data entity.StreakData
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rec.Body).Decode(&data))
		assert.Equal(t, 3, data.CurrentStreak)
		assert.Equal(t, 5, data.LongestStreak)
		assert.True(t, data.StreakActive)
	})
	t.Run("unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/streaks/german", nil)
		req.SetPathValue("category", "german")
		rec := httptest.NewRecorder()
		serv.GetStreak(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRecordActivityHandler(t *testing.T) {
	streakMock := &StreakServiceMock{}
	serv := newTestServer(streakMock, &WordTrackerServiceMock{})
	lastActivity := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		streakMock.ChangeState(&entity.StreakData{
			CurrentStreak:    4,
			LongestStreak:    4,
			LastActivityDate: &lastActivity,
			StreakActive:     true,
		}, nil)
		req := authorizedRequest(http.MethodPost, "/api/v1/streaks/german/activity", nil)
		req.SetPathValue("category", "german")
		rec := httptest.NewRecorder()
		serv.RecordActivity(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var data entity.StreakData
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rec.Body).Decode(&data))
		assert.Equal(t, 4, data.CurrentStreak)
	})
	t.Run("invalid category", func(t *testing.T) {
		streakMock.ChangeState(nil, errorvalues.ErrInvalidCategory)
		req := authorizedRequest(http.MethodPost, "/api/v1/streaks/German101/activity", nil)
		req.SetPathValue("category", "German101")
		rec := httptest.NewRecorder()
		serv.RecordActivity(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("store failure asks for retry", func(t *testing.T) {
		streakMock.ChangeState(nil, errors.New("streaks repository error: db error"))
		req := authorizedRequest(http.MethodPost, "/api/v1/streaks/german/activity", nil)
		req.SetPathValue("category", "german")
		rec := httptest.NewRecorder()
		serv.RecordActivity(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAddSessionWordHandler(t *testing.T) {
	trackerMock := &WordTrackerServiceMock{}
	serv := newTestServer(&StreakServiceMock{}, trackerMock)

	t.Run("success", func(t *testing.T) {
		body, err := sonic.Marshal(api.AddSessionWordRequest{Word: "Haus"})
		require.NoError(t, err)
		req := authorizedRequest(http.MethodPost, "/api/v1/sessions/"+sessionID.String()+"/words", body)
		req.SetPathValue("id", sessionID.String())
		rec := httptest.NewRecorder()
		serv.AddSessionWord(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, trackerMock.IsWordUsedInSession(sessionID, "Haus"))
	})
	t.Run("invalid session id", func(t *testing.T) {
		req := authorizedRequest(http.MethodPost, "/api/v1/sessions/not-an-id/words", nil)
		req.SetPathValue("id", "not-an-id")
		rec := httptest.NewRecorder()
		serv.AddSessionWord(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("invalid body", func(t *testing.T) {
		req := authorizedRequest(http.MethodPost, "/api/v1/sessions/"+sessionID.String()+"/words", []byte("{"))
		req.SetPathValue("id", sessionID.String())
		rec := httptest.NewRecorder()
		serv.AddSessionWord(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAvoidanceListHandler(t *testing.T) {
	trackerMock := &WordTrackerServiceMock{avoidance: []string{"haus", "baum"}}
	serv := newTestServer(&StreakServiceMock{}, trackerMock)

	req := authorizedRequest(http.MethodGet, "/api/v1/sessions/"+sessionID.String()+"/avoidance?category=german", nil)
	req.SetPathValue("id", sessionID.String())
	rec := httptest.NewRecorder()
	serv.GetAvoidanceList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.AvoidanceResponse
	require.NoError(t, sonic.ConfigDefault.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, sessionID.String(), resp.SessionID)
	assert.ElementsMatch(t, []string{"haus", "baum"}, resp.Words)
}

func TestStartSessionHandler(t *testing.T) {
	serv := newTestServer(&StreakServiceMock{}, &WordTrackerServiceMock{})

	req := authorizedRequest(http.MethodPost, "/api/v1/sessions", nil)
	rec := httptest.NewRecorder()
	serv.StartSession(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]string
	require.NoError(t, sonic.ConfigDefault.NewDecoder(rec.Body).Decode(&resp))
	_, err := uuid.Parse(resp["session_id"])
	assert.NoError(t, err)
}

func TestEndSessionHandler(t *testing.T) {
	trackerMock := &WordTrackerServiceMock{}
	serv := newTestServer(&StreakServiceMock{}, trackerMock)

	req := authorizedRequest(http.MethodDelete, "/api/v1/sessions/"+sessionID.String(), nil)
	req.SetPathValue("id", sessionID.String())
	rec := httptest.NewRecorder()
	serv.EndSession(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, trackerMock.cleared, sessionID)
}
