package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/cadence/internal/error_values"
	"github.com/limbo/cadence/internal/service"
	"github.com/limbo/cadence/pkg/entity"
	"github.com/limbo/cadence/pkg/httputil"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AddSessionWordRequest struct {
	Word string `json:"word"`
}

type CalendarResponse struct {
	UserID   string                 `json:"uid"`
	Category string                 `json:"category"`
	Days     []entity.DailyActivity `json:"days"`
}

type AvoidanceResponse struct {
	SessionID string   `json:"session_id"`
	Words     []string `json:"words"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			logger.Error("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such name already exists", nil)
			return
		}
		logger.Error("registering error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("login error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("login error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid username or password", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":   user.ID.String(),
		"token": token,
	})
	logger.Info("successful login")
}

func (s *Server) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get streak error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	category := r.PathValue("category")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	// GetStreak never fails: store trouble degrades to the zero state
	streak := s.streakService.GetStreak(ctx, uid, category)
	httputil.WriteJSONResponse(w, http.StatusOK, streak)
	logger.Info("streak provided")
}

func (s *Server) RecordActivity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record activity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	category := r.PathValue("category")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	streak, err := s.streakService.RecordActivity(ctx, uid, category)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidCategory):
			logger.Error("record activity error: invalid category")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category in path value", nil)
		default:
			// The credit was not persisted, the client must retry
			logger.Error("record activity error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "couldn't record activity, retry later", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, streak)
	logger.Info("activity recorded")
}

func (s *Server) GetActivityCalendar(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get calendar error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	category := r.PathValue("category")
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(time.DateOnly, v)
		if err != nil {
			logger.Error("get calendar error: invalid from date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD", nil)
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(time.DateOnly, v)
		if err != nil {
			logger.Error("get calendar error: invalid to date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD", nil)
			return
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	days, err := s.streakService.GetActivityCalendar(ctx, uid, category, from, to)
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidCategory) {
			logger.Error("get calendar error: invalid category")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid category in path value", nil)
			return
		}
		logger.Error("get calendar error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting activity calendar", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, CalendarResponse{
		UserID:   uid.String(),
		Category: category,
		Days:     days,
	})
	logger.Info("activity calendar provided")
}

func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	_, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("start session error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	// Session state springs into existence on the first word, the id is all
	// the client needs
	sessionID := uuid.New()
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"session_id": sessionID.String(),
	})
	logger.Info("session started", slog.String("session_id", sessionID.String()))
}

func (s *Server) AddSessionWord(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	_, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("add session word error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("add session word error: invalid session id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid session id in path value", nil)
		return
	}
	var req AddSessionWordRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add session word error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	s.wordTrackerService.AddWordToSession(sessionID, req.Word)
	w.WriteHeader(http.StatusNoContent)
	logger.Info("session word added")
}

func (s *Server) GetAvoidanceList(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get avoidance list error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get avoidance list error: invalid session id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid session id in path value", nil)
		return
	}
	category := r.URL.Query().Get("category")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	// Warm-up is advisory: on any store trouble it contributes nothing
	recent := s.wordTrackerService.LoadRecentWords(ctx, uid, category)
	words := s.wordTrackerService.GetAvoidanceList(sessionID, uid, recent)
	httputil.WriteJSONResponse(w, http.StatusOK, AvoidanceResponse{
		SessionID: sessionID.String(),
		Words:     words,
	})
	logger.Info("avoidance list provided")
}

func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	_, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("end session error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("end session error: invalid session id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid session id in path value", nil)
		return
	}
	s.wordTrackerService.ClearSession(sessionID)
	w.WriteHeader(http.StatusNoContent)
	logger.Info("session cleared")
}
