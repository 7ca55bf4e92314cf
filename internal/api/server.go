package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/cadence/internal/service"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	streakService      service.StreakServiceI
	wordTrackerService service.WordTrackerServiceI
	jwtService         JWTServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	StreakService      service.StreakServiceI
	WordTrackerService service.WordTrackerServiceI
	JwtService         JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		streakService:      servicesOptions.StreakService,
		wordTrackerService: servicesOptions.WordTrackerService,
		jwtService:         servicesOptions.JwtService,
	}
}

func (s *Server) Run(addr string) error {
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/streaks/{category}", s.GetStreak)
			r.Post("/streaks/{category}/activity", s.RecordActivity)
			r.Get("/streaks/{category}/calendar", s.GetActivityCalendar)
			r.Post("/sessions", s.StartSession)
			r.Post("/sessions/{id}/words", s.AddSessionWord)
			r.Get("/sessions/{id}/avoidance", s.GetAvoidanceList)
			r.Delete("/sessions/{id}", s.EndSession)
		})
	})
	return http.ListenAndServe(addr, s.mx)
}
