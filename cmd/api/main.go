// @title Cadence API
// @description API for language-learning continuity app "Cadence"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/limbo/cadence/internal/api"
	"github.com/limbo/cadence/internal/repository"
	"github.com/limbo/cadence/internal/service"
	"github.com/limbo/cadence/pkg/clock"
	"github.com/limbo/cadence/pkg/config"
	jwtservice "github.com/limbo/cadence/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	clk := clock.New()
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	streakService := service.NewStreakService(
		repository.NewStreaksRepo(&dbCfg),
		repository.NewActivityRepo(&dbCfg),
		clk,
	)
	wordTrackerService := service.NewWordTrackerService(repository.NewSessionsRepo(&dbCfg), clk)
	serv := api.New(&api.ServicesList{
		UserService:        userService,
		StreakService:      streakService,
		WordTrackerService: wordTrackerService,
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
