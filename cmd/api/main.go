// @title Work-calendar API
// @description API for the work-calendar app: months of workdays with running totals
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/shiftbook/workcal/internal/api"
	"github.com/shiftbook/workcal/internal/repository"
	"github.com/shiftbook/workcal/internal/service"
	"github.com/shiftbook/workcal/pkg/cleanup"
	"github.com/shiftbook/workcal/pkg/config"
	jwtservice "github.com/shiftbook/workcal/pkg/jwt_service"
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
	if err := repository.Migrate(dbCfg.ConnString()); err != nil {
		log.Fatal("migration error: " + err.Error())
	}

	usersRepo := repository.NewUsersRepo(&dbCfg)
	monthsRepo := repository.NewMonthsRepo(&dbCfg)
	workdaysRepo := repository.NewWorkdaysRepo(&dbCfg)
	defer cleanup.CleanUp()

	cascade := service.NewCascadeCoordinator(monthsRepo, workdaysRepo)
	serv := api.New(&api.ServicesList{
		UserService:    service.NewUserService(usersRepo, cascade),
		MonthService:   service.NewMonthService(monthsRepo, cascade),
		WorkdayService: service.NewWorkdayService(workdaysRepo, monthsRepo),
		JwtService:     jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
