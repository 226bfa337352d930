package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftbook/workcal/internal/service"
)

type Server struct {
	mx             *chi.Mux
	userService    service.UserServiceI
	monthService   service.MonthServiceI
	workdayService service.WorkdayServiceI
	jwtService     JWTServiceI
}

type ServicesList struct {
	UserService    service.UserServiceI
	MonthService   service.MonthServiceI
	WorkdayService service.WorkdayServiceI
	JwtService     JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:             chi.NewMux(),
		userService:    servicesOptions.UserService,
		monthService:   servicesOptions.MonthService,
		workdayService: servicesOptions.WorkdayService,
		jwtService:     servicesOptions.JwtService,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)

			r.Get("/me", s.GetMe)
			r.Patch("/me", s.UpdateMe)
			r.Delete("/me", s.DeleteMe)

			r.Post("/months", s.CreateMonth)
			r.Get("/months", s.GetMonths)
			r.Get("/months/{id}", s.GetMonth)
			r.Patch("/months/{id}", s.UpdateMonth)
			r.Delete("/months/{id}", s.DeleteMonth)
			r.Get("/months/{id}/workdays", s.GetMonthWorkdays)

			r.Post("/workdays", s.CreateWorkday)
			r.Get("/workdays", s.GetWorkdays)
			r.Get("/workdays/{id}", s.GetWorkday)
			r.Patch("/workdays/{id}", s.UpdateWorkday)
			r.Delete("/workdays/{id}", s.DeleteWorkday)
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}
