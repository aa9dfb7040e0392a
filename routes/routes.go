package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/sports-api/docs" // регистрирует OpenAPI документ для /swagger
	"github.com/Dosada05/sports-api/handlers"
	"github.com/Dosada05/sports-api/middleware"
	"github.com/Dosada05/sports-api/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger *slog.Logger

	SportHandler     *handlers.SportHandler
	WebSocketHandler *handlers.WebSocketHandler
	HealthHandler    *handlers.HealthHandler

	// Пустой JWTSecret - изменяющие маршруты доступны без токена.
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.HealthHandler != nil {
		router.Get("/healthz", opts.HealthHandler.Health)
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	sh := opts.SportHandler
	router.Route("/sports", func(r chi.Router) {
		// Публичные маршруты
		r.Get("/", sh.GetAllSports)
		r.Get("/{sportID}", sh.GetSportByID)

		r.Group(func(r chi.Router) {
			if len(opts.JWTSecret) > 0 {
				r.Use(middleware.Authenticate(opts.JWTSecret))
				r.Use(middleware.RequireRole(models.RoleAdmin))
			}
			r.Use(chiMiddleware.Timeout(30 * time.Second))

			r.Post("/", sh.CreateSport)
			r.Put("/{sportID}", sh.UpdateSport)
			r.Patch("/{sportID}", sh.UpdateSport)
			r.Delete("/{sportID}", sh.DeleteSport)
			r.Put("/{sportID}/logo", sh.UploadSportLogoHandler)
		})
	})

	if opts.WebSocketHandler != nil {
		router.Get("/ws/sports", opts.WebSocketHandler.ServeWs)
	}
}
