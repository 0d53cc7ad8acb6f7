package routes

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sportsfilio/tournament-hub/handlers"
	"github.com/sportsfilio/tournament-hub/middleware"
)

// SetupRoutes assembles the HTTP surface. Tournament reads are public;
// everything that writes or exposes per-profile data sits behind JWT auth.
func SetupRoutes(
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WebSocketHandler,
	jwtSecret []byte,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.SignUp)
		r.Post("/auth/signin", authHandler.SignIn)

		r.Get("/tournaments", tournamentHandler.List)
		r.Get("/tournaments/{tournamentID}", tournamentHandler.Get)

		// Token travels in the query string on the upgrade request.
		r.Get("/ws/notifications", wsHandler.Serve)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/tournaments", tournamentHandler.Create)
			r.Post("/tournaments/{tournamentID}/register", participantHandler.Register)
			r.Get("/tournaments/{tournamentID}/registrations/pending", participantHandler.ListPending)
			r.Patch("/tournaments/{tournamentID}/registrations/{profileID}", participantHandler.Decide)

			r.Get("/notifications", notificationHandler.ListMine)
		})
	})

	return r
}
