package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"recruitdesk/internal/delivery/http/controllers"
	"recruitdesk/internal/delivery/http/middleware"
	"recruitdesk/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Everything except signup, login, and the swagger UI requires a bearer token.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	userController *controllers.UserController,
	jobController *controllers.JobController,
	applicationController *controllers.ApplicationController,
	slotController *controllers.SlotController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", userController.SignUp)
	mux.HandleFunc("POST /auth/login", userController.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(userController.UpdateMe))

	// Job postings
	mux.HandleFunc("POST /jobs", auth(jobController.CreateJob))
	mux.HandleFunc("GET /jobs", auth(jobController.ListJobs))
	mux.HandleFunc("GET /jobs/{jobID}", auth(jobController.GetJob))
	mux.HandleFunc("POST /jobs/{jobID}/close", auth(jobController.CloseJob))
	mux.HandleFunc("GET /jobs/{jobID}/applications", auth(applicationController.ListJobApplications))

	// Applications
	mux.HandleFunc("POST /applications", auth(applicationController.CreateApplication))
	mux.HandleFunc("GET /applications/{applicationID}", auth(applicationController.GetApplication))
	mux.HandleFunc("PATCH /applications/{applicationID}/status", auth(applicationController.UpdateApplicationStatus))

	// Interview slots
	mux.HandleFunc("POST /interview-slots", auth(slotController.CreateSlot))
	mux.HandleFunc("GET /interview-slots", auth(slotController.ListSlots))
	mux.HandleFunc("GET /interview-slots/statistics", auth(slotController.GetStatistics))
	mux.HandleFunc("PATCH /interview-slots/{slotID}", auth(slotController.UpdateSlot))
	mux.HandleFunc("DELETE /interview-slots/{slotID}", auth(slotController.CancelSlot))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
