package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/carina/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, tokenTTL time.Duration) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
	usersHandler := &UsersHandler{DB: db}
	holdsHandler := &HoldsHandler{DB: db}
	consignmentsHandler := &ConsignmentsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireOfficer := RequireRole(model.RoleOfficer)
	requireViewer := RequireRole(model.RoleViewer)

	read := func(h http.HandlerFunc) http.Handler { return authMW(requireViewer(h)) }
	write := func(h http.HandlerFunc) http.Handler { return authMW(requireOfficer(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Any authenticated user.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Projections. Codes may contain "/", which clients send as %2F.
	mux.Handle("GET /api/dashboard", read(consignmentsHandler.Dashboard))
	mux.Handle("GET /api/reference", read(consignmentsHandler.Reference))
	mux.Handle("GET /api/consignments", read(consignmentsHandler.List))
	mux.Handle("GET /api/consignments/{code}", read(consignmentsHandler.Get))
	mux.Handle("GET /api/consignments/{code}/candidates", read(holdsHandler.Candidates))
	mux.Handle("GET /api/consignments/{code}/release-document", read(NotImplemented))
	mux.Handle("GET /api/reports/consignments", read(NotImplemented))

	// Lifecycle (officer+).
	mux.Handle("POST /api/holds", write(holdsHandler.Register))
	mux.Handle("POST /api/releases", write(holdsHandler.Release))

	// Held items and evidence photos.
	mux.Handle("GET /api/items/{id}", read(itemsHandler.Get))
	mux.Handle("GET /api/items/{id}/photo", read(itemsHandler.GetPhoto))
	mux.Handle("PUT /api/items/{id}/photo", write(itemsHandler.UploadPhoto))

	// Users (admin only).
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))
	mux.Handle("GET /api/users/{id}", admin(usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", admin(usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", admin(usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", admin(usersHandler.Delete))

	return mux
}
