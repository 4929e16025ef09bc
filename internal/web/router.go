package web

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/carina/internal/model"
	webembed "github.com/erazemk/carina/web"
)

// Options configures the web interface.
type Options struct {
	TokenTTL      time.Duration
	SecureCookies bool
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:            db,
		Templates:     templates,
		JWTSecret:     jwtSecret,
		TokenTTL:      opts.TokenTTL,
		SecureCookies: opts.SecureCookies,
	}
	return s.routes(), nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(s.JWTSecret, s.DB)

	read := func(h http.HandlerFunc) http.Handler { return cookieAuth(h) }
	write := func(h http.HandlerFunc) http.Handler { return cookieAuth(requireRole(model.RoleOfficer)(h)) }
	admin := func(h http.HandlerFunc) http.Handler { return cookieAuth(requireRole(model.RoleAdmin)(h)) }

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", read(s.Dashboard))
	mux.Handle("GET /history", read(s.HistoryPage))
	mux.Handle("GET /consignments/{code}", read(s.ConsignmentPage))
	mux.Handle("GET /items/{id}/photo", read(s.ItemPhoto))

	mux.Handle("GET /hold", write(s.HoldPage))
	mux.Handle("POST /hold", write(s.HoldSubmit))
	mux.Handle("GET /release", write(s.ReleasePage))
	mux.Handle("POST /release", write(s.ReleaseSubmit))
	mux.Handle("POST /items/{id}/photo", write(s.ItemPhotoSubmit))

	mux.Handle("GET /users", admin(s.UsersPage))
	mux.Handle("POST /users", admin(s.UserCreateSubmit))
	mux.Handle("POST /users/{id}/password", admin(s.UserResetPasswordSubmit))
	mux.Handle("POST /users/{id}/role", admin(s.UserUpdateRoleSubmit))
	mux.Handle("POST /users/{id}/delete", admin(s.UserDeleteSubmit))

	mux.Handle("GET /settings", read(s.SettingsPage))
	mux.Handle("POST /settings", read(s.SettingsSubmit))
	mux.Handle("POST /settings/station", admin(s.StationSubmit))

	return mux
}
