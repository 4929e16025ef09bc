package web

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/carina/internal/auth"
	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/store"
)

func (s *Server) loginError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.Templates.RenderStatus(w, status, "login.html", &PageData{
		Title:   "Sign in",
		Station: s.station(r),
		Level:   holds.LevelError,
		Message: msg,
	})
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Sign in", Station: s.station(r)})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.loginError(w, r, http.StatusBadRequest, "Enter your username and password.")
		return
	}

	user, err := store.GetUserByUsername(r.Context(), s.DB, username)
	if err != nil || user == nil || user.DeletedAt != nil {
		s.loginError(w, r, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		s.loginError(w, r, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, s.TokenTTL, user.ID, user.Username, user.Role)
	if err != nil {
		slog.Error("generating token", "error", err)
		s.loginError(w, r, http.StatusInternalServerError, "Sign in failed. Please try again.")
		return
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(ttl.Seconds()),
	})

	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked so a copied cookie
// stops working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.Expiry()); err != nil {
				slog.Error("revoking token", "error", err)
			} else {
				slog.Info("user logged out", "user", claims.Username)
			}
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// station returns the configured station name shown in the page header.
func (s *Server) station(r *http.Request) string {
	name, err := store.GetSetting(r.Context(), s.DB, store.SettingStationName)
	if err != nil {
		slog.Error("reading station name", "error", err)
	}
	return name
}

// page returns the base page data for an authenticated request.
func (s *Server) page(r *http.Request, title string) PageData {
	return PageData{Title: title, Station: s.station(r), User: GetWebClaims(r.Context())}
}
