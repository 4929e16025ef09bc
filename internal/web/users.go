package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

type usersPage struct {
	PageData
	Users []model.User
	Roles []string
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, level holds.Level, msg string) {
	users, err := store.ListUsers(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
	}
	data := &usersPage{
		PageData: s.page(r, "Users"),
		Users:    users,
		Roles:    []string{model.RoleViewer, model.RoleOfficer, model.RoleAdmin},
	}
	data.Level, data.Message = level, msg
	s.Templates.RenderStatus(w, status, "users.html", data)
}

// UsersPage handles GET /users (admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, http.StatusOK, "", "")
}

// UserCreateSubmit handles POST /users (admin only).
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	role := r.FormValue("role")

	if username == "" || password == "" || !model.ValidRole(role) {
		s.renderUsers(w, r, http.StatusBadRequest, holds.LevelError, "Username, password and a valid role are required.")
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		s.renderUsers(w, r, http.StatusBadRequest, holds.LevelError, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	if _, err := store.CreateUser(r.Context(), s.DB, username, string(hash), role); err != nil {
		s.renderUsers(w, r, http.StatusConflict, holds.LevelError, "Username already exists.")
		return
	}
	slog.Info("user created", "user", claims.Username, "new_user", username, "role", role)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserResetPasswordSubmit handles POST /users/{id}/password (admin only).
func (s *Server) UserResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	newPassword := r.FormValue("new_password")
	if err := model.ValidatePassword(newPassword); err != nil {
		s.renderUsers(w, r, http.StatusBadRequest, holds.LevelError, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	if err := store.UpdateUserPassword(r.Context(), s.DB, id, string(hash)); err != nil {
		slog.Error("failed to reset password", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slog.Info("user password reset", "user", GetWebClaims(r.Context()).Username, "target_id", id)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserUpdateRoleSubmit handles POST /users/{id}/role (admin only).
func (s *Server) UserUpdateRoleSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	role := r.FormValue("role")
	if !model.ValidRole(role) {
		s.renderUsers(w, r, http.StatusBadRequest, holds.LevelError, "Invalid role.")
		return
	}
	if id == claims.UserID && role != model.RoleAdmin {
		s.renderUsers(w, r, http.StatusBadRequest, holds.LevelError, "You cannot demote yourself.")
		return
	}

	if err := store.UpdateUserRole(r.Context(), s.DB, id, role); err != nil {
		slog.Error("failed to update role", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slog.Info("user role updated", "user", claims.Username, "target_id", id, "new_role", role)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserDeleteSubmit handles POST /users/{id}/delete (admin only).
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	if id == claims.UserID {
		s.renderUsers(w, r, http.StatusBadRequest, holds.LevelError, "You cannot delete yourself.")
		return
	}

	if err := store.DeleteUser(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete user", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slog.Info("user deleted", "user", claims.Username, "target_id", id)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (s *Server) renderSettings(w http.ResponseWriter, r *http.Request, status int, level holds.Level, msg string) {
	data := s.page(r, "Settings")
	data.Level, data.Message = level, msg
	s.Templates.RenderStatus(w, status, "settings.html", &data)
}

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.renderSettings(w, r, http.StatusOK, "", "")
}

// SettingsSubmit handles POST /settings (change own password).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")

	if currentPassword == "" || newPassword == "" {
		s.renderSettings(w, r, http.StatusBadRequest, holds.LevelError, "Enter your current and new password.")
		return
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		s.renderSettings(w, r, http.StatusBadRequest, holds.LevelError, err.Error())
		return
	}

	user, err := store.GetUser(r.Context(), s.DB, claims.UserID)
	if err != nil || user == nil {
		s.renderSettings(w, r, http.StatusInternalServerError, holds.LevelError, "Failed to load your account.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		s.renderSettings(w, r, http.StatusUnauthorized, holds.LevelError, "Current password is incorrect.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.renderSettings(w, r, http.StatusInternalServerError, holds.LevelError, "Failed to save password.")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), s.DB, claims.UserID, string(hash)); err != nil {
		slog.Error("failed to update password", "error", err)
		s.renderSettings(w, r, http.StatusInternalServerError, holds.LevelError, "Failed to save password.")
		return
	}

	slog.Info("user changed own password", "user", claims.Username)
	s.renderSettings(w, r, http.StatusOK, holds.LevelSuccess, "Password changed.")
}

// StationSubmit handles POST /settings/station (admin only).
func (s *Server) StationSubmit(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("station"))
	if err := store.SetSetting(r.Context(), s.DB, store.SettingStationName, name); err != nil {
		slog.Error("failed to save station name", "error", err)
		s.renderSettings(w, r, http.StatusInternalServerError, holds.LevelError, "Failed to save station name.")
		return
	}
	slog.Info("station name updated", "user", GetWebClaims(r.Context()).Username, "station", name)
	s.renderSettings(w, r, http.StatusOK, holds.LevelSuccess, "Station name saved.")
}
