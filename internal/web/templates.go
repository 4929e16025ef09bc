package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/erazemk/carina/internal/auth"
	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/views"
	webembed "github.com/erazemk/carina/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"pathEscape":  url.PathEscape,
		"roleName": func(role string) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RoleOfficer:
				return "Customs officer"
			case model.RoleViewer:
				return "Viewer"
			default:
				return role
			}
		},
		"statusName": func(status string) string {
			switch status {
			case model.ConsignmentStatusHeld:
				return "Held"
			case model.ConsignmentStatusPartial:
				return "Partially released"
			case model.ConsignmentStatusReleased:
				return "Released"
			default:
				return status
			}
		},
		"holdReason":    func(v string) string { return model.Label(model.HoldReasons, v) },
		"releaseReason": func(v string) string { return model.Label(model.ReleaseReasons, v) },
		"quantity":      views.FormatQuantity,
		"date":          func(t time.Time) string { return t.Format(forms.DateLayout) },
		"lines": func(ss []string) string {
			out := ""
			for i, s := range ss {
				if i > 0 {
					out += "\n"
				}
				out += s
			}
			return out
		},
		"floatValue": func(f *float64) string {
			if f == nil {
				return ""
			}
			return fmt.Sprint(*f)
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"dashboard.html",
		"hold.html",
		"release.html",
		"history.html",
		"consignment.html",
		"users.html",
		"settings.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Station string
	User    *auth.Claims
	// Level selects the style of Message.
	Level   holds.Level
	Message string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB            *sql.DB
	Templates     *Templates
	JWTSecret     string
	TokenTTL      time.Duration
	SecureCookies bool
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
