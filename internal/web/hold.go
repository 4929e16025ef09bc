package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/model"
)

type holdPage struct {
	PageData
	Form   forms.HoldForm
	Errors forms.Errors
	// Registered is the consignment code of the last successful registration.
	Registered string

	HoldReasons   []model.Option
	QuantityUnits []model.Option
	Currencies    []model.Option
	HoldDurations []model.Option
}

func (s *Server) holdPage(r *http.Request, f forms.HoldForm) *holdPage {
	return &holdPage{
		PageData:      s.page(r, "Register held item"),
		Form:          f,
		Errors:        forms.Errors{},
		HoldReasons:   model.HoldReasons,
		QuantityUnits: model.QuantityUnits,
		Currencies:    model.Currencies,
		HoldDurations: model.HoldDurations,
	}
}

// HoldPage handles GET /hold, showing an empty form with today's defaults.
func (s *Server) HoldPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "hold.html", s.holdPage(r, forms.NewHoldForm(s.now())))
}

// HoldSubmit handles POST /hold. A successful registration resets the form.
func (s *Server) HoldSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("action") == "reset" {
		http.Redirect(w, r, "/hold", http.StatusSeeOther)
		return
	}

	f := forms.ParseHoldForm(r.PostForm)
	reg, err := holds.Register(r.Context(), s.DB, f, GetWebClaims(r.Context()).UserID)
	if err != nil {
		data := s.holdPage(r, f)
		data.Level, data.Message = holds.LevelError, holds.Message(err)
		status := http.StatusInternalServerError
		var verr *holds.ValidationError
		if errors.As(err, &verr) {
			data.Errors = verr.Fields
			status = http.StatusUnprocessableEntity
		}
		s.Templates.RenderStatus(w, status, "hold.html", data)
		return
	}

	data := s.holdPage(r, forms.NewHoldForm(s.now()))
	data.Level, data.Message = holds.LevelSuccess, holds.MsgRegistered
	data.Registered = reg.Consignment.Code
	s.Templates.Render(w, "hold.html", data)
}
