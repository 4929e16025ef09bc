package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/holds"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/views"
)

type releasePage struct {
	PageData
	Form       forms.ReleaseForm
	Errors     forms.Errors
	Candidates []views.CandidateRow
	// Loaded is set once a search found the consignment.
	Loaded      bool
	AllSelected bool
	// Released is the consignment code of the last successful release.
	Released string

	ReleaseReasons []model.Option
}

func (s *Server) releasePage(r *http.Request, f forms.ReleaseForm) *releasePage {
	return &releasePage{
		PageData:       s.page(r, "Release held items"),
		Form:           f,
		Errors:         forms.Errors{},
		ReleaseReasons: model.ReleaseReasons,
	}
}

// search loads the consignment named in the form and fills in the fields
// echoed from it. It reports whether the consignment was found.
func (s *Server) search(r *http.Request, data *releasePage) bool {
	res, err := holds.Search(r.Context(), s.DB, data.Form.ConsignmentID)
	if err != nil {
		data.Level, data.Message = holds.LevelError, holds.Message(err)
		var verr *holds.ValidationError
		if errors.As(err, &verr) {
			data.Errors = data.Errors.Merge(verr.Fields)
		}
		return false
	}

	data.Loaded = true
	data.Form.ConsignmentID = res.Consignment.Code
	data.Form.Importer = res.Consignment.Importer
	data.Form.HoldDate = res.Consignment.ExaminationDate
	data.Candidates = views.CandidateRows(res.Candidates)
	data.Level, data.Message = res.Level, res.Message

	// Drop selections that are no longer candidates.
	selected := []int64{}
	for _, c := range data.Candidates {
		if data.Form.IsSelected(c.ID) {
			selected = append(selected, c.ID)
		}
	}
	data.Form.SelectedItems = selected
	data.AllSelected = len(data.Candidates) > 0 && len(selected) == len(data.Candidates)
	return true
}

// ReleasePage handles GET /release. With ?consignmentId= the consignment is
// searched immediately.
func (s *Server) ReleasePage(w http.ResponseWriter, r *http.Request) {
	data := s.releasePage(r, forms.NewReleaseForm(s.now()))
	if code := r.URL.Query().Get("consignmentId"); code != "" {
		data.Form.ConsignmentID = code
		s.search(r, data)
	}
	s.Templates.Render(w, "release.html", data)
}

// ReleaseSubmit handles POST /release. The action field selects between
// search, selectAll, print, reset and release.
func (s *Server) ReleaseSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f := forms.ParseReleaseForm(r.PostForm)
	data := s.releasePage(r, f)

	switch r.PostForm.Get("action") {
	case "reset":
		http.Redirect(w, r, "/release", http.StatusSeeOther)
		return

	case "search":
		data.Form.SelectedItems = []int64{}
		s.search(r, data)

	case "selectAll":
		if s.search(r, data) {
			if data.AllSelected {
				data.Form.SelectedItems = []int64{}
				data.AllSelected = false
			} else {
				data.Form.SelectedItems = make([]int64, 0, len(data.Candidates))
				for _, c := range data.Candidates {
					data.Form.SelectedItems = append(data.Form.SelectedItems, c.ID)
				}
				data.AllSelected = len(data.Candidates) > 0
			}
		}

	case "print":
		if s.search(r, data) {
			if len(data.Form.SelectedItems) == 0 {
				data.Level, data.Message = holds.LevelWarning, holds.MsgPrintNoSelect
			} else {
				data.Level, data.Message = holds.LevelInfo, holds.MsgPrintPending
			}
		}

	default:
		res, err := holds.Release(r.Context(), s.DB, f, GetWebClaims(r.Context()).UserID)
		if err != nil {
			status := http.StatusInternalServerError
			var verr *holds.ValidationError
			switch {
			case errors.As(err, &verr):
				status = http.StatusUnprocessableEntity
			case errors.Is(err, holds.ErrNoItemsSelected):
				status = http.StatusBadRequest
			case errors.Is(err, holds.ErrConsignmentNotFound):
				status = http.StatusNotFound
			case errors.Is(err, holds.ErrItemNotHeld):
				status = http.StatusConflict
			}
			if !errors.Is(err, holds.ErrConsignmentNotFound) {
				s.search(r, data)
			}
			if verr != nil {
				data.Errors = data.Errors.Merge(verr.Fields)
			}
			data.Level, data.Message = holds.LevelError, holds.Message(err)
			s.Templates.RenderStatus(w, status, "release.html", data)
			return
		}

		data = s.releasePage(r, forms.NewReleaseForm(s.now()))
		data.Level, data.Message = holds.LevelSuccess, holds.MsgReleased
		data.Released = res.Consignment.Code
	}

	s.Templates.Render(w, "release.html", data)
}
