package holds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/metrics"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

// ReleaseResult is the outcome of a successful release.
type ReleaseResult struct {
	Consignment *model.Consignment
	// BatchID is shared by every record written by this release.
	BatchID string
	Records []model.ReleaseRecord
}

// Release moves the selected items of a consignment from held to released,
// writes one release record per item and re-derives the consignment status.
// Either everything is written or nothing is: if any selected item is not a
// held item of the consignment the whole release fails with ErrItemNotHeld,
// which also makes resubmitting a completed release harmless.
func Release(ctx context.Context, db *sql.DB, f forms.ReleaseForm, userID int64) (*ReleaseResult, error) {
	f.SelectedItems = uniqueIDs(f.SelectedItems)
	if len(f.SelectedItems) == 0 {
		return nil, ErrNoItemsSelected
	}
	if errs := forms.ValidateRelease(f); !errs.Valid() {
		return nil, &ValidationError{Fields: errs}
	}

	code := strings.TrimSpace(f.ConsignmentID)
	res := &ReleaseResult{BatchID: uuid.NewString()}

	var releasedBy *int64
	if userID > 0 {
		releasedBy = &userID
	}

	err := store.WithTx(ctx, db, func(tx *sql.Tx) error {
		c, err := store.GetConsignmentByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrConsignmentNotFound
		}

		for _, id := range f.SelectedItems {
			ok, err := store.MarkHeldItemReleased(ctx, tx, id, c.ID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("item %d: %w", id, ErrItemNotHeld)
			}

			rec, err := store.CreateReleaseRecord(ctx, tx, model.NewReleaseRecord{
				HeldItemID:         id,
				BatchID:            res.BatchID,
				ReleaseDate:        strings.TrimSpace(f.ReleaseDate),
				ReleaseReference:   strings.TrimSpace(f.ReleaseReference),
				ReleaseReason:      f.ReleaseReason,
				AuthorizingOfficer: strings.TrimSpace(f.AuthorizingOfficer),
				Notes:              strings.TrimSpace(f.Notes),
				ReleasedBy:         releasedBy,
			})
			if err != nil {
				return err
			}
			res.Records = append(res.Records, *rec)
		}

		res.Consignment, err = refreshStatus(ctx, tx, c)
		return err
	})
	switch {
	case errors.Is(err, ErrConsignmentNotFound), errors.Is(err, ErrItemNotHeld):
		slog.Warn("release rejected", "code", code, "user_id", userID, "error", err)
		return nil, err
	case err != nil:
		slog.Error("releasing items", "code", code, "user_id", userID, "error", err)
		metrics.OperationErrors.WithLabelValues(metrics.OpRelease).Inc()
		return nil, fmt.Errorf("%w: %w", ErrReleaseFailed, err)
	}

	metrics.ItemsReleased.Add(float64(len(res.Records)))
	slog.Info("items released",
		"code", code,
		"batch_id", res.BatchID,
		"items", len(res.Records),
		"status", res.Consignment.Status,
		"user_id", userID,
	)
	return res, nil
}

// uniqueIDs returns ids without repeats, keeping first occurrences in order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
