package holds

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/carina/internal/forms"
	"github.com/erazemk/carina/internal/metrics"
	"github.com/erazemk/carina/internal/model"
	"github.com/erazemk/carina/internal/store"
)

// Registration is the outcome of a successful hold registration.
type Registration struct {
	Consignment *model.Consignment
	Item        *model.HeldItem
	// Created reports whether the consignment was new.
	Created bool
}

// Register records one held item under the consignment named by the form,
// creating the consignment on first use. An existing consignment keeps its
// importer and examination date.
func Register(ctx context.Context, db *sql.DB, f forms.HoldForm, userID int64) (*Registration, error) {
	if errs := forms.ValidateHold(f); !errs.Valid() {
		return nil, &ValidationError{Fields: errs}
	}

	code := strings.TrimSpace(f.ConsignmentID)
	var reg Registration

	err := store.WithTx(ctx, db, func(tx *sql.Tx) error {
		c, created, err := store.EnsureConsignment(ctx, tx, code,
			strings.TrimSpace(f.Importer), strings.TrimSpace(f.ExaminationDate))
		if err != nil {
			return err
		}

		item, err := store.CreateHeldItem(ctx, tx, f.NewHeldItem(c.ID))
		if err != nil {
			return err
		}

		if len(f.Identifiers) > 0 {
			if _, err := store.CreateItemIdentifiers(ctx, tx, item.ID, f.Identifiers); err != nil {
				return err
			}
			if item.Identifiers, err = store.ListItemIdentifiers(ctx, tx, item.ID); err != nil {
				return err
			}
		}

		if c, err = refreshStatus(ctx, tx, c); err != nil {
			return err
		}

		reg = Registration{Consignment: c, Item: item, Created: created}
		return nil
	})
	if err != nil {
		slog.Error("registering hold", "code", code, "user_id", userID, "error", err)
		metrics.OperationErrors.WithLabelValues(metrics.OpRegister).Inc()
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	metrics.HoldsRegistered.Inc()
	if reg.Created {
		metrics.ConsignmentsCreated.Inc()
	}
	slog.Info("hold registered",
		"code", code,
		"item_id", reg.Item.ID,
		"identifiers", len(reg.Item.Identifiers),
		"new_consignment", reg.Created,
		"user_id", userID,
	)
	return &reg, nil
}

// refreshStatus derives the consignment status from its items and persists
// it if it changed.
func refreshStatus(ctx context.Context, q store.Querier, c *model.Consignment) (*model.Consignment, error) {
	statuses, err := store.ListHeldItemStatuses(ctx, q, c.ID)
	if err != nil {
		return nil, err
	}

	status := model.DeriveStatus(statuses)
	if status == c.Status {
		return c, nil
	}

	if err := store.UpdateConsignmentStatus(ctx, q, c.ID, status); err != nil {
		return nil, err
	}
	updated, err := store.GetConsignment(ctx, q, c.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("consignment %d vanished", c.ID)
	}
	return updated, nil
}
