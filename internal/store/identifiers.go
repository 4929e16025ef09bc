package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/carina/internal/model"
)

// CreateItemIdentifiers attaches identifiers to a held item. Blank entries
// are skipped. It returns how many were stored.
func CreateItemIdentifiers(ctx context.Context, q Querier, heldItemID int64, identifiers []string) (int, error) {
	n := 0
	for _, ident := range identifiers {
		ident = strings.TrimSpace(ident)
		if ident == "" {
			continue
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO item_identifiers (held_item_id, identifier) VALUES (?, ?)`,
			heldItemID, ident,
		); err != nil {
			return n, fmt.Errorf("creating item identifier: %w", err)
		}
		n++
	}
	return n, nil
}

// ListItemIdentifiers returns a held item's identifiers in entry order.
func ListItemIdentifiers(ctx context.Context, q Querier, heldItemID int64) ([]model.ItemIdentifier, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, held_item_id, identifier, created_at
		 FROM item_identifiers WHERE held_item_id = ? ORDER BY id`, heldItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item identifiers: %w", err)
	}
	defer rows.Close()

	var out []model.ItemIdentifier
	for rows.Next() {
		var ii model.ItemIdentifier
		if err := rows.Scan(&ii.ID, &ii.HeldItemID, &ii.Identifier, &ii.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item identifier: %w", err)
		}
		out = append(out, ii)
	}
	return out, rows.Err()
}

func listConsignmentIdentifiers(ctx context.Context, q Querier, consignmentID int64) (map[int64][]model.ItemIdentifier, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT ii.id, ii.held_item_id, ii.identifier, ii.created_at
		 FROM item_identifiers ii
		 JOIN held_items h ON h.id = ii.held_item_id
		 WHERE h.consignment_id = ?
		 ORDER BY ii.id`, consignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing consignment identifiers: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]model.ItemIdentifier)
	for rows.Next() {
		var ii model.ItemIdentifier
		if err := rows.Scan(&ii.ID, &ii.HeldItemID, &ii.Identifier, &ii.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item identifier: %w", err)
		}
		out[ii.HeldItemID] = append(out[ii.HeldItemID], ii)
	}
	return out, rows.Err()
}
