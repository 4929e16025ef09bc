package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/carina/internal/model"
)

const heldItemColumns = `id, consignment_id, description, hs_code, quantity, quantity_unit,
	total_quantity, total_quantity_unit, hold_reason, warehouse, section, shelf,
	currency, item_value, hold_duration, notes, status, photo_mime, created_at, updated_at`

func scanHeldItem(s rowScanner) (*model.HeldItem, error) {
	it := &model.HeldItem{}
	var totalQty, value sql.NullFloat64
	var photoMime sql.NullString
	err := s.Scan(&it.ID, &it.ConsignmentID, &it.Description, &it.HSCode, &it.Quantity, &it.QuantityUnit,
		&totalQty, &it.TotalQuantityUnit, &it.HoldReason, &it.Warehouse, &it.Section, &it.Shelf,
		&it.Currency, &value, &it.HoldDuration, &it.Notes, &it.Status, &photoMime, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if totalQty.Valid {
		it.TotalQuantity = &totalQty.Float64
	}
	if value.Valid {
		it.ItemValue = &value.Float64
	}
	it.PhotoMime = photoMime.String
	return it, nil
}

// CreateHeldItem inserts a held item in held status.
func CreateHeldItem(ctx context.Context, q Querier, n model.NewHeldItem) (*model.HeldItem, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO held_items (consignment_id, description, hs_code, quantity, quantity_unit,
		     total_quantity, total_quantity_unit, hold_reason, warehouse, section, shelf,
		     currency, item_value, hold_duration, notes, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ConsignmentID, n.Description, n.HSCode, n.Quantity, n.QuantityUnit,
		n.TotalQuantity, n.TotalQuantityUnit, n.HoldReason, n.Warehouse, n.Section, n.Shelf,
		n.Currency, n.ItemValue, n.HoldDuration, n.Notes, model.ItemStatusHeld,
	)
	if err != nil {
		return nil, fmt.Errorf("creating held item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting held item id: %w", err)
	}

	return GetHeldItem(ctx, q, id)
}

// GetHeldItem returns a held item by ID, with its identifiers.
func GetHeldItem(ctx context.Context, q Querier, id int64) (*model.HeldItem, error) {
	it, err := scanHeldItem(q.QueryRowContext(ctx,
		`SELECT `+heldItemColumns+` FROM held_items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting held item: %w", err)
	}

	it.Identifiers, err = ListItemIdentifiers(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ListHeldItems returns a consignment's items in creation order, each with
// its identifiers.
func ListHeldItems(ctx context.Context, q Querier, consignmentID int64) ([]model.HeldItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+heldItemColumns+` FROM held_items WHERE consignment_id = ? ORDER BY id`,
		consignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing held items: %w", err)
	}

	var items []model.HeldItem
	for rows.Next() {
		it, err := scanHeldItem(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning held item: %w", err)
		}
		items = append(items, *it)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("listing held items: %w", err)
	}

	// Identifiers are read after rows is closed; a transaction has a single
	// connection and cannot run a second query while one is open.
	byItem, err := listConsignmentIdentifiers(ctx, q, consignmentID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Identifiers = byItem[items[i].ID]
	}
	return items, nil
}

// ListHeldItemStatuses returns the status of every item of a consignment.
func ListHeldItemStatuses(ctx context.Context, q Querier, consignmentID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT status FROM held_items WHERE consignment_id = ? ORDER BY id`, consignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item statuses: %w", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning item status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// MarkHeldItemReleased moves an item of the given consignment from held to
// released. It reports false when no such held item exists.
func MarkHeldItemReleased(ctx context.Context, q Querier, id, consignmentID int64) (bool, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE held_items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND consignment_id = ? AND status = ?`,
		model.ItemStatusReleased, id, consignmentID, model.ItemStatusHeld,
	)
	if err != nil {
		return false, fmt.Errorf("releasing held item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking held item release: %w", err)
	}
	return n == 1, nil
}

// CountHeldItems counts held items with the given status.
func CountHeldItems(ctx context.Context, q Querier, status string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM held_items WHERE status = ?`, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting held items: %w", err)
	}
	return n, nil
}

// SetHeldItemPhoto stores an evidence photo for a held item.
func SetHeldItemPhoto(ctx context.Context, q Querier, id int64, photo []byte, mime string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE held_items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting held item photo: %w", err)
	}
	return nil
}

// GetHeldItemPhoto returns a held item's photo and MIME type. Both are empty
// if the item has no photo or does not exist.
func GetHeldItemPhoto(ctx context.Context, q Querier, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM held_items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting held item photo: %w", err)
	}
	return photo, mime.String, nil
}
