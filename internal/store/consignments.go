package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/carina/internal/model"
)

const consignmentColumns = `id, code, importer, examination_date, status, created_at, updated_at`

func scanConsignment(s rowScanner) (*model.Consignment, error) {
	c := &model.Consignment{}
	if err := s.Scan(&c.ID, &c.Code, &c.Importer, &c.ExaminationDate, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// GetConsignment returns a consignment by ID.
func GetConsignment(ctx context.Context, q Querier, id int64) (*model.Consignment, error) {
	c, err := scanConsignment(q.QueryRowContext(ctx,
		`SELECT `+consignmentColumns+` FROM consignments WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting consignment: %w", err)
	}
	return c, nil
}

// GetConsignmentByCode returns the consignment with the given code.
func GetConsignmentByCode(ctx context.Context, q Querier, code string) (*model.Consignment, error) {
	c, err := scanConsignment(q.QueryRowContext(ctx,
		`SELECT `+consignmentColumns+` FROM consignments WHERE code = ?`, code,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting consignment by code: %w", err)
	}
	return c, nil
}

// EnsureConsignment returns the consignment with the given code, creating it
// in held status if it does not exist. An existing consignment is returned
// unchanged. created reports whether a new row was inserted.
func EnsureConsignment(ctx context.Context, q Querier, code, importer, examinationDate string) (c *model.Consignment, created bool, err error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO consignments (code, importer, examination_date, status)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(code) DO NOTHING`,
		code, importer, examinationDate, model.ConsignmentStatusHeld,
	)
	if err != nil {
		return nil, false, fmt.Errorf("creating consignment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("checking consignment insert: %w", err)
	}

	c, err = GetConsignmentByCode(ctx, q, code)
	if err != nil {
		return nil, false, err
	}
	if c == nil {
		return nil, false, fmt.Errorf("consignment %q missing after insert", code)
	}
	return c, n > 0, nil
}

// UpdateConsignmentStatus persists a derived status.
func UpdateConsignmentStatus(ctx context.Context, q Querier, id int64, status string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE consignments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating consignment status: %w", err)
	}
	return nil
}

// ListConsignmentSummaries returns every consignment with its held item
// count, newest first.
func ListConsignmentSummaries(ctx context.Context, q Querier) ([]model.ConsignmentSummary, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT c.id, c.code, c.importer, c.examination_date, c.status, c.created_at, c.updated_at,
		        COUNT(h.id)
		 FROM consignments c
		 LEFT JOIN held_items h ON h.consignment_id = c.id
		 GROUP BY c.id
		 ORDER BY c.created_at DESC, c.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing consignments: %w", err)
	}
	defer rows.Close()

	var out []model.ConsignmentSummary
	for rows.Next() {
		var s model.ConsignmentSummary
		if err := rows.Scan(&s.ID, &s.Code, &s.Importer, &s.ExaminationDate, &s.Status,
			&s.CreatedAt, &s.UpdatedAt, &s.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning consignment: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountConsignments counts consignments with the given status, or all of
// them when status is empty.
func CountConsignments(ctx context.Context, q Querier, status string) (int, error) {
	var n int
	var err error
	if status == "" {
		err = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM consignments`).Scan(&n)
	} else {
		err = q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM consignments WHERE status = ?`, status,
		).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting consignments: %w", err)
	}
	return n, nil
}
