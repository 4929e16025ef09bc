package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/carina/internal/model"
)

const releaseColumns = `r.id, r.held_item_id, r.batch_id, r.release_date, r.release_reference,
	r.release_reason, r.authorizing_officer, r.notes, r.released_by, r.created_at, h.description`

func scanReleaseRecord(s rowScanner) (*model.ReleaseRecord, error) {
	r := &model.ReleaseRecord{}
	err := s.Scan(&r.ID, &r.HeldItemID, &r.BatchID, &r.ReleaseDate, &r.ReleaseReference,
		&r.ReleaseReason, &r.AuthorizingOfficer, &r.Notes, &r.ReleasedBy, &r.CreatedAt, &r.ItemDescription)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateReleaseRecord records the release of one held item.
func CreateReleaseRecord(ctx context.Context, q Querier, n model.NewReleaseRecord) (*model.ReleaseRecord, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO release_records (held_item_id, batch_id, release_date, release_reference,
		     release_reason, authorizing_officer, notes, released_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.HeldItemID, n.BatchID, n.ReleaseDate, n.ReleaseReference,
		n.ReleaseReason, n.AuthorizingOfficer, n.Notes, n.ReleasedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating release record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting release record id: %w", err)
	}

	r, err := scanReleaseRecord(q.QueryRowContext(ctx,
		`SELECT `+releaseColumns+`
		 FROM release_records r JOIN held_items h ON h.id = r.held_item_id
		 WHERE r.id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("release record %d missing after insert", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting release record: %w", err)
	}
	return r, nil
}

// ListReleaseRecords returns the release records of a consignment's items in
// the order they were written.
func ListReleaseRecords(ctx context.Context, q Querier, consignmentID int64) ([]model.ReleaseRecord, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+releaseColumns+`
		 FROM release_records r JOIN held_items h ON h.id = r.held_item_id
		 WHERE h.consignment_id = ?
		 ORDER BY r.id`, consignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing release records: %w", err)
	}
	defer rows.Close()

	var out []model.ReleaseRecord
	for rows.Next() {
		r, err := scanReleaseRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning release record: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
