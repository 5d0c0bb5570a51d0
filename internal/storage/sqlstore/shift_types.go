package sqlstore

import (
	"context"
	"fmt"
	"shift-metrics/internal/storage"
)

// ShiftTypesForManager returns the manager's shift types in classification order.
func (s *Storage) ShiftTypesForManager(ctx context.Context, managerID int64) ([]storage.ShiftTypeDefinition, error) {
	const op = "storage.sqlstore.ShiftTypesForManager"

	stmt := `
		SELECT id, type_key, label, range_start, range_end, sort_order
		FROM shift_types
		WHERE manager_id = ?
		ORDER BY sort_order, id
	`

	rows, err := s.db.QueryContext(ctx, stmt, managerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	defs := []storage.ShiftTypeDefinition{}
	for rows.Next() {
		var d storage.ShiftTypeDefinition
		if err := rows.Scan(&d.ID, &d.Key, &d.Label, &d.RangeStart, &d.RangeEnd, &d.SortOrder); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		defs = append(defs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return defs, nil
}

// ReplaceShiftTypes swaps the manager's whole list for defs.
func (s *Storage) ReplaceShiftTypes(ctx context.Context, managerID int64, defs []storage.ShiftTypeDefinition) error {
	const op = "storage.sqlstore.ReplaceShiftTypes"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_types WHERE manager_id = ?`, managerID); err != nil {
		return fmt.Errorf("%s: clear: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shift_types (manager_id, type_key, label, range_start, range_end, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, d := range defs {
		if _, err := stmt.ExecContext(ctx, managerID, d.Key, d.Label, d.RangeStart, d.RangeEnd, d.SortOrder); err != nil {
			if mapped := classify(err); mapped != nil {
				return fmt.Errorf("%s: manager %d: %w", op, managerID, mapped)
			}
			return fmt.Errorf("%s: shift type %q: %w", op, d.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}
