package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"shift-metrics/internal/storage"
	"strings"
)

// ManagerByLocation finds the manager owning a store location code, ignoring
// case and surrounding spaces. ok is false when no manager has that location.
func (s *Storage) ManagerByLocation(ctx context.Context, location string) (storage.ManagerContext, bool, error) {
	const op = "storage.sqlstore.ManagerByLocation"

	stmt := `SELECT id, name, location FROM managers WHERE LOWER(TRIM(location)) = ?`

	var mc storage.ManagerContext
	err := s.db.QueryRowContext(ctx, stmt, strings.ToLower(strings.TrimSpace(location))).
		Scan(&mc.ManagerID, &mc.Name, &mc.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ManagerContext{}, false, nil
	}
	if err != nil {
		return storage.ManagerContext{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return mc, true, nil
}

func (s *Storage) CreateManager(ctx context.Context, name, location string) (int64, error) {
	const op = "storage.sqlstore.CreateManager"

	stmt := `INSERT INTO managers (name, location) VALUES (?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, strings.TrimSpace(name), strings.TrimSpace(location))
	if err != nil {
		if mapped := classify(err); mapped != nil {
			return 0, fmt.Errorf("%s: location %q: %w", op, location, mapped)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (s *Storage) ListManagers(ctx context.Context) ([]storage.ManagerContext, error) {
	const op = "storage.sqlstore.ListManagers"

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, location FROM managers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	managers := []storage.ManagerContext{}
	for rows.Next() {
		var mc storage.ManagerContext
		if err := rows.Scan(&mc.ManagerID, &mc.Name, &mc.Location); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		managers = append(managers, mc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return managers, nil
}
