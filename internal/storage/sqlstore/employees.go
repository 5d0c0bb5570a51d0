package sqlstore

import (
	"context"
	"fmt"
	"shift-metrics/internal/storage"
	"strings"
)

// RosterForManager returns the manager's active employees.
func (s *Storage) RosterForManager(ctx context.Context, managerID int64) ([]storage.RosterEmployee, error) {
	const op = "storage.sqlstore.RosterForManager"

	stmt := `SELECT id, name FROM employees WHERE manager_id = ? AND is_active = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt, managerID, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	roster := []storage.RosterEmployee{}
	for rows.Next() {
		var e storage.RosterEmployee
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		roster = append(roster, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roster, nil
}

// ListEmployees is the admin view of a roster, inactive employees included.
func (s *Storage) ListEmployees(ctx context.Context, managerID int64) ([]storage.EmployeeAdmin, error) {
	const op = "storage.sqlstore.ListEmployees"

	stmt := `SELECT id, manager_id, name, is_active FROM employees WHERE manager_id = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt, managerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	employees := []storage.EmployeeAdmin{}
	for rows.Next() {
		var e storage.EmployeeAdmin
		if err := rows.Scan(&e.ID, &e.ManagerID, &e.Name, &e.IsActive); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return employees, nil
}

// AddEmployee returns storage.ErrNotFound when the manager does not exist.
func (s *Storage) AddEmployee(ctx context.Context, emp storage.EmployeeAdmin) (int64, error) {
	const op = "storage.sqlstore.AddEmployee"

	stmt := `INSERT INTO employees (manager_id, name, is_active) VALUES (?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt, emp.ManagerID, strings.TrimSpace(emp.Name), emp.IsActive)
	if err != nil {
		if mapped := classify(err); mapped != nil {
			return 0, fmt.Errorf("%s: manager %d: %w", op, emp.ManagerID, mapped)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateEmployees renames and (de)activates employees in one transaction.
func (s *Storage) UpdateEmployees(ctx context.Context, emps []storage.EmployeeAdmin) error {
	const op = "storage.sqlstore.UpdateEmployees"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE employees SET name = ?, is_active = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, emp := range emps {
		if _, err := stmt.ExecContext(ctx, strings.TrimSpace(emp.Name), emp.IsActive, emp.ID); err != nil {
			return fmt.Errorf("%s: employee id=%d: %w", op, emp.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}
