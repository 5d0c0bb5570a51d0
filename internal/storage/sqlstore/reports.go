package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"shift-metrics/internal/storage"
	"time"
)

// SaveReport writes the report for (manager, date) in one statement, replacing
// whatever an earlier import stored there. Concurrent writers race; the last wins.
func (s *Storage) SaveReport(ctx context.Context, report storage.IngestionReport) error {
	const op = "storage.sqlstore.SaveReport"

	if err := s.replaceDocument(ctx, "ingestion_reports", report.ManagerID, report.ReportDate, report.FileName, report.ImportedAt, report); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) SaveHourlySummary(ctx context.Context, summary storage.HourlySummary) error {
	const op = "storage.sqlstore.SaveHourlySummary"

	if err := s.replaceDocument(ctx, "hourly_summaries", summary.ManagerID, summary.ReportDate, summary.FileName, summary.ImportedAt, summary); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) replaceDocument(ctx context.Context, table string, managerID int64, date, fileName string, importedAt time.Time, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	stmt := `REPLACE INTO ` + table + ` (manager_id, report_date, file_name, imported_at, payload) VALUES (?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, stmt, managerID, date, fileName, importedAt.Unix(), string(payload)); err != nil {
		return err
	}
	return nil
}

func (s *Storage) GetReport(ctx context.Context, managerID int64, date string) (storage.IngestionReport, error) {
	const op = "storage.sqlstore.GetReport"

	var report storage.IngestionReport
	if err := s.getDocument(ctx, "ingestion_reports", managerID, date, &report); err != nil {
		return storage.IngestionReport{}, fmt.Errorf("%s: manager %d date %s: %w", op, managerID, date, err)
	}
	return report, nil
}

func (s *Storage) GetHourlySummary(ctx context.Context, managerID int64, date string) (storage.HourlySummary, error) {
	const op = "storage.sqlstore.GetHourlySummary"

	var summary storage.HourlySummary
	if err := s.getDocument(ctx, "hourly_summaries", managerID, date, &summary); err != nil {
		return storage.HourlySummary{}, fmt.Errorf("%s: manager %d date %s: %w", op, managerID, date, err)
	}
	return summary, nil
}

func (s *Storage) getDocument(ctx context.Context, table string, managerID int64, date string, dst any) error {
	stmt := `SELECT payload FROM ` + table + ` WHERE manager_id = ? AND report_date = ?`

	var payload string
	err := s.db.QueryRowContext(ctx, stmt, managerID, date).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// ListReports lists both report kinds for a manager between from and to
// (inclusive, YYYY-MM-DD, either may be empty), newest first.
func (s *Storage) ListReports(ctx context.Context, managerID int64, from, to string) ([]storage.ReportListItem, error) {
	const op = "storage.sqlstore.ListReports"

	if from == "" {
		from = "0000-00-00"
	}
	if to == "" {
		to = "9999-99-99"
	}

	stmt := `
		SELECT manager_id, report_date, file_name, imported_at, 'manager' AS kind
		FROM ingestion_reports
		WHERE manager_id = ? AND report_date >= ? AND report_date <= ?
		UNION ALL
		SELECT manager_id, report_date, file_name, imported_at, 'hourly' AS kind
		FROM hourly_summaries
		WHERE manager_id = ? AND report_date >= ? AND report_date <= ?
		ORDER BY report_date DESC, kind
	`

	rows, err := s.db.QueryContext(ctx, stmt, managerID, from, to, managerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []storage.ReportListItem{}
	for rows.Next() {
		var (
			item       storage.ReportListItem
			importedAt int64
		)
		if err := rows.Scan(&item.ManagerID, &item.ReportDate, &item.FileName, &importedAt, &item.Kind); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		item.ImportedAt = time.Unix(importedAt, 0).UTC()
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
