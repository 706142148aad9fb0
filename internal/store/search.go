package store

import (
	"context"
	"database/sql"
	"time"

	"file-categorizer/internal/category"
	"file-categorizer/internal/logging"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*FileRecord, error) {
	var r FileRecord
	var cat string
	var modified, scanned int64
	var exists int

	if err := row.Scan(&r.ID, &r.Path, &r.Filename, &cat, &r.Size, &modified, &scanned, &exists); err != nil {
		return nil, err
	}

	r.Category = category.Category(cat)
	r.ModifiedDate = time.Unix(modified, 0)
	r.ScannedDate = time.Unix(scanned, 0)
	r.Exists = exists != 0
	return &r, nil
}

// Search returns records matching the criteria, most recently modified
// first with insertion order breaking ties. Invalid criteria fail before
// the database is touched.
func (s *Store) Search(ctx context.Context, criteria SearchCriteria) ([]FileRecord, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("search", start, err) }()

	query := `
	SELECT id, path, filename, category, size, modified_date, scanned_date, file_exists
	FROM files WHERE 1=1`
	var args []interface{}

	if criteria.Query != "" {
		query += " AND (filename LIKE ? OR path LIKE ?)"
		term := "%" + criteria.Query + "%"
		args = append(args, term, term)
	}
	if criteria.Category != "" {
		query += " AND category = ?"
		args = append(args, string(criteria.Category))
	}
	if criteria.MinSize != nil {
		query += " AND size >= ?"
		args = append(args, *criteria.MinSize)
	}
	if criteria.MaxSize != nil {
		query += " AND size <= ?"
		args = append(args, *criteria.MaxSize)
	}
	if criteria.ModifiedAfter != nil {
		query += " AND modified_date >= ?"
		args = append(args, criteria.ModifiedAfter.Unix())
	}
	if criteria.ModifiedBefore != nil {
		query += " AND modified_date <= ?"
		args = append(args, criteria.ModifiedBefore.Unix())
	}
	if criteria.ExistsOnly {
		query += " AND file_exists = 1"
	}

	// rowid preserves insertion order for records sharing a mod time.
	query += " ORDER BY modified_date DESC, rowid ASC LIMIT ? OFFSET ?"
	args = append(args, criteria.limit(), criteria.Offset)

	logging.Debug("Search: query=%q category=%q limit=%d offset=%d",
		criteria.Query, criteria.Category, criteria.limit(), criteria.Offset)

	var rows *sql.Rows
	rows, err = s.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = classify("search", err)
		return nil, err
	}
	defer rows.Close()

	var results []FileRecord
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			err = classify("search", scanErr)
			return nil, err
		}
		results = append(results, *record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		err = classify("search", rowsErr)
		return nil, err
	}
	return results, nil
}

// Recent returns the most recently modified records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]FileRecord, error) {
	if limit < MinSearchLimit || limit > MaxSearchLimit {
		limit = 10
	}
	return s.Search(ctx, SearchCriteria{Limit: limit})
}

// Stats returns per-category record counts plus the total.
func (s *Store) Stats(ctx context.Context) (CategoryStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("stats", start, err) }()

	stats := CategoryStats{Counts: make(map[category.Category]int)}
	for _, c := range category.All {
		stats.Counts[c] = 0
	}

	var rows *sql.Rows
	rows, err = s.db.QueryContext(ctx, "SELECT category, COUNT(*) FROM files GROUP BY category")
	if err != nil {
		err = classify("stats", err)
		return CategoryStats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var count int
		if scanErr := rows.Scan(&cat, &count); scanErr != nil {
			err = classify("stats", scanErr)
			return CategoryStats{}, err
		}
		stats.Counts[category.Category(cat)] = count
		stats.Total += count
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		err = classify("stats", rowsErr)
		return CategoryStats{}, err
	}
	return stats, nil
}
