package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath              string        `json:"db_path"`
	DBSizeBytes         int64         `json:"db_size_bytes"`
	TotalJobs           int           `json:"total_jobs"`
	Jobs                []StatusCount `json:"jobs"`
	TotalStrategies     int           `json:"total_strategies"`
	ActiveStrategies    int           `json:"active_strategies"`
	ConfirmedStrategies int           `json:"confirmed_strategies"`
}

// StatusCount holds per-status job counts.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generation_jobs`).Scan(&st.TotalJobs)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strategies`).Scan(&st.TotalStrategies)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strategies WHERE is_active = 1`).Scan(&st.ActiveStrategies)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strategies WHERE confirmed_at IS NOT NULL`).Scan(&st.ConfirmedStrategies)

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) as cnt
		FROM generation_jobs
		GROUP BY status ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		rows.Scan(&sc.Status, &sc.Count)
		st.Jobs = append(st.Jobs, sc)
	}

	return st, nil
}
