package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalSessions         int64          `json:"total_sessions"`
	TotalSets             int64          `json:"total_sets"`
	TotalExercises        int64          `json:"total_exercises"`
	TotalBodyMeasurements int64          `json:"total_body_measurements"`
	TotalBodyComposition  int64          `json:"total_body_composition"`
	EarliestSession       *time.Time     `json:"earliest_session"`
	LatestSession         *time.Time     `json:"latest_session"`
	SetsByBodyPart        []BodyPartStat `json:"sets_by_body_part"`
}

// BodyPartStat holds summary stats for a single body part.
type BodyPartStat struct {
	BodyPart string  `json:"body_part"`
	Sets     int64   `json:"sets"`
	Volume   float64 `json:"volume"`
}

// GetDataStats returns aggregate statistics for the stored data.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM workout_sessions),
		   (SELECT COUNT(*) FROM workout_sets),
		   (SELECT COUNT(*) FROM exercises),
		   (SELECT COUNT(*) FROM body_measurements),
		   (SELECT COUNT(*) FROM body_composition)`,
	).Scan(&stats.TotalSessions, &stats.TotalSets, &stats.TotalExercises,
		&stats.TotalBodyMeasurements, &stats.TotalBodyComposition)
	if err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(session_date), MAX(session_date) FROM workout_sessions`,
	).Scan(&stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT body_part, COUNT(*), COALESCE(SUM(volume), 0)::float8
		 FROM sets_view
		 GROUP BY body_part
		 ORDER BY COUNT(*) DESC, body_part`)
	if err != nil {
		return nil, fmt.Errorf("querying sets by body part: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s BodyPartStat
		if err := rows.Scan(&s.BodyPart, &s.Sets, &s.Volume); err != nil {
			return nil, fmt.Errorf("scanning body part stat: %w", err)
		}
		stats.SetsByBodyPart = append(stats.SetsByBodyPart, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
