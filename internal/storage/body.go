package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// InsertBodyMeasurement stores one row of circumferences.
func (db *DB) InsertBodyMeasurement(ctx context.Context, r models.BodyMeasurementRow) (int64, error) {
	if r.Empty() {
		return 0, errors.New("at least one circumference is required")
	}
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO body_measurements (measurement_date, chest, waist, abdomen, hips, thigh, calf, biceps)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		models.DayOf(r.Date), r.Chest, r.Waist, r.Abdomen, r.Hips, r.Thigh, r.Calf, r.Biceps,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting body measurement: %w", err)
	}
	return id, nil
}

// UpsertBodyComposition stores a composition reading. A second reading with
// the same date and method replaces the first.
func (db *DB) UpsertBodyComposition(ctx context.Context, c models.BodyComposition) (int64, error) {
	if c.Weight <= 0 {
		return 0, errors.New("weight must be positive")
	}
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO body_composition (measurement_date, weight, muscle_mass, fat_mass, water_mass,
		 body_fat_percentage, method)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (measurement_date, method) DO UPDATE SET
		   weight = EXCLUDED.weight, muscle_mass = EXCLUDED.muscle_mass,
		   fat_mass = EXCLUDED.fat_mass, water_mass = EXCLUDED.water_mass,
		   body_fat_percentage = EXCLUDED.body_fat_percentage
		 RETURNING id`,
		models.DayOf(c.Date), c.Weight, c.MuscleMass, c.FatMass, c.WaterMass, c.FatPercentage, c.Method,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting body composition: %w", err)
	}
	return id, nil
}
