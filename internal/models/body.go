package models

import "time"

// Circumference names, in storage column order.
var Circumferences = []string{"chest", "waist", "abdomen", "hips", "thigh", "calf", "biceps"}

// BodyMeasurement is one tape measurement in cm.
type BodyMeasurement struct {
	Date  time.Time
	Type  string
	Value float64
}

// BodyComposition is one body-scale reading. Records sharing a date but
// differing in Method are distinct.
type BodyComposition struct {
	Date          time.Time
	Weight        float64
	MuscleMass    *float64
	FatMass       *float64
	WaterMass     *float64
	FatPercentage *float64
	Method        string
}

// BodyMeasurementRow is a wide row for the body_measurements table.
type BodyMeasurementRow struct {
	Date    time.Time `json:"date"`
	Chest   *float64  `json:"chest"`
	Waist   *float64  `json:"waist"`
	Abdomen *float64  `json:"abdomen"`
	Hips    *float64  `json:"hips"`
	Thigh   *float64  `json:"thigh"`
	Calf    *float64  `json:"calf"`
	Biceps  *float64  `json:"biceps"`
}

// Values returns the circumferences in Circumferences order.
func (r BodyMeasurementRow) Values() []*float64 {
	return []*float64{r.Chest, r.Waist, r.Abdomen, r.Hips, r.Thigh, r.Calf, r.Biceps}
}

// Empty reports whether no circumference is set.
func (r BodyMeasurementRow) Empty() bool {
	for _, v := range r.Values() {
		if v != nil {
			return false
		}
	}
	return true
}
