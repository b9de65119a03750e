// Package healthmetrics derives BMI, BMI category and blood-pressure status from a
// checkup's raw measurements and aggregates them for dashboards. Everything here is
// pure: no storage, no logging, no errors.
package healthmetrics

import "math"

// BMI categories
const (
	CategoryUnknown     = "unknown"
	CategoryUnderweight = "underweight"
	CategoryNormal      = "normal"
	CategoryOverweight  = "overweight"
	CategoryObese       = "obese"
)

// Categories lists the named categories in ascending BMI order. CategoryUnknown is
// deliberately absent: records without a BMI are not tracked in distributions.
var Categories = []string{CategoryUnderweight, CategoryNormal, CategoryOverweight, CategoryObese}

// CategoryLabels maps each category to its display label
var CategoryLabels = map[string]string{
	CategoryUnderweight: "Underweight",
	CategoryNormal:      "Normal Weight",
	CategoryOverweight:  "Overweight",
	CategoryObese:       "Obese",
	CategoryUnknown:     "Unknown",
}

// Blood pressure statuses
const (
	BPNormal   = "Normal"
	BPElevated = "Elevated"
	BPStage1   = "Stage 1 Hypertension"
	BPStage2   = "Stage 2 Hypertension"
)

// Category band lower bounds (inclusive)
const (
	normalFloor     = 18.5
	overweightFloor = 25.0
	obeseFloor      = 30.0
)

// Metrics holds the derived values of a single record
type Metrics struct {
	BMI            *float64 `json:"bmi"`
	HealthCategory string   `json:"healthCategory"`
	BPStatus       string   `json:"bpStatus"`
}

// Round2 rounds to two decimal places, half to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// BMI returns weight(kg) / height(m)^2 rounded to two decimals. ok is false when the
// height is zero, negative or not a finite number.
func BMI(weightKg, heightCm float64) (bmi float64, ok bool) {
	if !(heightCm > 0) || math.IsInf(heightCm, 0) || math.IsNaN(weightKg) {
		return 0, false
	}
	heightM := heightCm / 100
	return Round2(weightKg / (heightM * heightM)), true
}

// Category classifies a BMI value. Each band includes its lower bound.
func Category(bmi float64, ok bool) string {
	switch {
	case !ok:
		return CategoryUnknown
	case bmi < normalFloor:
		return CategoryUnderweight
	case bmi < overweightFloor:
		return CategoryNormal
	case bmi < obeseFloor:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// BPStatus classifies a systolic/diastolic pair. Rules are evaluated in order and the
// first match wins.
func BPStatus(systolic, diastolic int) string {
	switch {
	case systolic < 120 && diastolic < 80:
		return BPNormal
	case systolic < 130 && diastolic < 80:
		return BPElevated
	case systolic < 140 && diastolic < 90:
		return BPStage1
	default:
		return BPStage2
	}
}

// Derive computes all derived values for one set of measurements
func Derive(weightKg, heightCm float64, systolic, diastolic int) Metrics {
	bmi, ok := BMI(weightKg, heightCm)
	m := Metrics{
		HealthCategory: Category(bmi, ok),
		BPStatus:       BPStatus(systolic, diastolic),
	}
	if ok {
		m.BMI = &bmi
	}
	return m
}

// IsKnownCategory reports whether category is one of the four named bands
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
