package healthmetrics

import (
	"sort"

	"github.com/consolahealth/studenthealth/internal/app/models"
)

// DateLayout is the checkup date format used in chart series
const DateLayout = "2006-01-02"

// RecordMetrics derives the metrics of a stored record
func RecordMetrics(r *models.HealthRecord) Metrics {
	return Derive(r.Weight, r.Height, r.SystolicBP, r.DiastolicBP)
}

// AverageBMI returns the mean of the defined BMIs in records, rounded to two decimals.
// Records without a BMI are left out of both the sum and the count. An empty set, or a
// set with no defined BMI, yields 0.
func AverageBMI(records []*models.HealthRecord) float64 {
	var sum float64
	var count int
	for _, r := range records {
		bmi, ok := BMI(r.Weight, r.Height)
		if !ok {
			continue
		}
		sum += bmi
		count++
	}
	if count == 0 {
		return 0
	}
	return Round2(sum / float64(count))
}

// CategoryDistribution counts records per named category. The result always has
// exactly the four keys in Categories; unknown records are dropped.
func CategoryDistribution(records []*models.HealthRecord) map[string]int {
	dist := make(map[string]int, len(Categories))
	for _, c := range Categories {
		dist[c] = 0
	}
	for _, r := range records {
		category := Category(BMI(r.Weight, r.Height))
		if _, tracked := dist[category]; tracked {
			dist[category]++
		}
	}
	return dist
}

// SchoolYearLabels returns the distinct school-year labels of records in ascending
// order. Records without a label contribute the empty string.
func SchoolYearLabels(records []*models.HealthRecord) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, r := range records {
		label := r.SchoolYearLabel()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// AverageWeightByYear groups records by school-year label and returns the mean weight
// of each group. Labels are opaque; "2024-2025" is never parsed. Records without a
// stored weight are left out, so a year with none of them has no entry.
func AverageWeightByYear(records []*models.HealthRecord) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		if r.WeightMissing {
			continue
		}
		label := r.SchoolYearLabel()
		sums[label] += r.Weight
		counts[label]++
	}

	averages := make(map[string]float64, len(sums))
	for label, sum := range sums {
		if counts[label] == 0 {
			averages[label] = 0
			continue
		}
		averages[label] = sum / float64(counts[label])
	}
	return averages
}

// StudentsPerYear counts the distinct students with at least one record per label
func StudentsPerYear(records []*models.HealthRecord) map[string]int {
	students := make(map[string]map[int64]struct{})
	for _, r := range records {
		label := r.SchoolYearLabel()
		if students[label] == nil {
			students[label] = make(map[int64]struct{})
		}
		students[label][r.StudentID] = struct{}{}
	}

	counts := make(map[string]int, len(students))
	for label, set := range students {
		counts[label] = len(set)
	}
	return counts
}

// DistinctStudents counts the distinct students referenced by records
func DistinctStudents(records []*models.HealthRecord) int {
	seen := make(map[int64]struct{})
	for _, r := range records {
		seen[r.StudentID] = struct{}{}
	}
	return len(seen)
}

// FilterByCategory keeps the records whose derived category equals category, in their
// original order. An empty category keeps everything. Only the four named categories
// can match, so "unknown" behaves like any other unmatched value.
func FilterByCategory(records []*models.HealthRecord, category string) []*models.HealthRecord {
	if category == "" {
		return records
	}
	filtered := make([]*models.HealthRecord, 0, len(records))
	if !IsKnownCategory(category) {
		return filtered
	}
	for _, r := range records {
		if Category(BMI(r.Weight, r.Height)) == category {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Series is the chart-ready view of one student's checkups
type Series struct {
	Weights []float64  `json:"weights"`
	BMIs    []*float64 `json:"bmis"`
	Dates   []string   `json:"dates"`
}

// BuildSeries turns records (already ordered most-recent-first) into parallel arrays.
// Undefined BMIs are kept as nil so indexes stay aligned with Dates.
func BuildSeries(records []*models.HealthRecord) Series {
	s := Series{
		Weights: make([]float64, 0, len(records)),
		BMIs:    make([]*float64, 0, len(records)),
		Dates:   make([]string, 0, len(records)),
	}
	for _, r := range records {
		s.Weights = append(s.Weights, r.Weight)
		s.BMIs = append(s.BMIs, RecordMetrics(r).BMI)
		s.Dates = append(s.Dates, r.CheckupDate.Format(DateLayout))
	}
	return s
}

// Latest returns the first record of a most-recent-first slice, or nil
func Latest(records []*models.HealthRecord) *models.HealthRecord {
	if len(records) == 0 {
		return nil
	}
	return records[0]
}
