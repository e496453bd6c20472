package domain

// DimensionStats is one rollup bucket keyed by a dimension value
type DimensionStats struct {
	Count          int     `json:"count"`
	FTESum         float64 `json:"fteSum"`
	SalarySum      float64 `json:"salarySum"`
	ReductionCount int     `json:"reductionCount"`
}

// AggregateStats is the computed snapshot summary: headcount, FTE and salary
// totals plus per-dimension rollups. It is accumulated incrementally by the
// streaming aggregation; buckets are keyed by the dimension value so memory
// stays proportional to dimension cardinality, not table size.
type AggregateStats struct {
	TotalEmployees int     `json:"totalEmployees"`
	TotalFTE       float64 `json:"totalFte"`
	TotalSalary    float64 `json:"totalSalary"`
	ReductionCount int     `json:"reductionCount"`

	ByDepartment map[string]DimensionStats `json:"byDepartment"`
	ByStatus     map[string]DimensionStats `json:"byStatus"`
	ByRole       map[string]DimensionStats `json:"byRole"`
	ByCostCenter map[string]DimensionStats `json:"byCostCenter"`
	ByLocation   map[string]DimensionStats `json:"byLocation"`
}

// NewAggregateStats returns an empty accumulator
func NewAggregateStats() *AggregateStats {
	return &AggregateStats{
		ByDepartment: make(map[string]DimensionStats),
		ByStatus:     make(map[string]DimensionStats),
		ByRole:       make(map[string]DimensionStats),
		ByCostCenter: make(map[string]DimensionStats),
		ByLocation:   make(map[string]DimensionStats),
	}
}

// Add folds one employee into the accumulator
func (s *AggregateStats) Add(emp *Employee) {
	s.TotalEmployees++

	var fte, salary float64
	if emp.FTE != nil {
		fte = *emp.FTE
		s.TotalFTE += fte
	}
	if emp.BaseSalary != nil {
		salary = *emp.BaseSalary
		s.TotalSalary += salary
	}
	if emp.ReductionProgram {
		s.ReductionCount++
	}

	addDimension(s.ByDepartment, emp.Department, fte, salary, emp.ReductionProgram)
	addDimension(s.ByStatus, emp.Status, fte, salary, emp.ReductionProgram)
	addDimension(s.ByRole, emp.Role, fte, salary, emp.ReductionProgram)
	addDimension(s.ByCostCenter, emp.CostCenter, fte, salary, emp.ReductionProgram)
	addDimension(s.ByLocation, emp.Location, fte, salary, emp.ReductionProgram)
}

func addDimension(buckets map[string]DimensionStats, key string, fte, salary float64, reduction bool) {
	if key == "" {
		key = "unassigned"
	}

	bucket := buckets[key]
	bucket.Count++
	bucket.FTESum += fte
	bucket.SalarySum += salary
	if reduction {
		bucket.ReductionCount++
	}
	buckets[key] = bucket
}
