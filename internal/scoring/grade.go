package scoring

import (
	"math"

	"github.com/jonathan/resume-auditor/internal/types"
)

// Grade is the dashboard band a score falls into.
type Grade string

const (
	GradeCritical  Grade = "critical"
	GradeFair      Grade = "fair"
	GradeExcellent Grade = "excellent"
)

const (
	criticalBelow      = 35
	excellentAtOrAbove = 75
)

// GradeFor maps a score to its dashboard band.
func GradeFor(score int) Grade {
	switch {
	case score < criticalBelow:
		return GradeCritical
	case score >= excellentAtOrAbove:
		return GradeExcellent
	default:
		return GradeFair
	}
}

// QuantifiedPercent returns the share of bullets carrying a metric, rounded to a whole percent.
func QuantifiedPercent(m types.Metrics) int {
	if m.TotalBulletPoints <= 0 {
		return 0
	}
	with := min(max(m.BulletsWithMetrics, 0), m.TotalBulletPoints)
	return int(math.Round(float64(with) / float64(m.TotalBulletPoints) * 100))
}
