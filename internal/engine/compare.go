package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/TianXue2002/H-chain/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario       ComparisonScenario
	Result         model.PackResult
	BoundingWidth  int
	BoundingHeight int
	Efficiency     float64
	UnplacedCount  int
	Err            error // Set when the scenario settings are invalid
}

// CompareScenarios packs the same tiles once per scenario, each in a fresh
// session, and returns the results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, tiles []model.Tile, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		cr := ComparisonResult{Scenario: scenario}
		s, err := NewSession(scenario.Settings, opts...)
		if err != nil {
			cr.Err = err
			results = append(results, cr)
			continue
		}
		s.log = s.log.WithField("scenario", scenario.Name)

		res := s.PlaceAll(cloneTiles(tiles))
		cr.Result = res
		cr.BoundingWidth = res.BoundingWidth
		cr.BoundingHeight = res.BoundingHeight
		cr.Efficiency = res.Efficiency()
		cr.UnplacedCount = len(res.Unplaced)
		results = append(results, cr)
	}

	return results
}

// Best returns the index of the successful result with the narrowest
// bounding width, preferring fewer unplaced tiles. It returns -1 when no
// scenario succeeded.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 ||
			r.UnplacedCount < results[best].UnplacedCount ||
			(r.UnplacedCount == results[best].UnplacedCount && r.BoundingWidth < results[best].BoundingWidth) {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: the other clearance policy
	alt := base
	if base.Policy == model.PolicyPeriodic {
		alt.Policy = model.PolicyFixed
		scenarios = append(scenarios, ComparisonScenario{Name: "Fixed Clearance", Settings: alt})
	} else {
		alt.Policy = model.PolicyPeriodic
		scenarios = append(scenarios, ComparisonScenario{Name: "Periodic Clearance", Settings: alt})
	}

	// Scenario: the other periodic rounding
	if base.Policy == model.PolicyPeriodic {
		rounding := base
		if base.Rounding == model.RoundingCeil {
			rounding.Rounding = model.RoundingLiteral
		} else {
			rounding.Rounding = model.RoundingCeil
		}
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Periodic (%s rounding)", rounding.Rounding),
			Settings: rounding,
		})
	}

	// Scenario: no separation
	if base.Separation > 0 {
		none := base
		none.Separation = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Separation", Settings: none})
	}

	// Scenario: the other push policy
	push := base
	if base.Push == model.PushLiteral {
		push.Push = model.PushClear
	} else {
		push.Push = model.PushLiteral
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Push %s", push.Push),
		Settings: push,
	})

	// Scenario: area order
	if base.Order != model.OrderArea {
		area := base
		area.Order = model.OrderArea
		scenarios = append(scenarios, ComparisonScenario{Name: "Largest Area First", Settings: area})
	}

	return scenarios
}

func cloneTiles(tiles []model.Tile) []model.Tile {
	out := make([]model.Tile, len(tiles))
	for i, t := range tiles {
		out[i] = t.Clone()
	}
	return out
}

// logFields summarizes a comparison result for structured logs.
func (r ComparisonResult) logFields() logrus.Fields {
	return logrus.Fields{
		"scenario":   r.Scenario.Name,
		"width":      r.BoundingWidth,
		"height":     r.BoundingHeight,
		"unplaced":   r.UnplacedCount,
		"efficiency": fmt.Sprintf("%.1f%%", r.Efficiency),
	}
}

// LogComparison writes one line per scenario to the logger.
func LogComparison(l logrus.FieldLogger, results []ComparisonResult) {
	for _, r := range results {
		if r.Err != nil {
			l.WithError(r.Err).WithField("scenario", r.Scenario.Name).Warn("scenario skipped")
			continue
		}
		l.WithFields(r.logFields()).Info("scenario packed")
	}
}
