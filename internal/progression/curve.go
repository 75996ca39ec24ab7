package progression

import (
	"github.com/emberfall-studios/skillforge/internal/config"
)

// XPForLevel returns the XP required to advance from level to level+1:
// base + level*multiplier + exponent*level². Pure and safe for
// concurrent use; monotonically non-decreasing for non-negative
// coefficients. Callers must not pass a negative level.
func XPForLevel(c config.CurveParams, level int) float64 {
	l := float64(level)
	return c.Base + l*c.Multiplier + c.Exponent*l*l
}
