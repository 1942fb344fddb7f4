package components

import (
	"strings"

	"github.com/pigeonic/banglachat/internal/catalog"
)

// DifficultyStrip renders the three levels as badges, highlighting the
// selected one.
func DifficultyStrip(selected catalog.Difficulty) string {
	levels := catalog.Difficulties()
	parts := make([]string, 0, len(levels))
	for _, d := range levels {
		variant := BadgeOutline
		if d == selected {
			variant = BadgeDefault
		}
		parts = append(parts, Badge(d.Label(), variant))
	}
	return strings.Join(parts, " ")
}
