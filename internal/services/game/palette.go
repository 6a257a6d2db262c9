package game

import "github.com/JupiterPi/verse/internal/model"

// Palette is the fixed color assignment order. A joining player without a
// restored color takes the first entry held by neither an online nor an
// offline player; the scan order is part of the observable behavior, so this
// stays a slice, not a set.
var Palette = []model.Color{
	"#f44336", // red
	"#2196f3", // blue
	"#4caf50", // green
	"#ffc107", // amber
	"#9c27b0", // purple
	"#ff9800", // orange
	"#00bcd4", // cyan
	"#e91e63", // pink
	"#8bc34a", // light green
	"#3f51b5", // indigo
	"#795548", // brown
	"#607d8b", // blue grey
}
