package source

import (
	"sync"

	"github.com/mattn/go-runewidth"
)

var (
	widthOnce sync.Once
	widthCond *runewidth.Condition
)

// widthCondition returns the process-wide display-width table. It is
// built exactly once, on first use; after that it is read-only and safe
// to share across concurrent renders.
func widthCondition() *runewidth.Condition {
	widthOnce.Do(func() {
		widthCond = runewidth.NewCondition()
	})
	return widthCond
}

// RuneDisplayWidth returns the number of terminal columns the rune
// occupies (0 for combining marks, 2 for wide CJK runes, 1 otherwise).
// Tab characters are not handled here; tab expansion depends on the
// current column and lives in Index.ColumnOf.
func RuneDisplayWidth(r rune) int {
	return widthCondition().RuneWidth(r)
}

// StringDisplayWidth returns the total display width of s, ignoring tabs.
func StringDisplayWidth(s string) int {
	return widthCondition().StringWidth(s)
}
