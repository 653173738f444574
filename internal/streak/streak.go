package streak

import (
	"time"

	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

// Compute returns the number of consecutive completed days ending today, or
// ending yesterday when today is not completed yet. Skipped days break the
// chain.
func Compute(records map[string]models.DayRecord, today time.Time) int {
	counts := func(day time.Time) bool {
		rec, ok := records[utils.DateKey(day)]
		return ok && rec.CountsTowardStreak()
	}

	cursor := utils.StartOfDay(today)
	if !counts(cursor) {
		cursor = cursor.AddDate(0, 0, -1)
	}

	n := 0
	for counts(cursor) {
		n++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return n
}
