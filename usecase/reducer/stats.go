package reducer

import (
	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/pkg/recurrence"
)

// addToStat merges delta into the stat of date, creating it on first use.
// Counters never drop below zero.
func addToStat(stats []domain.DailyStat, date string, delta domain.StatDelta) []domain.DailyStat {
	idx := indexOf(stats, func(s domain.DailyStat) bool { return s.Date == date })
	var stat domain.DailyStat
	if idx >= 0 {
		stat = stats[idx]
	} else {
		stat = domain.DailyStat{Date: date}
	}
	stat.TasksCompleted = floor(stat.TasksCompleted + delta.TasksCompleted)
	stat.FocusMinutes = floor(stat.FocusMinutes + delta.FocusMinutes)
	stat.PomodorosCompleted = floor(stat.PomodorosCompleted + delta.PomodorosCompleted)

	if idx >= 0 {
		return replaceAt(stats, idx, stat)
	}
	return appendTo(stats, stat)
}

func floor(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func updateDailyStat(doc *domain.Document, date string, delta domain.StatDelta) *domain.Document {
	if delta.Zero() {
		return doc
	}
	stats := addToStat(doc.DailyStats, date, delta)
	if same(stats, doc.DailyStats) {
		return doc
	}
	next := clone(doc)
	next.DailyStats = stats
	return next
}

// updateStreak counts consecutive active days ending today. An inactive today
// does not break a streak that ran through yesterday.
func updateStreak(doc *domain.Document, env Env) *domain.Document {
	active := make(map[string]bool, len(doc.DailyStats))
	for _, s := range doc.DailyStats {
		if s.Active() {
			active[s.Date] = true
		}
	}

	day, err := recurrence.ParseDate(env.Today())
	if err != nil {
		return doc
	}
	if !active[recurrence.FormatDate(day)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for active[recurrence.FormatDate(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	if streak == doc.CurrentStreak {
		return doc
	}
	next := clone(doc)
	next.CurrentStreak = streak
	return next
}
