package reducer

import (
	"slices"
	"strings"
	"time"

	"github.com/fastygo/focusboard/domain"
)

const fallbackFocusMinutes = 25

func pomodoroIndex(doc *domain.Document, id string) int {
	if id == "" {
		return -1
	}
	return indexOf(doc.Pomodoros, func(p domain.Pomodoro) bool { return p.ID == id })
}

func withPomodoro(doc *domain.Document, idx int, p domain.Pomodoro) *domain.Document {
	next := clone(doc)
	next.Pomodoros = replaceAt(doc.Pomodoros, idx, p)
	return next
}

func addPomodoro(doc *domain.Document, a domain.AddPomodoro, env Env) *domain.Document {
	id := env.id(a.ID)
	if pomodoroIndex(doc, id) >= 0 {
		return doc
	}
	duration := a.Duration
	if duration <= 0 {
		duration = doc.Settings.FocusMinutes
	}
	if duration <= 0 {
		duration = fallbackFocusMinutes
	}
	p := domain.Pomodoro{
		ID:        id,
		Title:     strings.TrimSpace(a.Title),
		Duration:  duration,
		Status:    domain.PomodoroIdle,
		Links:     slices.Clone(a.Links),
		CreatedAt: env.Now,
	}
	next := clone(doc)
	next.Pomodoros = appendTo(doc.Pomodoros, p)
	return next
}

// updatePomodoro merges a patch. The planned length is fixed once a timer
// has started.
func updatePomodoro(doc *domain.Document, a domain.UpdatePomodoro) *domain.Document {
	idx := pomodoroIndex(doc, a.ID)
	if idx < 0 {
		return doc
	}
	p := doc.Pomodoros[idx]
	if a.Patch.Title != nil {
		p.Title = strings.TrimSpace(*a.Patch.Title)
	}
	if a.Patch.Duration != nil && *a.Patch.Duration > 0 && p.Status == domain.PomodoroIdle {
		p.Duration = *a.Patch.Duration
	}
	if a.Patch.Links != nil {
		p.Links = slices.Clone(*a.Patch.Links)
	}
	if same(p, doc.Pomodoros[idx]) {
		return doc
	}
	return withPomodoro(doc, idx, p)
}

func deletePomodoro(doc *domain.Document, id string) *domain.Document {
	idx := pomodoroIndex(doc, id)
	if idx < 0 {
		return doc
	}
	next := clone(doc)
	next.Pomodoros = removeAt(doc.Pomodoros, idx)
	return next
}

// startPomodoro runs an idle or paused timer and pauses any other running one.
func startPomodoro(doc *domain.Document, id string, env Env) *domain.Document {
	idx := pomodoroIndex(doc, id)
	if idx < 0 {
		return doc
	}
	target := doc.Pomodoros[idx]
	if target.Status != domain.PomodoroIdle && target.Status != domain.PomodoroPaused {
		return doc
	}

	pomodoros := slices.Clone(doc.Pomodoros)
	for i := range pomodoros {
		if i != idx && pomodoros[i].Status == domain.PomodoroRunning {
			pomodoros[i] = paused(pomodoros[i], env.Now)
		}
	}
	accumulated := target.Elapsed
	target.Status = domain.PomodoroRunning
	target.StartedAt = timePtr(env.Now)
	target.AccumulatedSeconds = &accumulated
	target.CompletedAt = nil
	pomodoros[idx] = target

	next := clone(doc)
	next.Pomodoros = pomodoros
	return next
}

func pausePomodoro(doc *domain.Document, id string, env Env) *domain.Document {
	idx := pomodoroIndex(doc, id)
	if idx < 0 || doc.Pomodoros[idx].Status != domain.PomodoroRunning {
		return doc
	}
	return withPomodoro(doc, idx, paused(doc.Pomodoros[idx], env.Now))
}

// paused folds the running anchor into Elapsed.
func paused(p domain.Pomodoro, now time.Time) domain.Pomodoro {
	p.Elapsed = p.EffectiveElapsed(now)
	p.Status = domain.PomodoroPaused
	p.StartedAt = nil
	p.AccumulatedSeconds = nil
	return p
}

func resetPomodoro(doc *domain.Document, id string) *domain.Document {
	idx := pomodoroIndex(doc, id)
	if idx < 0 {
		return doc
	}
	p := doc.Pomodoros[idx]
	if p.Status == domain.PomodoroIdle && p.Elapsed == 0 {
		return doc
	}
	p.Status = domain.PomodoroIdle
	p.Elapsed = 0
	p.StartedAt = nil
	p.AccumulatedSeconds = nil
	p.CompletedAt = nil
	return withPomodoro(doc, idx, p)
}

func completePomodoro(doc *domain.Document, id string, env Env, today string) *domain.Document {
	idx := pomodoroIndex(doc, id)
	if idx < 0 || doc.Pomodoros[idx].Status == domain.PomodoroCompleted {
		return doc
	}
	p, delta := completed(doc.Pomodoros[idx], env.Now)
	next := withPomodoro(doc, idx, p)
	next.DailyStats = addToStat(doc.DailyStats, today, delta)
	return next
}

// completed finishes a timer and returns the stat credit for the time
// actually spent, not the planned length.
func completed(p domain.Pomodoro, now time.Time) (domain.Pomodoro, domain.StatDelta) {
	p.Elapsed = p.EffectiveElapsed(now)
	p.Status = domain.PomodoroCompleted
	p.StartedAt = nil
	p.AccumulatedSeconds = nil
	p.CompletedAt = timePtr(now)
	return p, domain.StatDelta{
		FocusMinutes:       domain.FocusMinutes(p.Elapsed),
		PomodorosCompleted: 1,
	}
}

// tickPomodoros refreshes running timers, or only id when given. A timer
// that reaches its planned length completes and credits today's stat.
func tickPomodoros(doc *domain.Document, id string, env Env, today string) *domain.Document {
	var (
		pomodoros []domain.Pomodoro
		credit    domain.StatDelta
	)
	for i, p := range doc.Pomodoros {
		if p.Status != domain.PomodoroRunning || (id != "" && p.ID != id) {
			continue
		}
		elapsed := p.EffectiveElapsed(env.Now)
		planned := p.PlannedSeconds()
		var updated domain.Pomodoro
		switch {
		case planned > 0 && elapsed >= planned:
			var delta domain.StatDelta
			updated, delta = completed(p, env.Now)
			credit.FocusMinutes += delta.FocusMinutes
			credit.PomodorosCompleted += delta.PomodorosCompleted
		case elapsed != p.Elapsed:
			updated = p
			updated.Elapsed = elapsed
		default:
			continue
		}
		if pomodoros == nil {
			pomodoros = slices.Clone(doc.Pomodoros)
		}
		pomodoros[i] = updated
	}
	if pomodoros == nil {
		return doc
	}
	next := clone(doc)
	next.Pomodoros = pomodoros
	if !credit.Zero() {
		next.DailyStats = addToStat(doc.DailyStats, today, credit)
	}
	return next
}
