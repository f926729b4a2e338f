package domain

import (
	"math"
	"time"
)

// PomodoroStatus is the state of a focus timer.
type PomodoroStatus string

const (
	PomodoroIdle      PomodoroStatus = "idle"
	PomodoroRunning   PomodoroStatus = "running"
	PomodoroPaused    PomodoroStatus = "paused"
	PomodoroCompleted PomodoroStatus = "completed"
)

// TaskLink is a weak reference from a pomodoro to a task or one of its subtasks.
type TaskLink struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId,omitempty"`
}

// Pomodoro is a focus timer. Duration is the planned length in minutes and
// Elapsed the measured seconds.
type Pomodoro struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Duration           int            `json:"duration"`
	Elapsed            int            `json:"elapsed"`
	Status             PomodoroStatus `json:"status"`
	StartedAt          *time.Time     `json:"startedAt,omitempty"`
	AccumulatedSeconds *int           `json:"accumulatedSeconds,omitempty"`
	Links              []TaskLink     `json:"links,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
}

// PlannedSeconds is the target length of the timer.
func (p *Pomodoro) PlannedSeconds() int {
	if p == nil || p.Duration <= 0 {
		return 0
	}
	return p.Duration * 60
}

// EffectiveElapsed returns the elapsed seconds at now, reading the running
// anchor when the timer is running. The result is clamped to [0, planned].
func (p *Pomodoro) EffectiveElapsed(now time.Time) int {
	if p == nil {
		return 0
	}
	elapsed := p.Elapsed
	if p.Status == PomodoroRunning && p.StartedAt != nil {
		base := elapsed
		if p.AccumulatedSeconds != nil {
			base = *p.AccumulatedSeconds
		}
		delta := int(now.Sub(*p.StartedAt) / time.Second)
		if delta < 0 {
			delta = 0
		}
		elapsed = base + delta
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if planned := p.PlannedSeconds(); planned > 0 && elapsed > planned {
		elapsed = planned
	}
	return elapsed
}

// FocusMinutes converts elapsed seconds to whole minutes, rounding half up.
func FocusMinutes(elapsedSeconds int) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(elapsedSeconds) / 60))
}

// PomodoroPatch carries the fields of an UPDATE_POMODORO action.
type PomodoroPatch struct {
	Title    *string     `json:"title,omitempty"`
	Duration *int        `json:"duration,omitempty"`
	Links    *[]TaskLink `json:"links,omitempty"`
}
