package domain

// DailyStat aggregates the activity of one calendar day.
type DailyStat struct {
	Date               string `json:"date"`
	TasksCompleted     int    `json:"tasksCompleted"`
	FocusMinutes       int    `json:"focusMinutes"`
	PomodorosCompleted int    `json:"pomodorosCompleted"`
}

// Active reports whether anything was accomplished on the day.
func (s DailyStat) Active() bool {
	return s.TasksCompleted > 0 || s.PomodorosCompleted > 0
}

// StatDelta is a partial update merged into a day's stat.
type StatDelta struct {
	TasksCompleted     int `json:"tasksCompleted,omitempty"`
	FocusMinutes       int `json:"focusMinutes,omitempty"`
	PomodorosCompleted int `json:"pomodorosCompleted,omitempty"`
}

// Zero reports whether the delta changes nothing.
func (d StatDelta) Zero() bool {
	return d.TasksCompleted == 0 && d.FocusMinutes == 0 && d.PomodorosCompleted == 0
}
