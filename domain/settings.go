package domain

// TimerSettings configures pomodoro lengths in minutes.
type TimerSettings struct {
	FocusMinutes      int  `json:"focusMinutes"`
	ShortBreakMinutes int  `json:"shortBreakMinutes"`
	LongBreakMinutes  int  `json:"longBreakMinutes"`
	AutoStartBreaks   bool `json:"autoStartBreaks"`
}

// DefaultTimerSettings returns the classic 25/5/15 cadence.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
	}
}

// Preferences holds presentation choices persisted with the document.
type Preferences struct {
	Theme         string `json:"theme,omitempty"`
	DefaultView   string `json:"defaultView,omitempty"`
	WeekStartsOn  int    `json:"weekStartsOn"`
	ShowCompleted bool   `json:"showCompleted"`
	DailyGoal     int    `json:"dailyGoal"`
}

// TimerSettingsPatch carries the fields of an UPDATE_SETTINGS action.
type TimerSettingsPatch struct {
	FocusMinutes      *int  `json:"focusMinutes,omitempty"`
	ShortBreakMinutes *int  `json:"shortBreakMinutes,omitempty"`
	LongBreakMinutes  *int  `json:"longBreakMinutes,omitempty"`
	AutoStartBreaks   *bool `json:"autoStartBreaks,omitempty"`
}

// PreferencesPatch carries the fields of an UPDATE_PREFERENCES action.
type PreferencesPatch struct {
	Theme         *string `json:"theme,omitempty"`
	DefaultView   *string `json:"defaultView,omitempty"`
	WeekStartsOn  *int    `json:"weekStartsOn,omitempty"`
	ShowCompleted *bool   `json:"showCompleted,omitempty"`
	DailyGoal     *int    `json:"dailyGoal,omitempty"`
}
