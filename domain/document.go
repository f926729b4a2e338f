package domain

// Document is the root aggregate holding every list the planner manages.
// Published documents are treated as immutable values: mutations produce a
// new Document and leave the previous one untouched.
type Document struct {
	Tasks         []Task         `json:"tasks"`
	Pomodoros     []Pomodoro     `json:"pomodoros"`
	DailyStats    []DailyStat    `json:"dailyStats"`
	Reminders     []Reminder     `json:"reminders"`
	ReadingList   []ReadingItem  `json:"readingList"`
	Templates     []TaskTemplate `json:"templates"`
	Settings      TimerSettings  `json:"settings"`
	Preferences   Preferences    `json:"preferences"`
	CurrentStreak int            `json:"currentStreak"`
}

// NewDocument returns the empty document a session starts from before the
// first load completes.
func NewDocument() *Document {
	return &Document{
		Tasks:       []Task{},
		Pomodoros:   []Pomodoro{},
		DailyStats:  []DailyStat{},
		Reminders:   []Reminder{},
		ReadingList: []ReadingItem{},
		Templates:   []TaskTemplate{},
		Settings:    DefaultTimerSettings(),
		Preferences: Preferences{ShowCompleted: true},
	}
}

// Normalized returns doc with nil lists and zero timer settings filled, leaving
// doc itself untouched. A document needing no changes is returned as is.
func (d *Document) Normalized() *Document {
	if d == nil {
		return NewDocument()
	}
	if !d.needsNormalize() {
		return d
	}
	next := *d
	if d.Tasks != nil {
		next.Tasks = append([]Task(nil), d.Tasks...)
	}
	return next.Normalize()
}

func (d *Document) needsNormalize() bool {
	if d.Tasks == nil || d.Pomodoros == nil || d.DailyStats == nil || d.Reminders == nil ||
		d.ReadingList == nil || d.Templates == nil || d.Settings.FocusMinutes <= 0 {
		return true
	}
	for i := range d.Tasks {
		if d.Tasks[i].Subtasks == nil {
			return true
		}
	}
	return false
}

// Normalize fills nil lists and zero timer settings so documents loaded from
// older payloads behave like fresh ones.
func (d *Document) Normalize() *Document {
	if d == nil {
		return NewDocument()
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	for i := range d.Tasks {
		if d.Tasks[i].Subtasks == nil {
			d.Tasks[i].Subtasks = []Subtask{}
		}
	}
	if d.Pomodoros == nil {
		d.Pomodoros = []Pomodoro{}
	}
	if d.DailyStats == nil {
		d.DailyStats = []DailyStat{}
	}
	if d.Reminders == nil {
		d.Reminders = []Reminder{}
	}
	if d.ReadingList == nil {
		d.ReadingList = []ReadingItem{}
	}
	if d.Templates == nil {
		d.Templates = []TaskTemplate{}
	}
	if d.Settings.FocusMinutes <= 0 {
		d.Settings = DefaultTimerSettings()
	}
	return d
}
