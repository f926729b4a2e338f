package domain

// DeletedTaskTitle is shown for weak references whose task no longer exists.
const DeletedTaskTitle = "deleted task"

// TaskByID looks a task up by id. Misses are not errors.
func (d *Document) TaskByID(id string) (*Task, bool) {
	if d == nil || id == "" {
		return nil, false
	}
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i], true
		}
	}
	return nil, false
}

// TaskTitle resolves a weak task reference for display.
func (d *Document) TaskTitle(id string) string {
	if task, ok := d.TaskByID(id); ok {
		return task.Title
	}
	return DeletedTaskTitle
}

// LinkTitle resolves a pomodoro link to "task" or "task / subtask".
func (d *Document) LinkTitle(link TaskLink) string {
	task, ok := d.TaskByID(link.TaskID)
	if !ok {
		return DeletedTaskTitle
	}
	if link.SubtaskID == "" {
		return task.Title
	}
	for _, sub := range task.Subtasks {
		if sub.ID == link.SubtaskID {
			return task.Title + " / " + sub.Title
		}
	}
	return task.Title
}

// PomodoroLinkTitles resolves every link of the pomodoro with the given id.
func (d *Document) PomodoroLinkTitles(id string) []string {
	if d == nil {
		return nil
	}
	for _, p := range d.Pomodoros {
		if p.ID != id {
			continue
		}
		titles := make([]string, 0, len(p.Links))
		for _, link := range p.Links {
			titles = append(titles, d.LinkTitle(link))
		}
		return titles
	}
	return nil
}

// TodayTasks returns the actionable tasks for date: pinned to it, or due on
// or before it. Monitored and done tasks are excluded.
func (d *Document) TodayTasks(date string) []Task {
	if d == nil {
		return nil
	}
	var out []Task
	for _, t := range d.Tasks {
		if t.Status != TaskActive {
			continue
		}
		if t.PinnedToday == date || (t.DueDate != "" && t.DueDate <= date) {
			out = append(out, t)
		}
	}
	return out
}

// DueReminders returns unacknowledged reminders dated on or before date.
func (d *Document) DueReminders(date string) []Reminder {
	if d == nil {
		return nil
	}
	var out []Reminder
	for _, r := range d.Reminders {
		if !r.Acknowledged && r.Date != "" && r.Date <= date {
			out = append(out, r)
		}
	}
	return out
}

// StatFor returns the stat of date, or a zero stat when none was recorded.
func (d *Document) StatFor(date string) DailyStat {
	if d != nil {
		for _, s := range d.DailyStats {
			if s.Date == date {
				return s
			}
		}
	}
	return DailyStat{Date: date}
}
