package reducer

import (
	"slices"
	"strings"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/pkg/recurrence"
)

func taskIndex(doc *domain.Document, id string) int {
	if id == "" {
		return -1
	}
	return indexOf(doc.Tasks, func(t domain.Task) bool { return t.ID == id })
}

func withTask(doc *domain.Document, idx int, task domain.Task) *domain.Document {
	next := clone(doc)
	next.Tasks = replaceAt(doc.Tasks, idx, task)
	return next
}

// copyTask detaches the subtask list so the copy can be edited safely.
func copyTask(t domain.Task) domain.Task {
	t.Subtasks = slices.Clone(t.Subtasks)
	if t.Subtasks == nil {
		t.Subtasks = []domain.Subtask{}
	}
	return t
}

func addTask(doc *domain.Document, a domain.AddTask, env Env, today string) *domain.Document {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return doc
	}
	id := env.id(a.ID)
	if taskIndex(doc, id) >= 0 {
		return doc
	}

	task := domain.Task{
		ID:                   id,
		Title:                title,
		Notes:                a.Notes,
		Status:               domain.TaskActive,
		Priority:             a.Priority,
		Quadrant:             a.Quadrant,
		DueDate:              a.DueDate,
		Category:             a.Category,
		Energy:               a.Energy,
		Recurrence:           a.Recurrence,
		RecurrenceDayOfMonth: a.RecurrenceDayOfMonth,
		RecurrenceStartMonth: a.RecurrenceStartMonth,
		Subtasks:             make([]domain.Subtask, 0, len(a.Subtasks)),
		CreatedAt:            env.Now,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.Quadrant == "" {
		task.Quadrant = domain.QuadrantUnassigned
	}
	if task.Recurrence == "" {
		task.Recurrence = recurrence.None
	}
	if a.PinToday {
		task.PinnedToday = today
	}
	for _, sub := range a.Subtasks {
		if sub = strings.TrimSpace(sub); sub != "" {
			task.Subtasks = append(task.Subtasks, domain.Subtask{ID: env.id(""), Title: sub})
		}
	}

	next := clone(doc)
	next.Tasks = appendTo(doc.Tasks, task)
	return next
}

func updateTask(doc *domain.Document, a domain.UpdateTask) *domain.Document {
	idx := taskIndex(doc, a.ID)
	if idx < 0 || a.Patch.Empty() {
		return doc
	}
	task := copyTask(doc.Tasks[idx])
	p := a.Patch
	if p.Title != nil {
		if title := strings.TrimSpace(*p.Title); title != "" {
			task.Title = title
		}
	}
	if p.Notes != nil {
		task.Notes = *p.Notes
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.Quadrant != nil {
		task.Quadrant = *p.Quadrant
	}
	if p.DueDate != nil {
		task.DueDate = *p.DueDate
	}
	if p.Category != nil {
		task.Category = *p.Category
	}
	if p.Energy != nil {
		task.Energy = *p.Energy
	}
	if p.Recurrence != nil {
		task.Recurrence = *p.Recurrence
	}
	if p.RecurrenceDayOfMonth != nil {
		task.RecurrenceDayOfMonth = *p.RecurrenceDayOfMonth
	}
	if p.RecurrenceStartMonth != nil {
		task.RecurrenceStartMonth = *p.RecurrenceStartMonth
	}
	if same(task, copyTask(doc.Tasks[idx])) {
		return doc
	}
	return withTask(doc, idx, task)
}

func deleteTask(doc *domain.Document, id string) *domain.Document {
	idx := taskIndex(doc, id)
	if idx < 0 {
		return doc
	}
	next := clone(doc)
	next.Tasks = removeAt(doc.Tasks, idx)
	return next
}

// toggleTask completes an open task or reopens a done one. Completion
// cascades to subtasks, credits today's stat and may spawn the next
// occurrence of a recurring task.
func toggleTask(doc *domain.Document, id string, env Env, today string) *domain.Document {
	idx := taskIndex(doc, id)
	if idx < 0 {
		return doc
	}
	task := copyTask(doc.Tasks[idx])
	next := clone(doc)
	next.Tasks = slices.Clone(doc.Tasks)

	if task.Status == domain.TaskDone {
		task.Status = domain.TaskActive
		task.CompletedAt = nil
		task.StatusChangedAt = timePtr(env.Now)
		setSubtasks(&task, false)
		next.Tasks[idx] = task
		next.DailyStats = addToStat(doc.DailyStats, today, domain.StatDelta{TasksCompleted: -1})
		return next
	}

	task.Status = domain.TaskDone
	task.CompletedAt = timePtr(env.Now)
	task.StatusChangedAt = timePtr(env.Now)
	task.PinnedToday = ""
	setSubtasks(&task, true)
	next.Tasks[idx] = task
	next.DailyStats = addToStat(doc.DailyStats, today, domain.StatDelta{TasksCompleted: 1})

	if spawned, ok := spawnOccurrence(next.Tasks, task, env, today); ok {
		next.Tasks = append(next.Tasks, spawned)
	}
	return next
}

func setSubtasks(task *domain.Task, done bool) {
	for i := range task.Subtasks {
		task.Subtasks[i].Done = done
	}
}

// spawnOccurrence builds the next occurrence of a just-completed recurring
// task. It refuses when another open task already belongs to the same
// recurrence chain, which keeps rapid toggling from multiplying occurrences.
func spawnOccurrence(tasks []domain.Task, done domain.Task, env Env, today string) (domain.Task, bool) {
	if !done.Recurs() {
		return domain.Task{}, false
	}

	root := chainRoot(tasks, done)
	for _, t := range tasks {
		if t.ID == done.ID || t.Status == domain.TaskDone {
			continue
		}
		if chainRoot(tasks, t) == root {
			return domain.Task{}, false
		}
	}

	from := today
	if done.DueDate != "" {
		from = done.DueDate
	}
	nextDate, ok := recurrence.NextDate(done.Recurrence, from, done.RecurrenceOptions())
	if !ok {
		return domain.Task{}, false
	}

	subtasks := make([]domain.Subtask, 0, len(done.Subtasks))
	for _, sub := range done.Subtasks {
		subtasks = append(subtasks, domain.Subtask{ID: env.id(""), Title: sub.Title})
	}

	return domain.Task{
		ID:                   env.id(""),
		Title:                done.Title,
		Notes:                done.Notes,
		Status:               domain.TaskActive,
		Priority:             done.Priority,
		Quadrant:             done.Quadrant,
		DueDate:              nextDate,
		Category:             done.Category,
		Energy:               done.Energy,
		Recurrence:           done.Recurrence,
		RecurrenceDayOfMonth: done.RecurrenceDayOfMonth,
		RecurrenceStartMonth: done.RecurrenceStartMonth,
		RecurrenceParentID:   done.ID,
		RecurrenceNextDate:   nextDate,
		Subtasks:             subtasks,
		CreatedAt:            env.Now,
	}, true
}

// chainRoot follows recurrenceParentId links upwards. A parent that no longer
// exists still names the chain, so siblings of a deleted task stay grouped.
func chainRoot(tasks []domain.Task, t domain.Task) string {
	root := t.ID
	parent := t.RecurrenceParentID
	seen := map[string]struct{}{t.ID: {}}
	for parent != "" {
		if _, loop := seen[parent]; loop {
			break
		}
		seen[parent] = struct{}{}
		root = parent
		idx := indexOf(tasks, func(c domain.Task) bool { return c.ID == parent })
		if idx < 0 {
			break
		}
		parent = tasks[idx].RecurrenceParentID
	}
	return root
}

func toggleMonitor(doc *domain.Document, id string, env Env) *domain.Document {
	idx := taskIndex(doc, id)
	if idx < 0 {
		return doc
	}
	task := copyTask(doc.Tasks[idx])
	switch task.Status {
	case domain.TaskActive:
		task.Status = domain.TaskMonitored
		task.PinnedToday = ""
	case domain.TaskMonitored:
		task.Status = domain.TaskActive
	default:
		return doc
	}
	task.StatusChangedAt = timePtr(env.Now)
	return withTask(doc, idx, task)
}

func pinToday(doc *domain.Document, id, today string) *domain.Document {
	idx := taskIndex(doc, id)
	if idx < 0 {
		return doc
	}
	task := doc.Tasks[idx]
	if task.Status != domain.TaskActive || task.PinnedToday == today {
		return doc
	}
	task = copyTask(task)
	task.PinnedToday = today
	return withTask(doc, idx, task)
}

func unpinToday(doc *domain.Document, id string) *domain.Document {
	idx := taskIndex(doc, id)
	if idx < 0 || doc.Tasks[idx].PinnedToday == "" {
		return doc
	}
	task := copyTask(doc.Tasks[idx])
	task.PinnedToday = ""
	return withTask(doc, idx, task)
}

// reorderTasks moves the listed tasks to the front in list order. Unknown and
// repeated ids are ignored; unlisted tasks keep their relative order.
func reorderTasks(doc *domain.Document, ids []string) *domain.Document {
	if len(ids) == 0 {
		return doc
	}
	placed := make(map[string]struct{}, len(ids))
	ordered := make([]domain.Task, 0, len(doc.Tasks))
	for _, id := range ids {
		if _, dup := placed[id]; dup {
			continue
		}
		if idx := taskIndex(doc, id); idx >= 0 {
			ordered = append(ordered, doc.Tasks[idx])
			placed[id] = struct{}{}
		}
	}
	for _, t := range doc.Tasks {
		if _, ok := placed[t.ID]; !ok {
			ordered = append(ordered, t)
		}
	}

	changed := false
	for i := range ordered {
		if ordered[i].ID != doc.Tasks[i].ID {
			changed = true
			break
		}
	}
	if !changed {
		return doc
	}
	next := clone(doc)
	next.Tasks = ordered
	return next
}

func clearCompleted(doc *domain.Document) *domain.Document {
	kept := make([]domain.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if t.Status != domain.TaskDone {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(doc.Tasks) {
		return doc
	}
	next := clone(doc)
	next.Tasks = kept
	return next
}
