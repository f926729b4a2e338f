package reducer

import (
	"strings"

	"github.com/fastygo/focusboard/domain"
)

// editSubtask locates a subtask and hands a detached copy of its task to
// edit. The edit reports whether it changed anything.
func editSubtask(doc *domain.Document, taskID, subtaskID string, edit func(task *domain.Task, idx int) bool) *domain.Document {
	ti := taskIndex(doc, taskID)
	if ti < 0 || subtaskID == "" {
		return doc
	}
	si := indexOf(doc.Tasks[ti].Subtasks, func(s domain.Subtask) bool { return s.ID == subtaskID })
	if si < 0 {
		return doc
	}
	task := copyTask(doc.Tasks[ti])
	if !edit(&task, si) {
		return doc
	}
	return withTask(doc, ti, task)
}

func addSubtask(doc *domain.Document, a domain.AddSubtask, env Env) *domain.Document {
	title := strings.TrimSpace(a.Title)
	ti := taskIndex(doc, a.TaskID)
	if ti < 0 || title == "" {
		return doc
	}
	id := env.id(a.ID)
	if indexOf(doc.Tasks[ti].Subtasks, func(s domain.Subtask) bool { return s.ID == id }) >= 0 {
		return doc
	}
	task := doc.Tasks[ti]
	task.Subtasks = appendTo(task.Subtasks, domain.Subtask{ID: id, Title: title})
	return withTask(doc, ti, task)
}

func updateSubtask(doc *domain.Document, a domain.UpdateSubtask) *domain.Document {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return doc
	}
	return editSubtask(doc, a.TaskID, a.SubtaskID, func(task *domain.Task, i int) bool {
		if task.Subtasks[i].Title == title {
			return false
		}
		task.Subtasks[i].Title = title
		return true
	})
}

func toggleSubtask(doc *domain.Document, a domain.ToggleSubtask) *domain.Document {
	return editSubtask(doc, a.TaskID, a.SubtaskID, func(task *domain.Task, i int) bool {
		task.Subtasks[i].Done = !task.Subtasks[i].Done
		return true
	})
}

func deleteSubtask(doc *domain.Document, a domain.DeleteSubtask) *domain.Document {
	return editSubtask(doc, a.TaskID, a.SubtaskID, func(task *domain.Task, i int) bool {
		task.Subtasks = removeAt(task.Subtasks, i)
		return true
	})
}
