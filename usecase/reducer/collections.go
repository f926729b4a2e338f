package reducer

import (
	"slices"
	"strings"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/pkg/recurrence"
)

func readingIndex(doc *domain.Document, id string) int {
	if id == "" {
		return -1
	}
	return indexOf(doc.ReadingList, func(r domain.ReadingItem) bool { return r.ID == id })
}

func withReadingItem(doc *domain.Document, idx int, item domain.ReadingItem) *domain.Document {
	next := clone(doc)
	next.ReadingList = replaceAt(doc.ReadingList, idx, item)
	return next
}

func addReadingItem(doc *domain.Document, a domain.AddReadingItem, env Env) *domain.Document {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		title = strings.TrimSpace(a.URL)
	}
	if title == "" {
		return doc
	}
	id := env.id(a.ID)
	if readingIndex(doc, id) >= 0 {
		return doc
	}
	next := clone(doc)
	next.ReadingList = appendTo(doc.ReadingList, domain.ReadingItem{
		ID:       id,
		Title:    title,
		URL:      strings.TrimSpace(a.URL),
		Category: a.Category,
		AddedAt:  env.Now,
	})
	return next
}

func updateReadingItem(doc *domain.Document, a domain.UpdateReadingItem) *domain.Document {
	idx := readingIndex(doc, a.ID)
	if idx < 0 {
		return doc
	}
	item := doc.ReadingList[idx]
	if a.Patch.Title != nil {
		if title := strings.TrimSpace(*a.Patch.Title); title != "" {
			item.Title = title
		}
	}
	if a.Patch.URL != nil {
		item.URL = strings.TrimSpace(*a.Patch.URL)
	}
	if a.Patch.Category != nil {
		item.Category = *a.Patch.Category
	}
	if same(item, doc.ReadingList[idx]) {
		return doc
	}
	return withReadingItem(doc, idx, item)
}

func toggleReadingItem(doc *domain.Document, id string, env Env) *domain.Document {
	idx := readingIndex(doc, id)
	if idx < 0 {
		return doc
	}
	item := doc.ReadingList[idx]
	item.Read = !item.Read
	item.ReadAt = nil
	if item.Read {
		item.ReadAt = timePtr(env.Now)
	}
	return withReadingItem(doc, idx, item)
}

func deleteReadingItem(doc *domain.Document, id string) *domain.Document {
	idx := readingIndex(doc, id)
	if idx < 0 {
		return doc
	}
	next := clone(doc)
	next.ReadingList = removeAt(doc.ReadingList, idx)
	return next
}

func templateIndex(doc *domain.Document, id string) int {
	if id == "" {
		return -1
	}
	return indexOf(doc.Templates, func(t domain.TaskTemplate) bool { return t.ID == id })
}

func addTemplate(doc *domain.Document, a domain.AddTemplate, env Env) *domain.Document {
	tpl := a.Template
	tpl.Title = strings.TrimSpace(tpl.Title)
	if tpl.Title == "" {
		return doc
	}
	tpl.ID = env.id(tpl.ID)
	if templateIndex(doc, tpl.ID) >= 0 {
		return doc
	}
	if tpl.Name = strings.TrimSpace(tpl.Name); tpl.Name == "" {
		tpl.Name = tpl.Title
	}
	tpl.Subtasks = slices.Clone(tpl.Subtasks)
	next := clone(doc)
	next.Templates = appendTo(doc.Templates, tpl)
	return next
}

func deleteTemplate(doc *domain.Document, id string) *domain.Document {
	idx := templateIndex(doc, id)
	if idx < 0 {
		return doc
	}
	next := clone(doc)
	next.Templates = removeAt(doc.Templates, idx)
	return next
}

// applyTemplate instantiates a template through the regular add path so the
// new task gets the same defaults as one added by hand.
func applyTemplate(doc *domain.Document, a domain.ApplyTemplate, env Env, today string) *domain.Document {
	idx := templateIndex(doc, a.TemplateID)
	if idx < 0 {
		return doc
	}
	tpl := doc.Templates[idx]
	rec := tpl.Recurrence
	if rec == "" {
		rec = recurrence.None
	}
	return addTask(doc, domain.AddTask{
		ID:         a.TaskID,
		Title:      tpl.Title,
		Priority:   tpl.Priority,
		Quadrant:   tpl.Quadrant,
		DueDate:    a.DueDate,
		Category:   tpl.Category,
		Energy:     tpl.Energy,
		Recurrence: rec,
		Subtasks:   tpl.Subtasks,
	}, env, today)
}

func updateSettings(doc *domain.Document, p domain.TimerSettingsPatch) *domain.Document {
	s := doc.Settings
	if p.FocusMinutes != nil && *p.FocusMinutes > 0 {
		s.FocusMinutes = *p.FocusMinutes
	}
	if p.ShortBreakMinutes != nil && *p.ShortBreakMinutes > 0 {
		s.ShortBreakMinutes = *p.ShortBreakMinutes
	}
	if p.LongBreakMinutes != nil && *p.LongBreakMinutes > 0 {
		s.LongBreakMinutes = *p.LongBreakMinutes
	}
	if p.AutoStartBreaks != nil {
		s.AutoStartBreaks = *p.AutoStartBreaks
	}
	if s == doc.Settings {
		return doc
	}
	next := clone(doc)
	next.Settings = s
	return next
}

func updatePreferences(doc *domain.Document, p domain.PreferencesPatch) *domain.Document {
	prefs := doc.Preferences
	if p.Theme != nil {
		prefs.Theme = *p.Theme
	}
	if p.DefaultView != nil {
		prefs.DefaultView = *p.DefaultView
	}
	if p.WeekStartsOn != nil && *p.WeekStartsOn >= 0 && *p.WeekStartsOn <= 6 {
		prefs.WeekStartsOn = *p.WeekStartsOn
	}
	if p.ShowCompleted != nil {
		prefs.ShowCompleted = *p.ShowCompleted
	}
	if p.DailyGoal != nil && *p.DailyGoal >= 0 {
		prefs.DailyGoal = *p.DailyGoal
	}
	if prefs == doc.Preferences {
		return doc
	}
	next := clone(doc)
	next.Preferences = prefs
	return next
}
