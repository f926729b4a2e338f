package domain

import (
	"encoding/json"
	"fmt"

	"github.com/fastygo/focusboard/pkg/recurrence"
)

// ActionType names a document mutation.
type ActionType string

const (
	ActionLoadDocument      ActionType = "LOAD_DOCUMENT"
	ActionReplaceDocument   ActionType = "REPLACE_DOCUMENT"
	ActionAddTask           ActionType = "ADD_TASK"
	ActionUpdateTask        ActionType = "UPDATE_TASK"
	ActionDeleteTask        ActionType = "DELETE_TASK"
	ActionToggleTask        ActionType = "TOGGLE_TASK"
	ActionToggleMonitor     ActionType = "TOGGLE_MONITOR"
	ActionPinToday          ActionType = "PIN_TODAY"
	ActionUnpinToday        ActionType = "UNPIN_TODAY"
	ActionReorderTasks      ActionType = "REORDER_TASKS"
	ActionClearCompleted    ActionType = "CLEAR_COMPLETED"
	ActionAddSubtask        ActionType = "ADD_SUBTASK"
	ActionUpdateSubtask     ActionType = "UPDATE_SUBTASK"
	ActionToggleSubtask     ActionType = "TOGGLE_SUBTASK"
	ActionDeleteSubtask     ActionType = "DELETE_SUBTASK"
	ActionAddPomodoro       ActionType = "ADD_POMODORO"
	ActionUpdatePomodoro    ActionType = "UPDATE_POMODORO"
	ActionDeletePomodoro    ActionType = "DELETE_POMODORO"
	ActionStartPomodoro     ActionType = "START_POMODORO"
	ActionPausePomodoro     ActionType = "PAUSE_POMODORO"
	ActionResetPomodoro     ActionType = "RESET_POMODORO"
	ActionCompletePomodoro  ActionType = "COMPLETE_POMODORO"
	ActionTickPomodoro      ActionType = "TICK_POMODORO"
	ActionAddReminder       ActionType = "ADD_REMINDER"
	ActionUpdateReminder    ActionType = "UPDATE_REMINDER"
	ActionDeleteReminder    ActionType = "DELETE_REMINDER"
	ActionAckReminder       ActionType = "ACK_REMINDER"
	ActionAddReadingItem    ActionType = "ADD_READING_ITEM"
	ActionUpdateReadingItem ActionType = "UPDATE_READING_ITEM"
	ActionToggleReadingItem ActionType = "TOGGLE_READING_ITEM"
	ActionDeleteReadingItem ActionType = "DELETE_READING_ITEM"
	ActionAddTemplate       ActionType = "ADD_TEMPLATE"
	ActionDeleteTemplate    ActionType = "DELETE_TEMPLATE"
	ActionApplyTemplate     ActionType = "APPLY_TEMPLATE"
	ActionUpdateSettings    ActionType = "UPDATE_SETTINGS"
	ActionUpdatePreferences ActionType = "UPDATE_PREFERENCES"
	ActionUpdateDailyStat   ActionType = "UPDATE_DAILY_STAT"
	ActionUpdateStreak      ActionType = "UPDATE_STREAK"
	ActionUndo              ActionType = "UNDO"
	ActionRedo              ActionType = "REDO"
)

// Action is a closed set of document mutations. The reducer switches on the
// concrete type; anything it does not recognize is a no-op.
type Action interface {
	Type() ActionType
}

type LoadDocument struct {
	Document *Document `json:"document"`
}

type ReplaceDocument struct {
	Document *Document `json:"document"`
}

// AddTask creates a task. An empty ID is generated by the reducer environment.
type AddTask struct {
	ID                   string               `json:"id,omitempty"`
	Title                string               `json:"title"`
	Notes                string               `json:"notes,omitempty"`
	Priority             Priority             `json:"priority,omitempty"`
	Quadrant             Quadrant             `json:"quadrant,omitempty"`
	DueDate              string               `json:"dueDate,omitempty"`
	Category             string               `json:"category,omitempty"`
	Energy               string               `json:"energy,omitempty"`
	Recurrence           recurrence.Frequency `json:"recurrence,omitempty"`
	RecurrenceDayOfMonth int                  `json:"recurrenceDayOfMonth,omitempty"`
	RecurrenceStartMonth int                  `json:"recurrenceStartMonth,omitempty"`
	Subtasks             []string             `json:"subtasks,omitempty"`
	PinToday             bool                 `json:"pinToday,omitempty"`
}

type UpdateTask struct {
	ID    string    `json:"id"`
	Patch TaskPatch `json:"patch"`
}

type DeleteTask struct {
	ID string `json:"id"`
}

type ToggleTask struct {
	ID string `json:"id"`
}

type ToggleMonitor struct {
	ID string `json:"id"`
}

type PinToday struct {
	ID string `json:"id"`
}

type UnpinToday struct {
	ID string `json:"id"`
}

// ReorderTasks moves the listed tasks to the front in the given order.
type ReorderTasks struct {
	IDs []string `json:"ids"`
}

type ClearCompleted struct{}

type AddSubtask struct {
	TaskID string `json:"taskId"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
}

type UpdateSubtask struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
	Title     string `json:"title"`
}

type ToggleSubtask struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
}

type DeleteSubtask struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
}

// AddPomodoro creates an idle timer. Zero Duration takes the focus length
// from the timer settings.
type AddPomodoro struct {
	ID       string     `json:"id,omitempty"`
	Title    string     `json:"title"`
	Duration int        `json:"duration,omitempty"`
	Links    []TaskLink `json:"links,omitempty"`
}

type UpdatePomodoro struct {
	ID    string        `json:"id"`
	Patch PomodoroPatch `json:"patch"`
}

type DeletePomodoro struct {
	ID string `json:"id"`
}

type StartPomodoro struct {
	ID string `json:"id"`
}

type PausePomodoro struct {
	ID string `json:"id"`
}

type ResetPomodoro struct {
	ID string `json:"id"`
}

type CompletePomodoro struct {
	ID string `json:"id"`
}

// TickPomodoro refreshes the elapsed time of running timers. An empty ID
// ticks every running timer.
type TickPomodoro struct {
	ID string `json:"id,omitempty"`
}

type AddReminder struct {
	ID         string               `json:"id,omitempty"`
	Title      string               `json:"title"`
	Date       string               `json:"date"`
	Time       string               `json:"time,omitempty"`
	Recurrence recurrence.Frequency `json:"recurrence,omitempty"`
	Category   string               `json:"category,omitempty"`
}

type UpdateReminder struct {
	ID    string        `json:"id"`
	Patch ReminderPatch `json:"patch"`
}

type DeleteReminder struct {
	ID string `json:"id"`
}

type AckReminder struct {
	ID string `json:"id"`
}

type AddReadingItem struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category,omitempty"`
}

type UpdateReadingItem struct {
	ID    string           `json:"id"`
	Patch ReadingItemPatch `json:"patch"`
}

type ToggleReadingItem struct {
	ID string `json:"id"`
}

type DeleteReadingItem struct {
	ID string `json:"id"`
}

type AddTemplate struct {
	Template TaskTemplate `json:"template"`
}

type DeleteTemplate struct {
	ID string `json:"id"`
}

// ApplyTemplate instantiates a template as a new active task.
type ApplyTemplate struct {
	TemplateID string `json:"templateId"`
	TaskID     string `json:"taskId,omitempty"`
	DueDate    string `json:"dueDate,omitempty"`
}

type UpdateSettings struct {
	Patch TimerSettingsPatch `json:"patch"`
}

type UpdatePreferences struct {
	Patch PreferencesPatch `json:"patch"`
}

// UpdateDailyStat merges a delta into the stat of Date, or today when empty.
type UpdateDailyStat struct {
	Date  string    `json:"date,omitempty"`
	Delta StatDelta `json:"delta"`
}

type UpdateStreak struct{}

type Undo struct{}

type Redo struct{}

// UnknownAction stands in for action types this build does not know.
type UnknownAction struct {
	Kind ActionType `json:"type"`
}

func (LoadDocument) Type() ActionType      { return ActionLoadDocument }
func (ReplaceDocument) Type() ActionType   { return ActionReplaceDocument }
func (AddTask) Type() ActionType           { return ActionAddTask }
func (UpdateTask) Type() ActionType        { return ActionUpdateTask }
func (DeleteTask) Type() ActionType        { return ActionDeleteTask }
func (ToggleTask) Type() ActionType        { return ActionToggleTask }
func (ToggleMonitor) Type() ActionType     { return ActionToggleMonitor }
func (PinToday) Type() ActionType          { return ActionPinToday }
func (UnpinToday) Type() ActionType        { return ActionUnpinToday }
func (ReorderTasks) Type() ActionType      { return ActionReorderTasks }
func (ClearCompleted) Type() ActionType    { return ActionClearCompleted }
func (AddSubtask) Type() ActionType        { return ActionAddSubtask }
func (UpdateSubtask) Type() ActionType     { return ActionUpdateSubtask }
func (ToggleSubtask) Type() ActionType     { return ActionToggleSubtask }
func (DeleteSubtask) Type() ActionType     { return ActionDeleteSubtask }
func (AddPomodoro) Type() ActionType       { return ActionAddPomodoro }
func (UpdatePomodoro) Type() ActionType    { return ActionUpdatePomodoro }
func (DeletePomodoro) Type() ActionType    { return ActionDeletePomodoro }
func (StartPomodoro) Type() ActionType     { return ActionStartPomodoro }
func (PausePomodoro) Type() ActionType     { return ActionPausePomodoro }
func (ResetPomodoro) Type() ActionType     { return ActionResetPomodoro }
func (CompletePomodoro) Type() ActionType  { return ActionCompletePomodoro }
func (TickPomodoro) Type() ActionType      { return ActionTickPomodoro }
func (AddReminder) Type() ActionType       { return ActionAddReminder }
func (UpdateReminder) Type() ActionType    { return ActionUpdateReminder }
func (DeleteReminder) Type() ActionType    { return ActionDeleteReminder }
func (AckReminder) Type() ActionType       { return ActionAckReminder }
func (AddReadingItem) Type() ActionType    { return ActionAddReadingItem }
func (UpdateReadingItem) Type() ActionType { return ActionUpdateReadingItem }
func (ToggleReadingItem) Type() ActionType { return ActionToggleReadingItem }
func (DeleteReadingItem) Type() ActionType { return ActionDeleteReadingItem }
func (AddTemplate) Type() ActionType       { return ActionAddTemplate }
func (DeleteTemplate) Type() ActionType    { return ActionDeleteTemplate }
func (ApplyTemplate) Type() ActionType     { return ActionApplyTemplate }
func (UpdateSettings) Type() ActionType    { return ActionUpdateSettings }
func (UpdatePreferences) Type() ActionType { return ActionUpdatePreferences }
func (UpdateDailyStat) Type() ActionType   { return ActionUpdateDailyStat }
func (UpdateStreak) Type() ActionType      { return ActionUpdateStreak }
func (Undo) Type() ActionType              { return ActionUndo }
func (Redo) Type() ActionType              { return ActionRedo }
func (a UnknownAction) Type() ActionType   { return a.Kind }

// ActionEnvelope is the wire shape of an action: {"type": ..., "payload": ...}.
type ActionEnvelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var decoders = map[ActionType]func(json.RawMessage) (Action, error){
	ActionLoadDocument:      decodeAs[LoadDocument],
	ActionReplaceDocument:   decodeAs[ReplaceDocument],
	ActionAddTask:           decodeAs[AddTask],
	ActionUpdateTask:        decodeAs[UpdateTask],
	ActionDeleteTask:        decodeAs[DeleteTask],
	ActionToggleTask:        decodeAs[ToggleTask],
	ActionToggleMonitor:     decodeAs[ToggleMonitor],
	ActionPinToday:          decodeAs[PinToday],
	ActionUnpinToday:        decodeAs[UnpinToday],
	ActionReorderTasks:      decodeAs[ReorderTasks],
	ActionClearCompleted:    decodeAs[ClearCompleted],
	ActionAddSubtask:        decodeAs[AddSubtask],
	ActionUpdateSubtask:     decodeAs[UpdateSubtask],
	ActionToggleSubtask:     decodeAs[ToggleSubtask],
	ActionDeleteSubtask:     decodeAs[DeleteSubtask],
	ActionAddPomodoro:       decodeAs[AddPomodoro],
	ActionUpdatePomodoro:    decodeAs[UpdatePomodoro],
	ActionDeletePomodoro:    decodeAs[DeletePomodoro],
	ActionStartPomodoro:     decodeAs[StartPomodoro],
	ActionPausePomodoro:     decodeAs[PausePomodoro],
	ActionResetPomodoro:     decodeAs[ResetPomodoro],
	ActionCompletePomodoro:  decodeAs[CompletePomodoro],
	ActionTickPomodoro:      decodeAs[TickPomodoro],
	ActionAddReminder:       decodeAs[AddReminder],
	ActionUpdateReminder:    decodeAs[UpdateReminder],
	ActionDeleteReminder:    decodeAs[DeleteReminder],
	ActionAckReminder:       decodeAs[AckReminder],
	ActionAddReadingItem:    decodeAs[AddReadingItem],
	ActionUpdateReadingItem: decodeAs[UpdateReadingItem],
	ActionToggleReadingItem: decodeAs[ToggleReadingItem],
	ActionDeleteReadingItem: decodeAs[DeleteReadingItem],
	ActionAddTemplate:       decodeAs[AddTemplate],
	ActionDeleteTemplate:    decodeAs[DeleteTemplate],
	ActionApplyTemplate:     decodeAs[ApplyTemplate],
	ActionUpdateSettings:    decodeAs[UpdateSettings],
	ActionUpdatePreferences: decodeAs[UpdatePreferences],
	ActionUpdateDailyStat:   decodeAs[UpdateDailyStat],
	ActionUpdateStreak:      decodeAs[UpdateStreak],
	ActionUndo:              decodeAs[Undo],
	ActionRedo:              decodeAs[Redo],
}

// Decode turns the envelope into a typed action. Unregistered types decode
// to UnknownAction so they flow through the reducer as no-ops.
func (e ActionEnvelope) Decode() (Action, error) {
	if e.Type == "" {
		return nil, WrapError(ErrCodeInvalid, "decode action", fmt.Errorf("missing action type"))
	}
	decode, ok := decoders[e.Type]
	if !ok {
		return UnknownAction{Kind: e.Type}, nil
	}
	return decode(e.Payload)
}

// EncodeAction builds the wire envelope of an action.
func EncodeAction(action Action) (ActionEnvelope, error) {
	if action == nil {
		return ActionEnvelope{}, ErrInvalidPayload
	}
	payload, err := json.Marshal(action)
	if err != nil {
		return ActionEnvelope{}, WrapError(ErrCodeInvalid, "encode action", err)
	}
	return ActionEnvelope{Type: action.Type(), Payload: payload}, nil
}

func decodeAs[T Action](raw json.RawMessage) (Action, error) {
	var action T
	if len(raw) == 0 || string(raw) == "null" {
		return action, nil
	}
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, WrapError(ErrCodeInvalid, fmt.Sprintf("decode %s payload", action.Type()), err)
	}
	return action, nil
}
