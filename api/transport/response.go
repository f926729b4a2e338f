package transport

import (
	"encoding/json"

	"github.com/fastygo/focusboard/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// DocumentResponse pairs the current document with the session status.
type DocumentResponse struct {
	Document *domain.Document `json:"document"`
	Status   interface{}      `json:"status"`
}

// TodayView is the read model behind GET /api/v1/views/today.
type TodayView struct {
	Date      string            `json:"date"`
	Tasks     []domain.Task     `json:"tasks"`
	Reminders []domain.Reminder `json:"reminders"`
	Stat      domain.DailyStat  `json:"stat"`
	Streak    int               `json:"streak"`
	Running   []RunningTimer    `json:"running"`
}

// RunningTimer is a pomodoro that is currently counting, with its links resolved.
type RunningTimer struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Elapsed   int      `json:"elapsedSeconds"`
	Planned   int      `json:"plannedSeconds"`
	LinkNames []string `json:"links"`
}
