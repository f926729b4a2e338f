package transport

import "github.com/fastygo/focusboard/domain"

// ActionRequest is the body of POST /api/v1/actions: {"type": ..., "payload": ...}.
type ActionRequest = domain.ActionEnvelope

// BatchActionRequest applies several actions in order within one request.
type BatchActionRequest struct {
	Actions []ActionRequest `json:"actions"`
}
