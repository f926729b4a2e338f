package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusboard/api/transport"
	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/internal/services"
	"github.com/fastygo/focusboard/pkg/httpcontext"
	"github.com/fastygo/focusboard/pkg/recurrence"
)

// DocumentStore applies actions to the in-memory document.
type DocumentStore interface {
	Dispatch(action domain.Action) *domain.Document
	Document() *domain.Document
}

// SyncSession exposes the persistence state of the document.
type SyncSession interface {
	Loaded() bool
	Status() services.Status
	Sync(ctx context.Context) error
	Reload(ctx context.Context) error
}

const maxBatchActions = 100

type DocumentHandler struct {
	baseHandler
	store   DocumentStore
	session SyncSession
	now     func() time.Time
}

func NewDocumentHandler(store DocumentStore, session SyncSession, adapter *httpcontext.Adapter, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		session:     session,
		now:         time.Now,
	}
}

// @Summary Current document and session status
// @Tags document
// @Router /api/v1/document [get]
func (h *DocumentHandler) GetDocument(ctx *fasthttp.RequestCtx) {
	if !h.session.Loaded() {
		h.respondError(ctx, domain.ErrNotLoaded)
		return
	}
	h.respondDocument(ctx, h.store.Document())
}

// @Summary Persistence status
// @Tags document
// @Router /api/v1/status [get]
func (h *DocumentHandler) GetStatus(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.session.Status())
}

// @Summary Apply one action, or a batch of actions in order
// @Tags document
// @Router /api/v1/actions [post]
func (h *DocumentHandler) Apply(ctx *fasthttp.RequestCtx) {
	if !h.session.Loaded() {
		h.respondError(ctx, domain.ErrNotLoaded)
		return
	}

	actions, err := decodeActions(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	log := h.requestLogger(stdCtx)

	var doc *domain.Document
	for _, action := range actions {
		doc = h.store.Dispatch(action)
		log.Debug("action dispatched", zap.String("action", string(action.Type())))
	}
	h.respondDocument(ctx, doc)
}

// @Summary Undo the last edit
// @Tags document
// @Router /api/v1/undo [post]
func (h *DocumentHandler) Undo(ctx *fasthttp.RequestCtx) {
	h.dispatchOne(ctx, domain.Undo{})
}

// @Summary Redo the last undone edit
// @Tags document
// @Router /api/v1/redo [post]
func (h *DocumentHandler) Redo(ctx *fasthttp.RequestCtx) {
	h.dispatchOne(ctx, domain.Redo{})
}

// @Summary Save immediately
// @Tags sync
// @Router /api/v1/sync [post]
func (h *DocumentHandler) Sync(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.session.Sync(stdCtx); err != nil {
		h.requestLogger(stdCtx).Warn("manual sync failed", zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.session.Status())
}

// @Summary Replace the local document with the remote one
// @Tags sync
// @Router /api/v1/reload [post]
func (h *DocumentHandler) Reload(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.session.Reload(stdCtx); err != nil {
		h.requestLogger(stdCtx).Warn("reload failed", zap.Error(err))
		h.respondError(ctx, err)
		return
	}
	h.respondDocument(ctx, h.store.Document())
}

// @Summary Tasks, reminders and timers relevant today
// @Tags views
// @Router /api/v1/views/today [get]
func (h *DocumentHandler) Today(ctx *fasthttp.RequestCtx) {
	if !h.session.Loaded() {
		h.respondError(ctx, domain.ErrNotLoaded)
		return
	}

	now := h.now()
	date := string(ctx.QueryArgs().Peek("date"))
	if date == "" {
		date = recurrence.FormatDate(now)
	} else if _, err := recurrence.ParseDate(date); err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInvalid, "invalid date", err))
		return
	}

	doc := h.store.Document()
	view := transport.TodayView{
		Date:      date,
		Tasks:     doc.TodayTasks(date),
		Reminders: doc.DueReminders(date),
		Stat:      doc.StatFor(date),
		Streak:    doc.CurrentStreak,
		Running:   []transport.RunningTimer{},
	}
	for i := range doc.Pomodoros {
		p := &doc.Pomodoros[i]
		if p.Status != domain.PomodoroRunning {
			continue
		}
		view.Running = append(view.Running, transport.RunningTimer{
			ID:        p.ID,
			Title:     p.Title,
			Elapsed:   p.EffectiveElapsed(now),
			Planned:   p.PlannedSeconds(),
			LinkNames: doc.PomodoroLinkTitles(p.ID),
		})
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

func (h *DocumentHandler) dispatchOne(ctx *fasthttp.RequestCtx, action domain.Action) {
	if !h.session.Loaded() {
		h.respondError(ctx, domain.ErrNotLoaded)
		return
	}
	h.respondDocument(ctx, h.store.Dispatch(action))
}

func (h *DocumentHandler) respondDocument(ctx *fasthttp.RequestCtx, doc *domain.Document) {
	h.respondSuccess(ctx, http.StatusOK, transport.DocumentResponse{
		Document: doc,
		Status:   h.session.Status(),
	})
}

// decodeActions accepts a single envelope or {"actions": [...]}. Document
// loads and replacements belong to the persistence layer and are refused.
func decodeActions(body []byte) ([]domain.Action, error) {
	var probe struct {
		Actions json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}

	var envelopes []transport.ActionRequest
	if len(probe.Actions) > 0 {
		var batch transport.BatchActionRequest
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
		}
		envelopes = batch.Actions
	} else {
		var single transport.ActionRequest
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
		}
		envelopes = []transport.ActionRequest{single}
	}
	if len(envelopes) == 0 || len(envelopes) > maxBatchActions {
		return nil, domain.NewError(domain.ErrCodeInvalid, "expected between 1 and 100 actions")
	}

	actions := make([]domain.Action, 0, len(envelopes))
	for _, envelope := range envelopes {
		switch envelope.Type {
		case domain.ActionLoadDocument, domain.ActionReplaceDocument:
			return nil, domain.NewError(domain.ErrCodeInvalid, string(envelope.Type)+" is reserved")
		}
		action, err := envelope.Decode()
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}
