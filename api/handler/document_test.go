package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/internal/infrastructure/monitor"
	"github.com/fastygo/focusboard/internal/services"
	"github.com/fastygo/focusboard/repository/memory"
	"github.com/fastygo/focusboard/usecase"
)

type response struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
}

type documentData struct {
	Document domain.Document `json:"document"`
	Status   services.Status `json:"status"`
}

func newLoadedHandler(t *testing.T) (*DocumentHandler, *usecase.Dispatcher, *memory.DocumentRepository) {
	t.Helper()
	repo := memory.NewDocumentRepository("default")
	dispatcher := usecase.NewDispatcher(nil)
	coordinator, err := services.NewCoordinator(dispatcher, repo, nil, nil, nil, services.CoordinatorConfig{
		SaveDebounce: time.Hour,
	})
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	t.Cleanup(func() { coordinator.Close(context.Background()) })
	if err := coordinator.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return NewDocumentHandler(dispatcher, coordinator, nil, nil), dispatcher, repo
}

func call(t *testing.T, fn fasthttp.RequestHandler, body string, query string) (int, response) {
	t.Helper()
	var ctx fasthttp.RequestCtx
	if body != "" {
		ctx.Request.Header.SetMethod(fasthttp.MethodPost)
		ctx.Request.SetBodyString(body)
	}
	ctx.Request.SetRequestURI("/test?" + query)
	fn(&ctx)

	var resp response
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", ctx.Response.Body(), err)
	}
	return ctx.Response.StatusCode(), resp
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", resp.Data, err)
	}
	return out
}

func TestApplySingleAction(t *testing.T) {
	h, _, _ := newLoadedHandler(t)

	code, resp := call(t, h.Apply, `{"type":"ADD_TASK","payload":{"title":"Write report"}}`, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", code, resp)
	}
	data := decodeData[documentData](t, resp)
	if len(data.Document.Tasks) != 1 || data.Document.Tasks[0].Title != "Write report" {
		t.Fatalf("unexpected tasks %+v", data.Document.Tasks)
	}
	if !data.Status.Dirty || !data.Status.CanUndo {
		t.Fatalf("expected dirty undoable status, got %+v", data.Status)
	}
}

func TestApplyBatchAndUndoRedo(t *testing.T) {
	h, d, _ := newLoadedHandler(t)

	body := `{"actions":[
		{"type":"ADD_TASK","payload":{"id":"a","title":"First"}},
		{"type":"ADD_TASK","payload":{"id":"b","title":"Second"}}
	]}`
	if code, resp := call(t, h.Apply, body, ""); code != http.StatusOK {
		t.Fatalf("batch: %d %+v", code, resp)
	}
	if len(d.Document().Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(d.Document().Tasks))
	}

	_, resp := call(t, h.Undo, "{}", "")
	if data := decodeData[documentData](t, resp); len(data.Document.Tasks) != 1 || !data.Status.CanRedo {
		t.Fatalf("unexpected state after undo %+v", data)
	}
	_, resp = call(t, h.Redo, "{}", "")
	if data := decodeData[documentData](t, resp); len(data.Document.Tasks) != 2 {
		t.Fatalf("unexpected state after redo %+v", data.Document.Tasks)
	}
}

func TestApplyRejectsBadPayloads(t *testing.T) {
	h, _, _ := newLoadedHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "missing type", body: `{"payload":{}}`},
		{name: "reserved replace", body: `{"type":"REPLACE_DOCUMENT","payload":{"document":{}}}`},
		{name: "bad payload", body: `{"type":"ADD_TASK","payload":{"title":7}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := call(t, h.Apply, tt.body, "")
			if code != http.StatusBadRequest || resp.Code != string(domain.ErrCodeInvalid) {
				t.Fatalf("expected 400 INVALID, got %d %+v", code, resp)
			}
		})
	}
}

func TestApplyUnknownActionIsNoop(t *testing.T) {
	h, d, _ := newLoadedHandler(t)
	before := d.Document()
	if code, _ := call(t, h.Apply, `{"type":"ARCHIVE_EVERYTHING"}`, ""); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if d.Document() != before {
		t.Fatal("expected unknown action to leave the document untouched")
	}
}

func TestSyncSavesDocument(t *testing.T) {
	h, _, repo := newLoadedHandler(t)
	call(t, h.Apply, `{"type":"ADD_TASK","payload":{"title":"Persist me"}}`, "")

	code, resp := call(t, h.Sync, "{}", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %+v", code, resp)
	}
	if status := decodeData[services.Status](t, resp); status.Dirty || status.Version != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
	if _, version, err := repo.Current(); err != nil || version != 1 {
		t.Fatalf("expected saved version 1, got %d (%v)", version, err)
	}
}

func TestSyncFailureMapsToUnavailable(t *testing.T) {
	h, _, repo := newLoadedHandler(t)
	repo.FailSave(errors.New("disk full"))
	call(t, h.Apply, `{"type":"ADD_TASK","payload":{"title":"Stuck"}}`, "")

	code, resp := call(t, h.Sync, "{}", "")
	if code != http.StatusServiceUnavailable || resp.Code != string(domain.ErrCodeUnavailable) {
		t.Fatalf("expected 503, got %d %+v", code, resp)
	}
}

func TestReloadReturnsRemoteDocument(t *testing.T) {
	h, _, repo := newLoadedHandler(t)
	remote := domain.NewDocument()
	remote.Tasks = append(remote.Tasks, domain.Task{ID: "r", Title: "From elsewhere", Status: domain.TaskActive, Subtasks: []domain.Subtask{}})
	_, _ = repo.Put(remote)

	_, resp := call(t, h.Reload, "{}", "")
	data := decodeData[documentData](t, resp)
	if len(data.Document.Tasks) != 1 || data.Document.Tasks[0].ID != "r" {
		t.Fatalf("expected remote document, got %+v", data.Document.Tasks)
	}
}

func TestTodayView(t *testing.T) {
	h, d, _ := newLoadedHandler(t)
	h.now = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }

	d.Dispatch(domain.AddTask{ID: "due", Title: "Due today", DueDate: "2024-06-03"})
	d.Dispatch(domain.AddTask{ID: "later", Title: "Next week", DueDate: "2024-06-10"})
	d.Dispatch(domain.AddReminder{ID: "rem", Title: "Call", Date: "2024-06-01"})

	code, resp := call(t, h.Today, "", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	view := decodeData[struct {
		Date      string            `json:"date"`
		Tasks     []domain.Task     `json:"tasks"`
		Reminders []domain.Reminder `json:"reminders"`
	}](t, resp)
	if view.Date != "2024-06-03" || len(view.Tasks) != 1 || view.Tasks[0].ID != "due" || len(view.Reminders) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}

	if code, _ := call(t, h.Today, "", "date=2024-13-40"); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid date, got %d", code)
	}
}

type unloadedSession struct{}

func (unloadedSession) Loaded() bool                 { return false }
func (unloadedSession) Status() services.Status      { return services.Status{SaveStatus: services.SaveOK} }
func (unloadedSession) Sync(context.Context) error   { return domain.ErrNotLoaded }
func (unloadedSession) Reload(context.Context) error { return errors.New("network down") }

func TestActionsBeforeLoadAreRejected(t *testing.T) {
	d := usecase.NewDispatcher(nil)
	h := NewDocumentHandler(d, unloadedSession{}, nil, nil)

	for name, fn := range map[string]fasthttp.RequestHandler{
		"apply": h.Apply, "undo": h.Undo, "document": h.GetDocument, "sync": h.Sync,
	} {
		code, resp := call(t, fn, `{"type":"ADD_TASK","payload":{"title":"x"}}`, "")
		if code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d %+v", name, code, resp)
		}
	}
	if len(d.Document().Tasks) != 0 {
		t.Fatal("expected no dispatch before load")
	}
}

type fakeMonitor struct{ status monitor.Status }

func (f fakeMonitor) GetStatus() monitor.Status { return f.status }

func TestHealthCheck(t *testing.T) {
	h, _, _ := newLoadedHandler(t)

	healthy := NewHealthHandler(fakeMonitor{monitor.Status{Remote: true, Backend: "memory", Cache: true}}, h.session, nil, nil)
	if code, _ := call(t, healthy.Check, "", ""); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	degraded := NewHealthHandler(fakeMonitor{monitor.Status{Backend: "memory"}}, h.session, nil, nil)
	if code, resp := call(t, degraded.Check, "", ""); code != http.StatusServiceUnavailable || resp.Code != "DEGRADED" {
		t.Fatalf("expected degraded 503, got %d %+v", code, resp)
	}
}
