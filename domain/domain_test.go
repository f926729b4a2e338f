package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "nil", err: nil, want: ""},
		{name: "sentinel", err: ErrNotLoaded, want: ErrCodeUnavailable},
		{name: "wrapped sentinel", err: fmt.Errorf("sync: %w", ErrDocumentNotFound), want: ErrCodeNotFound},
		{name: "wrapped cause", err: WrapError(ErrCodeInvalid, "decode", errors.New("eof")), want: ErrCodeInvalid},
		{name: "deadline", err: fmt.Errorf("save: %w", context.DeadlineExceeded), want: ErrCodeUnavailable},
		{name: "plain", err: errors.New("boom"), want: ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
	if !IsDomainError(ErrClosed, ErrCodeUnavailable) {
		t.Fatal("expected closed to be unavailable")
	}
}

func TestActionEnvelopeDecode(t *testing.T) {
	action, err := ActionEnvelope{Type: ActionAddTask, Payload: []byte(`{"title":"Read","priority":"high"}`)}.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	add, ok := action.(AddTask)
	if !ok || add.Title != "Read" || add.Priority != "high" {
		t.Fatalf("unexpected action %#v", action)
	}

	action, err = ActionEnvelope{Type: ActionClearCompleted}.Decode()
	if err != nil || action.Type() != ActionClearCompleted {
		t.Fatalf("expected payload-less action, got %#v (%v)", action, err)
	}

	action, err = ActionEnvelope{Type: "SHARE_BOARD"}.Decode()
	if err != nil {
		t.Fatalf("unknown types decode without error, got %v", err)
	}
	if unknown, ok := action.(UnknownAction); !ok || unknown.Type() != "SHARE_BOARD" {
		t.Fatalf("expected UnknownAction, got %#v", action)
	}

	if _, err := (ActionEnvelope{}).Decode(); !IsDomainError(err, ErrCodeInvalid) {
		t.Fatalf("expected invalid for missing type, got %v", err)
	}
	if _, err := (ActionEnvelope{Type: ActionToggleTask, Payload: []byte(`{"id":5}`)}).Decode(); !IsDomainError(err, ErrCodeInvalid) {
		t.Fatalf("expected invalid payload error, got %v", err)
	}
}

func TestEncodeActionRoundTrip(t *testing.T) {
	envelope, err := EncodeAction(PinToday{ID: "t1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if envelope.Type != ActionPinToday {
		t.Fatalf("unexpected type %q", envelope.Type)
	}
	decoded, err := envelope.Decode()
	if err != nil || decoded != (PinToday{ID: "t1"}) {
		t.Fatalf("unexpected round trip %#v (%v)", decoded, err)
	}
	if _, err := EncodeAction(nil); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for nil action, got %v", err)
	}
}

func TestSnapshotDocumentNormalizes(t *testing.T) {
	snap := &Snapshot{DocumentID: "default", Version: 3, Payload: []byte(`{"tasks":[{"id":"a","title":"A"}]}`)}
	doc, err := snap.Document()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Tasks[0].Subtasks == nil || doc.Reminders == nil || doc.Settings.FocusMinutes == 0 {
		t.Fatalf("expected normalized document, got %+v", doc)
	}

	if _, err := (&Snapshot{}).Document(); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected not found for empty payload, got %v", err)
	}
	if _, err := (&Snapshot{Payload: []byte(`[`)}).Document(); !IsDomainError(err, ErrCodeInvalid) {
		t.Fatalf("expected invalid for corrupt payload, got %v", err)
	}
}

func TestEffectiveElapsed(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	accumulated := 100
	running := Pomodoro{Duration: 25, Status: PomodoroRunning, StartedAt: &start, AccumulatedSeconds: &accumulated, Elapsed: 100}

	if got := running.EffectiveElapsed(start.Add(50 * time.Second)); got != 150 {
		t.Fatalf("expected 150, got %d", got)
	}
	if got := running.EffectiveElapsed(start.Add(time.Hour)); got != 25*60 {
		t.Fatalf("expected clamp to planned, got %d", got)
	}
	if got := running.EffectiveElapsed(start.Add(-time.Minute)); got != 100 {
		t.Fatalf("expected clock skew to be ignored, got %d", got)
	}

	paused := Pomodoro{Duration: 25, Status: PomodoroPaused, Elapsed: 42}
	if got := paused.EffectiveElapsed(start); got != 42 {
		t.Fatalf("expected stored elapsed while paused, got %d", got)
	}
}

func TestFocusMinutes(t *testing.T) {
	for seconds, want := range map[int]int{0: 0, -5: 0, 29: 0, 30: 1, 89: 1, 90: 2, 930: 16, 1500: 25} {
		if got := FocusMinutes(seconds); got != want {
			t.Fatalf("FocusMinutes(%d): expected %d, got %d", seconds, want, got)
		}
	}
}

func TestLinkTitles(t *testing.T) {
	doc := NewDocument()
	doc.Tasks = []Task{{ID: "t1", Title: "Report", Subtasks: []Subtask{{ID: "s1", Title: "Outline"}}}}
	doc.Pomodoros = []Pomodoro{{ID: "p1", Links: []TaskLink{
		{TaskID: "t1"},
		{TaskID: "t1", SubtaskID: "s1"},
		{TaskID: "gone"},
	}}}

	got := doc.PomodoroLinkTitles("p1")
	want := []string{"Report", "Report / Outline", DeletedTaskTitle}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if doc.PomodoroLinkTitles("missing") != nil {
		t.Fatal("expected nil for unknown pomodoro")
	}
}
