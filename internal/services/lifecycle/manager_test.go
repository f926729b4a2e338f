package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	for _, name := range []string{"store", "coordinator", "http"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if want := []string{"http", "coordinator", "store"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestShutdownJoinsErrorsAndContinues(t *testing.T) {
	m := New(time.Second, nil)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := 0
	m.Register("a", func(context.Context) error { ran++; return errA })
	m.Register("ok", func(context.Context) error { ran++; return nil })
	m.Register("b", func(context.Context) error { ran++; return errB })

	err := m.Shutdown(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
	if ran != 3 {
		t.Fatalf("expected all hooks to run, got %d", ran)
	}
	if again := m.Shutdown(context.Background()); !errors.Is(again, errA) {
		t.Fatalf("expected repeated shutdown to return the first result, got %v", again)
	}
	if ran != 3 {
		t.Fatal("expected hooks to run only once")
	}
}

func TestShutdownAppliesTimeout(t *testing.T) {
	m := New(20*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := m.Shutdown(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRegisterAfterShutdownRunsImmediately(t *testing.T) {
	m := New(time.Second, nil)
	_ = m.Shutdown(context.Background())

	ran := false
	m.Register("late", func(context.Context) error { ran = true; return nil })
	if !ran {
		t.Fatal("expected late hook to run immediately")
	}
}
