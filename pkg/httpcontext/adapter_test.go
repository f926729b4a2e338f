package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/focusboard/pkg/logger"
)

func TestAttachPropagatesRequestMetadata(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("X-Request-ID", "req-7")
	ctx.Request.Header.SetUserAgent("planner/1.0")
	ctx.SetUserValue(UserValueUserID, "user-1")

	stdCtx, cancel := NewAdapter(time.Second).Attach(&ctx)
	defer cancel()

	if got := appLogger.RequestID(stdCtx); got != "req-7" {
		t.Fatalf("expected request id req-7, got %q", got)
	}
	if got := string(ctx.Response.Header.Peek("X-Request-ID")); got != "req-7" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
	if got := UserID(stdCtx); got != "user-1" {
		t.Fatalf("expected user-1, got %q", got)
	}
	if got, _ := stdCtx.Value(KeyUserAgent).(string); got != "planner/1.0" {
		t.Fatalf("expected user agent, got %q", got)
	}
	if _, ok := stdCtx.Deadline(); !ok {
		t.Fatal("expected a deadline")
	}
}

func TestAttachGeneratesRequestID(t *testing.T) {
	var ctx fasthttp.RequestCtx
	stdCtx, cancel := NewAdapter(0).Attach(&ctx)
	defer cancel()

	if appLogger.RequestID(stdCtx) == "" {
		t.Fatal("expected generated request id")
	}
	if UserID(stdCtx) != "" {
		t.Fatal("expected no user without auth")
	}
}

func TestAttachFollowsBaseContext(t *testing.T) {
	base, stop := context.WithCancel(context.Background())
	adapter := NewAdapter(time.Minute).WithBase(base)

	var ctx fasthttp.RequestCtx
	stdCtx, cancel := adapter.Attach(&ctx)
	defer cancel()

	stop()
	select {
	case <-stdCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("expected request context to be cancelled with its base")
	}
}
