package router

import (
	"testing"

	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/focusboard/api/handler"
	"github.com/fastygo/focusboard/usecase"
)

func denyAll(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	}
}

func TestProtectedRoutesUseMiddleware(t *testing.T) {
	handlers := Handlers{
		Document: apiHandler.NewDocumentHandler(usecase.NewDispatcher(nil), nil, nil, nil),
		Health:   apiHandler.NewHealthHandler(nil, nil, nil, nil),
	}
	r := New(handlers, denyAll)

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/document"},
		{"GET", "/api/v1/status"},
		{"POST", "/api/v1/actions"},
		{"POST", "/api/v1/undo"},
		{"POST", "/api/v1/redo"},
		{"POST", "/api/v1/sync"},
		{"POST", "/api/v1/reload"},
		{"GET", "/api/v1/views/today"},
	}
	for _, route := range routes {
		var ctx fasthttp.RequestCtx
		ctx.Request.Header.SetMethod(route.method)
		ctx.Request.SetRequestURI(route.path)
		r.Handler(&ctx)
		if got := ctx.Response.StatusCode(); got != fasthttp.StatusUnauthorized {
			t.Fatalf("%s %s: expected middleware to run, got %d", route.method, route.path, got)
		}
	}

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod("GET")
	ctx.Request.SetRequestURI("/api/v1/unknown")
	r.Handler(&ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", ctx.Response.StatusCode())
	}
}
