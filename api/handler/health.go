package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusboard/api/transport"
	"github.com/fastygo/focusboard/internal/infrastructure/monitor"
	"github.com/fastygo/focusboard/pkg/httpcontext"
)

// HealthReporter is satisfied by monitor.Monitor.
type HealthReporter interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor HealthReporter
	session SyncSession
}

func NewHealthHandler(mon HealthReporter, session SyncSession, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		session:     session,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	session := h.session.Status()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			status.Backend: status.Remote,
			"cache": map[string]interface{}{
				"online": status.Cache,
				"size":   status.CacheSize,
			},
		},
		"document": session,
	}

	if status.Remote && session.Loaded {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}
