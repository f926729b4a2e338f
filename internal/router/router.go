package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/focusboard/api/handler"
)

type Handlers struct {
	Document *apiHandler.DocumentHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	api.GET("/document", authMiddleware(handlers.Document.GetDocument))
	api.GET("/status", authMiddleware(handlers.Document.GetStatus))
	api.POST("/actions", authMiddleware(handlers.Document.Apply))
	api.POST("/undo", authMiddleware(handlers.Document.Undo))
	api.POST("/redo", authMiddleware(handlers.Document.Redo))

	api.POST("/sync", authMiddleware(handlers.Document.Sync))
	api.POST("/reload", authMiddleware(handlers.Document.Reload))

	api.GET("/views/today", authMiddleware(handlers.Document.Today))

	return r
}
