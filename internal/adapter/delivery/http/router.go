package http

import (
	handler "chainstore/internal/adapter/handler/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RegisterRoutes sets up the routes for the chain handler and common health checks.
func RegisterRoutes(r *router.Router, h *handler.ChainHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/chains", h.GetChains)
	r.GET("/chains/{name}", h.GetChain)
	r.PUT("/chains/local", h.PutLocalChain)
	r.DELETE("/chains/local/{name}", h.DeleteLocalChain)
	r.POST("/chains/{name}/url", h.PostChainURL)
	r.GET("/recent", h.GetRecentChains)
	r.POST("/recent/{name}", h.PostRecentChain)
	r.GET("/registry/sha", h.GetRegistrySHA)

	logger.Info("Setting up health check route...")
	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
}

// LoggingMiddleware logs every request before passing it on.
func LoggingMiddleware(next fasthttp.RequestHandler, logger *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		logger.Info("Request received",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()))
		next(ctx)
	}
}
