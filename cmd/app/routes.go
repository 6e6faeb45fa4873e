package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"fundquote/internal/api"
	"fundquote/internal/api/middleware"
	"fundquote/internal/service"
)

func (app *App) initHTTP(fundService service.FundServiceInterface) {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/funds/{code}", api.HandleGetQuote(fundService))
	r.Get("/funds/{code}/history", api.HandleGetHistory(fundService))
	r.Get("/providers", api.HandleListProviders(fundService))

	r.Post("/resolutions", api.HandleRequestResolution(fundService))
	r.Get("/resolutions/{resolution_id}", api.HandleGetResolution(fundService))

	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(
		api.DBCheck(app.db),
		api.RedisCheck("Redis cache", app.rdbCache),
		api.RedisCheck("Redis asynq", app.rdbAsynq),
	))

	if app.cfg.Server.ServeSwagger {
		r.Get("/swagger/*", api.SwaggerUIHandler())
		r.Get("/openapi.json", api.OpenAPISpecHandler())
	}

	if app.monitor != nil {
		r.Handle(app.monitor.RootPath()+"/*", app.monitor)
	}

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
