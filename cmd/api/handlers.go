package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	status := "available"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := app.storage.Ping(ctx); err != nil {
		app.log.Warn("storage ping failed", "errMsg", err.Error())
		status = "degraded"
	}
	render.JSON(w, r, struct {
		Status  string `json:"status"`
		Debug   bool   `json:"debug"`
		Version string `json:"version"`
		Storage string `json:"storage"`
	}{
		Status:  status,
		Debug:   app.cfg.Debug,
		Version: version,
		Storage: app.cfg.DB.Driver,
	})
}
