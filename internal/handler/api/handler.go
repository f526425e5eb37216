// Package api exposes the operational HTTP surface: health probe and a
// debug endpoint that renders a message frame without touching Telegram.
package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"TrenchScan/internal/domain/models"
	"TrenchScan/internal/render"
	xhttp "TrenchScan/pkg/http"
	applogger "TrenchScan/pkg/logger"
)

// Handler registers the ops routes.
type Handler struct {
	composer *render.Composer
	logger   *applogger.Logger
	started  time.Time
}

// NewHandler creates the ops handler.
func NewHandler(composer *render.Composer, logger *applogger.Logger) *Handler {
	return &Handler{
		composer: composer,
		logger:   logger,
		started:  time.Now(),
	}
}

// RegisterRoutes registers routes on the Echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)
	e.GET("/readyz", h.health)
	e.POST("/api/render", h.renderFrame)
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (h *Handler) health(c echo.Context) error {
	return xhttp.SuccessResponse(c, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

type renderRequest struct {
	TokenAddress string                  `json:"tokenAddress" validate:"required,min=32,max=44"`
	Payload      *models.AnalysisPayload `json:"payload" validate:"required"`
	Step         int                     `json:"step" validate:"gte=0"`
	ShowVerdict  bool                    `json:"showVerdict"`
}

type renderResponse struct {
	Text string `json:"text"`
}

// renderFrame composes the message frame the bot would show at the given
// reveal position. Used to eyeball formatting changes without a chat
// round-trip.
func (h *Handler) renderFrame(c echo.Context) error {
	req := new(renderRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	if total := len(h.composer.Catalog()); req.Step > total {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("step %d out of range, catalog has %d steps", req.Step, total))
	}

	text := h.composer.Compose(req.TokenAddress, req.Payload, render.RevealState{
		Step:        req.Step,
		ShowVerdict: req.ShowVerdict,
	})
	return xhttp.SuccessResponse(c, renderResponse{Text: text})
}
