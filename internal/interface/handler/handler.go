package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/usecase"
	apperrors "medtour-itinerary-service/pkg/errors"
	"medtour-itinerary-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

type flightFixer interface {
	Fix(ctx context.Context, orderID string) (*usecase.FixFlightsResult, error)
}

type timelineAdjuster interface {
	Adjust(ctx context.Context, orderID string) (*usecase.AdjustmentResult, error)
}

type directionCorrector interface {
	Correct(ctx context.Context, orderID string) (*usecase.DirectionCorrection, error)
}

type attractionAllocator interface {
	Allocate(ctx context.Context, orderID string) (*usecase.AllocationResult, error)
}

type timelineValidator interface {
	Validate(ctx context.Context, orderID string) (*usecase.ValidationReport, error)
	Diagnose(ctx context.Context, orderID string) (*usecase.Diagnosis, error)
}

type timelineProjector interface {
	Project(ctx context.Context, orderID string) (*entity.Timeline, error)
}

type repairRunner interface {
	Run(ctx context.Context, operation string, orderIDs []string) ([]*entity.RepairRun, error)
	History(ctx context.Context, orderID string, limit int) ([]*entity.RepairRun, error)
}

type routePreviewer interface {
	Preview(ctx context.Context, origin, destination string, departure time.Time, seed string) (*usecase.RoutePreview, error)
}

type pdfRenderer interface {
	Render(timeline *entity.Timeline) ([]byte, error)
}

// Services groups the use cases served over HTTP
type Services struct {
	Fixer      flightFixer
	Reconciler timelineAdjuster
	Corrector  directionCorrector
	Allocator  attractionAllocator
	Validator  timelineValidator
	Projector  timelineProjector
	Repairs    repairRunner
	Routes     routePreviewer
	PDF        pdfRenderer
}

// Handler serves the itinerary admin API
type Handler struct {
	svc    Services
	logger logger.Logger
}

// NewHandler creates a new handler
func NewHandler(svc Services, logger logger.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the admin routes on r
func (h *Handler) Register(r gin.IRouter) {
	admin := r.Group("/api/admin")
	{
		orders := admin.Group("/orders/:id")
		orders.POST("/fix-flights", h.FixFlights)
		orders.POST("/adjust-timeline", h.AdjustTimeline)
		orders.POST("/correct-direction", h.CorrectDirection)
		orders.POST("/allocate-attractions", h.AllocateAttractions)
		orders.GET("/diagnose", h.Diagnose)
		orders.GET("/validate", h.Validate)
		orders.GET("/timeline", h.Timeline)
		orders.GET("/timeline.pdf", h.TimelinePDF)
		orders.GET("/repairs", h.RepairHistory)

		admin.POST("/repairs/:operation", h.RunRepair)
		admin.GET("/routes", h.PreviewRoute)
	}
}

// respond writes res or the mapped error
func respond[T any](h *Handler, c *gin.Context, res T, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// FixFlights handles POST /orders/:id/fix-flights
func (h *Handler) FixFlights(c *gin.Context) {
	res, err := h.svc.Fixer.Fix(c.Request.Context(), c.Param("id"))
	respond(h, c, res, err)
}

// AdjustTimeline handles POST /orders/:id/adjust-timeline
func (h *Handler) AdjustTimeline(c *gin.Context) {
	res, err := h.svc.Reconciler.Adjust(c.Request.Context(), c.Param("id"))
	respond(h, c, res, err)
}

// CorrectDirection handles POST /orders/:id/correct-direction
func (h *Handler) CorrectDirection(c *gin.Context) {
	res, err := h.svc.Corrector.Correct(c.Request.Context(), c.Param("id"))
	respond(h, c, res, err)
}

// AllocateAttractions handles POST /orders/:id/allocate-attractions
func (h *Handler) AllocateAttractions(c *gin.Context) {
	res, err := h.svc.Allocator.Allocate(c.Request.Context(), c.Param("id"))
	respond(h, c, res, err)
}

// Diagnose handles GET /orders/:id/diagnose
func (h *Handler) Diagnose(c *gin.Context) {
	res, err := h.svc.Validator.Diagnose(c.Request.Context(), c.Param("id"))
	respond(h, c, res, err)
}

// Validate handles GET /orders/:id/validate
func (h *Handler) Validate(c *gin.Context) {
	res, err := h.svc.Validator.Validate(c.Request.Context(), c.Param("id"))
	respond(h, c, res, err)
}

// Timeline handles GET /orders/:id/timeline
func (h *Handler) Timeline(c *gin.Context) {
	res, err := h.svc.Projector.Project(c.Request.Context(), c.Param("id"))
	respond(h, c, res, err)
}

// TimelinePDF handles GET /orders/:id/timeline.pdf
func (h *Handler) TimelinePDF(c *gin.Context) {
	timeline, err := h.svc.Projector.Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	data, err := h.svc.PDF.Render(timeline)
	if err != nil {
		h.writeError(c, apperrors.NewInternalError("failed to render timeline", err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=itinerary-"+timeline.OrderID+".pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}

// RepairHistory handles GET /orders/:id/repairs?limit=
func (h *Handler) RepairHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	res, err := h.svc.Repairs.History(c.Request.Context(), c.Param("id"), limit)
	respond(h, c, res, err)
}

type repairRequest struct {
	OrderIDs []string `json:"orderIds" binding:"required,min=1"`
}

// RunRepair handles POST /repairs/:operation
func (h *Handler) RunRepair(c *gin.Context) {
	var req repairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.NewValidationError("body must be {\"orderIds\": [...]} with at least one id"))
		return
	}
	res, err := h.svc.Repairs.Run(c.Request.Context(), c.Param("operation"), req.OrderIDs)
	respond(h, c, res, err)
}

// PreviewRoute handles GET /routes?origin=&destination=&departure=&seed=
func (h *Handler) PreviewRoute(c *gin.Context) {
	var departure time.Time
	if raw := c.Query("departure"); raw != "" {
		var err error
		departure, err = parseDeparture(raw)
		if err != nil {
			h.writeError(c, apperrors.NewValidationError("departure must be RFC3339 or YYYY-MM-DD").
				WithDetail("departure", raw))
			return
		}
	}
	res, err := h.svc.Routes.Preview(c.Request.Context(), c.Query("origin"), c.Query("destination"), departure, c.Query("seed"))
	respond(h, c, res, err)
}

func parseDeparture(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
