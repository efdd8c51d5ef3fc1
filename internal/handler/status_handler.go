package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/eskwela-dev/eskwela-go-api/internal/service"
	"github.com/eskwela-dev/eskwela-go-api/internal/utils"
)

// StatusHandler exposes derived completion status and per-student progress.
type StatusHandler struct {
	service service.StatusService
	logger  zerolog.Logger
}

// NewStatusHandler builds a status handler instance.
func NewStatusHandler(service service.StatusService, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		service: service,
		logger:  logger.With().Str("component", "status_handler").Logger(),
	}
}

// RegisterActivityRoutes attaches the per-activity status route.
func (h *StatusHandler) RegisterActivityRoutes(router fiber.Router) {
	router.Get("/:id/status", h.status)
}

// RegisterStudentRoutes attaches the per-student progress route.
func (h *StatusHandler) RegisterStudentRoutes(router fiber.Router) {
	router.Get("/:id/progress", h.progress)
}

// RegisterClassRoutes attaches the class rollup route.
func (h *StatusHandler) RegisterClassRoutes(router fiber.Router) {
	router.Get("/:id/summary", h.classSummary)
}

func (h *StatusHandler) status(c *fiber.Ctx) error {
	activityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := parseQueryUint(c, "student_id")
	if err != nil || studentID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "student_id is required")
	}

	status, err := h.service.GetStatus(c.Context(), activityID, *studentID, time.Now())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "status resolved", status)
}

func (h *StatusHandler) progress(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	classID, err := parseQueryUint(c, "class_id")
	if err != nil || classID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "class_id is required")
	}

	progress, err := h.service.GetProgress(c.Context(), studentID, *classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "progress retrieved", progress)
}

func (h *StatusHandler) classSummary(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.GetClassSummary(c.Context(), classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "class summary retrieved", summary)
}

func (h *StatusHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
