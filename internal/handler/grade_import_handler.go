package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/eskwela-dev/eskwela-go-api/internal/dto"
	"github.com/eskwela-dev/eskwela-go-api/internal/middleware"
	"github.com/eskwela-dev/eskwela-go-api/internal/service"
	"github.com/eskwela-dev/eskwela-go-api/internal/utils"
)

// GradeImportHandler manages spreadsheet grade reconciliation endpoints.
type GradeImportHandler struct {
	service service.GradeImportService
	logger  zerolog.Logger
}

// NewGradeImportHandler builds a grade import handler instance.
func NewGradeImportHandler(service service.GradeImportService, logger zerolog.Logger) *GradeImportHandler {
	return &GradeImportHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_import_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradeImportHandler) Register(router fiber.Router) {
	router.Post("/imports", h.importGrades)
	router.Get("/template", h.template)
	router.Get("/batches", h.listBatches)
	router.Delete("/batches/:id", h.deleteBatch)
}

func (h *GradeImportHandler) importGrades(c *fiber.Ctx) error {
	var payload dto.GradeImportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	ctx := middleware.ContextWithCorrelation(c.UserContext(), middleware.GetCorrelationID(c))
	result, err := h.service.Import(ctx, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	if !result.Success {
		return utils.SendSuccessWithStatus(c, fiber.StatusUnprocessableEntity, "grade import completed with errors", result)
	}
	return utils.SendSuccess(c, "grades imported", result)
}

func (h *GradeImportHandler) template(c *fiber.Ctx) error {
	rosterCtx := dto.RosterContext{
		Section:    c.Query("section"),
		Track:      c.Query("track"),
		Strand:     c.Query("strand"),
		GradeLevel: c.Query("grade_level"),
		SchoolYear: c.Query("school_year"),
		Term:       c.Query("term"),
	}

	template, err := h.service.GenerateTemplate(c.Context(), rosterCtx)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "template generated", template)
}

func (h *GradeImportHandler) listBatches(c *fiber.Ctx) error {
	activityID, err := parseQueryUint(c, "activity_id")
	if err != nil || activityID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "activity_id is required")
	}

	batches, err := h.service.ListBatches(c.Context(), *activityID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grading batches retrieved", batches)
}

func (h *GradeImportHandler) deleteBatch(c *fiber.Ctx) error {
	batchID := c.Params("id")
	if batchID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "batch id is required")
	}

	ctx := middleware.ContextWithCorrelation(c.UserContext(), middleware.GetCorrelationID(c))
	if err := h.service.DeleteBatch(ctx, batchID, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grading batch reverted", nil)
}

func (h *GradeImportHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	case errors.Is(err, service.ErrBatchNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grading batch not found")
	case errors.Is(err, service.ErrEmptyRoster):
		return utils.SendError(c, fiber.StatusNotFound, "no students enrolled in the given roster")
	case errors.Is(err, service.ErrNotAnAssignment):
		return utils.SendError(c, fiber.StatusBadRequest, "grades can only be imported for assignments")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
