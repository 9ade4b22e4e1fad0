package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classdesk/classwork-api/internal/dto"
	"github.com/classdesk/classwork-api/internal/service"
	"github.com/classdesk/classwork-api/internal/utils"
)

// StudentHandler wires the student-side routes.
type StudentHandler struct {
	service   service.StudentService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, validator *validator.Validate, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the router group. The submit route
// is expected to carry a rate limiter, wired by the router.
func (h *StudentHandler) Register(router fiber.Router, submitLimiter fiber.Handler) {
	router.Get("/assignments", h.listPublished)
	router.Get("/submissions", h.listMine)

	if submitLimiter != nil {
		router.Post("/assignments/:id/submit", submitLimiter, h.submit)
	} else {
		router.Post("/assignments/:id/submit", h.submit)
	}
}

func (h *StudentHandler) listPublished(c *fiber.Ctx) error {
	assignments, err := h.service.ListPublished(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", fiber.Map{"assignments": assignments})
}

func (h *StudentHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Submit(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment submitted successfully", submission)
}

func (h *StudentHandler) listMine(c *fiber.Ctx) error {
	submissions, err := h.service.ListMine(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", fiber.Map{"submissions": submissions})
}

func (h *StudentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found or not available for submission")
	case errors.Is(err, service.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusBadRequest, "you have already submitted this assignment")
	case errors.Is(err, service.ErrValidation), isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
