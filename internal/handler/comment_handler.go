package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/service"
	"github.com/unimanage/unimanage-api/internal/utils"
)

// CommentHandler wires comment HTTP routes.
type CommentHandler struct {
	service service.CommentService
	logger  zerolog.Logger
}

// NewCommentHandler constructs the handler.
func NewCommentHandler(service service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		logger:  logger.With().Str("component", "comment_handler").Logger(),
	}
}

// RegisterAPI attaches the comment collection endpoint, which is
// scoped to the caller's own projects.
func (h *CommentHandler) RegisterAPI(router fiber.Router) {
	router.Get("", h.listOwned)
}

// RegisterProject attaches the project-scoped comment endpoints,
// which are open to any authenticated caller.
func (h *CommentHandler) RegisterProject(router fiber.Router) {
	router.Get("/projects/:id/comments", h.listByProject)
	router.Post("/projects/:id/comments", h.add)
}

func (h *CommentHandler) listOwned(c *fiber.Ctx) error {
	comments, err := h.service.ListOwned(c.Context(), userIDFromContext(c))
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "comments retrieved", comments)
}

func (h *CommentHandler) listByProject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	comments, err := h.service.ListByProject(c.Context(), id)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "comments retrieved", comments)
}

func (h *CommentHandler) add(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.Add(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Comment added successfully", fiber.Map{
		"comment":      comment,
		"redirect_url": fmt.Sprintf("/project/projects/%d/comments/", id),
	})
}
