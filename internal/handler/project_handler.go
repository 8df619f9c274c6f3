package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/dto"
	"github.com/unimanage/unimanage-api/internal/service"
	"github.com/unimanage/unimanage-api/internal/utils"
)

// ProjectHandler wires project HTTP routes.
type ProjectHandler struct {
	service service.ProjectService
	logger  zerolog.Logger
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(service service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.With().Str("component", "project_handler").Logger(),
	}
}

// RegisterAPI attaches the project collection endpoints.
func (h *ProjectHandler) RegisterAPI(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterInteractive attaches the form-flow equivalents, which reply
// with a redirect target instead of a rendered page.
func (h *ProjectHandler) RegisterInteractive(router fiber.Router) {
	router.Post("/create_project", h.create)
	router.Get("/projects_list", h.list)
}

func (h *ProjectHandler) list(c *fiber.Ctx) error {
	projects, err := h.service.List(c.Context(), userIDFromContext(c))
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "projects retrieved", projects)
}

func (h *ProjectHandler) create(c *fiber.Ctx) error {
	var payload dto.ProjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Project created successfully", created)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := h.service.Get(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, err := h.service.Update(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "project updated", project)
}

func (h *ProjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), userIDFromContext(c), id); err != nil {
		return serviceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "project deleted", fiber.Map{"id": id})
}
