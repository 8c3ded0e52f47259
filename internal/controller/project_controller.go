package controller

import (
	"careercoach-be/internal/dto"
	"careercoach-be/internal/pkg/serverutils"
	"careercoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type projectController struct {
	projectService service.IProjectService
}

func NewProjectController(projectService service.IProjectService) IProjectController {
	return &projectController{
		projectService: projectService,
	}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/projects")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)

	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create project", res))
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)

	res, err := c.projectService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list projects", res))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	projectId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.projectService.Show(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show project", res))
}
