package controller

import (
	"careercoach-be/internal/dto"
	"careercoach-be/internal/pkg/serverutils"
	"careercoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISimulationController interface {
	RegisterRoutes(r fiber.Router)
	Preview(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	AppendTurn(ctx *fiber.Ctx) error
	Result(ctx *fiber.Ctx) error
}

type simulationController struct {
	simulationService service.ISimulationService
}

func NewSimulationController(simulationService service.ISimulationService) ISimulationController {
	return &simulationController{
		simulationService: simulationService,
	}
}

func (c *simulationController) RegisterRoutes(r fiber.Router) {
	starts := r.Group("/v1/projects/:projectId/simulations")
	starts.Use(serverutils.JwtMiddleware)
	starts.Get("preview", c.Preview)
	starts.Post("sessions", c.Start)

	h := r.Group("/v1/simulations/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":id", c.Show)
	h.Post(":id/turns", c.AppendTurn)
	h.Get(":id/result", c.Result)
}

func (c *simulationController) Preview(ctx *fiber.Ctx) error {
	projectId, _ := uuid.Parse(ctx.Params("projectId"))

	res, err := c.simulationService.Preview(ctx.Context(), projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show simulation preview", res))
}

func (c *simulationController) Start(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	projectId, _ := uuid.Parse(ctx.Params("projectId"))

	var req dto.SimulationStartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.simulationService.Start(ctx.Context(), userId, projectId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start simulation", res))
}

func (c *simulationController) Show(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.simulationService.GetSession(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show simulation session", res))
}

func (c *simulationController) AppendTurn(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.SimulationTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.simulationService.AppendTurn(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success append simulation turn", res))
}

func (c *simulationController) Result(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.simulationService.Result(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show simulation result", res))
}
