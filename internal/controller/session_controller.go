package controller

import (
	"careercoach-be/internal/dto"
	"careercoach-be/internal/pkg/serverutils"
	"careercoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	AppendTurn(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Start)
	h.Post(":id/turns", c.AppendTurn)
	h.Post(":id/analyze", c.Analyze)
	h.Get(":id", c.Show)
}

func localUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)

	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start session", res))
}

func (c *sessionController) AppendTurn(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.AppendTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.AppendTurn(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success append turn", res))
}

func (c *sessionController) Analyze(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Analyze(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))
	includeTurns := ctx.QueryBool("include_turns", true)

	res, err := c.sessionService.GetDetail(ctx.Context(), userId, sessionId, includeTurns)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}
