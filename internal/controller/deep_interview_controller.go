package controller

import (
	"careercoach-be/internal/dto"
	"careercoach-be/internal/pkg/serverutils"
	"careercoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDeepInterviewController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Guide(ctx *fiber.Ctx) error
	Insight(ctx *fiber.Ctx) error
}

type deepInterviewController struct {
	deepInterviewService service.IDeepInterviewService
}

func NewDeepInterviewController(deepInterviewService service.IDeepInterviewService) IDeepInterviewController {
	return &deepInterviewController{
		deepInterviewService: deepInterviewService,
	}
}

func (c *deepInterviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/deep-interviews")
	h.Use(serverutils.JwtMiddleware)
	h.Post("sessions", c.Start)
	h.Post("sessions/:id/answers", c.Answer)
	h.Get("sessions/:id", c.Show)
	h.Post("sessions/:id/guide", c.Guide)
	h.Post("sessions/:id/insight", c.Insight)
}

func (c *deepInterviewController) Start(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)

	var req dto.DeepInterviewStartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.deepInterviewService.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start deep interview", res))
}

func (c *deepInterviewController) Answer(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.DeepInterviewAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.deepInterviewService.Answer(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit answer", res))
}

func (c *deepInterviewController) Show(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.deepInterviewService.GetSession(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show deep interview session", res))
}

func (c *deepInterviewController) Guide(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.deepInterviewService.GenerateGuide(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate improvement guide", res))
}

func (c *deepInterviewController) Insight(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.deepInterviewService.InsightDoc(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate insight document", res))
}
