package controller

import (
	"careercoach-be/internal/dto"
	"careercoach-be/internal/pkg/serverutils"
	"careercoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMockInterviewController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
	Result(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
}

type mockInterviewController struct {
	mockInterviewService service.IMockInterviewService
}

func NewMockInterviewController(mockInterviewService service.IMockInterviewService) IMockInterviewController {
	return &mockInterviewController{
		mockInterviewService: mockInterviewService,
	}
}

func (c *mockInterviewController) RegisterRoutes(r fiber.Router) {
	starts := r.Group("/v1/projects/:projectId/mock-interviews")
	starts.Use(serverutils.JwtMiddleware)
	starts.Post("sessions", c.Start)

	h := r.Group("/v1/mock-interviews/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":id/answers", c.Answer)
	h.Get(":id/result", c.Result)
	h.Post(":id/save", c.Save)
}

func (c *mockInterviewController) Start(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	projectId, _ := uuid.Parse(ctx.Params("projectId"))

	var req dto.MockInterviewStartRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.mockInterviewService.Start(ctx.Context(), userId, projectId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start mock interview", res))
}

func (c *mockInterviewController) Answer(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.MockInterviewAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = sessionId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.mockInterviewService.Answer(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit answer", res))
}

func (c *mockInterviewController) Result(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.mockInterviewService.Result(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show mock interview result", res))
}

func (c *mockInterviewController) Save(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.mockInterviewService.Save(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save mock interview result", res))
}
