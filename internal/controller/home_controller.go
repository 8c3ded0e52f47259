package controller

import (
	"careercoach-be/internal/pkg/serverutils"
	"careercoach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHomeController interface {
	RegisterRoutes(r fiber.Router)
	Dashboard(ctx *fiber.Ctx) error
}

type homeController struct {
	homeService service.IHomeService
}

func NewHomeController(homeService service.IHomeService) IHomeController {
	return &homeController{
		homeService: homeService,
	}
}

func (c *homeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/home")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Dashboard)
}

func (c *homeController) Dashboard(ctx *fiber.Ctx) error {
	userId := localUserId(ctx)

	res, err := c.homeService.Dashboard(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show home dashboard", res))
}
