package controller

import (
	"pairprep-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetToken(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/chat")
	h.Use(auth)
	h.Get("/token", c.GetToken)
}

// GetToken issues a client-side messaging token for the calling user.
func (c *chatController) GetToken(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetToken(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
