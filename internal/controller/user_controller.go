package controller

import (
	"pairprep-be/internal/dto"
	"pairprep-be/internal/pkg/serverutils"
	"pairprep-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	DeleteAccount(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/users")
	h.Use(auth)
	h.Get("/me", c.GetProfile)
	h.Put("/me", c.UpdateProfile)
	h.Delete("/me", c.DeleteAccount)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update profile", res))
}

func (c *userController) DeleteAccount(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteAccount(ctx.Context(), userId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Account deleted", struct{}{}))
}
