package controller

import (
	"pairprep-be/internal/dto"
	"pairprep-be/internal/pkg/serverutils"
	"pairprep-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Create(ctx *fiber.Ctx) error
	GetActive(ctx *fiber.Ctx) error
	GetMine(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Join(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/sessions")
	h.Use(auth)
	h.Post("", c.Create)
	h.Get("/active", c.GetActive)
	h.Get("/mine", c.GetMine)
	h.Get("/:id", c.Show)
	h.Post("/:id/join", c.Join)
	h.Post("/:id/end", c.End)
}

func actingUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("Invalid session id")
	}
	return id, nil
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(dto.SessionEnvelope{Session: res})
}

func (c *sessionController) GetActive(ctx *fiber.Ctx) error {
	res, err := c.service.GetActive(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(dto.SessionListEnvelope{Sessions: res})
}

func (c *sessionController) GetMine(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetMine(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.SessionListEnvelope{Sessions: res})
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.SessionEnvelope{Session: res})
}

func (c *sessionController) Join(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Join(ctx.Context(), id, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.SessionEnvelope{Session: res})
}

func (c *sessionController) End(ctx *fiber.Ctx) error {
	userId, err := actingUserId(ctx)
	if err != nil {
		return err
	}
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.End(ctx.Context(), id, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.EndSessionEnvelope{
		Session: res,
		Message: "Session ended successfully",
	})
}
