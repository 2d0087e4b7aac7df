package controller

import (
	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITipController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Received(ctx *fiber.Ctx) error
	Sent(ctx *fiber.Ctx) error
	ForPost(ctx *fiber.Ctx) error
	Leaderboard(ctx *fiber.Ctx) error
}

type tipController struct {
	service service.ITipService
}

func NewTipController(service service.ITipService) ITipController {
	return &tipController{service: service}
}

func (c *tipController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tip/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("/received", c.Received)
	h.Get("/sent", c.Sent)
	h.Get("/post/:postId", c.ForPost)
	h.Get("/leaderboard", c.Leaderboard)
}

func (c *tipController) Create(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTipRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), callerId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Tip sent", res))
}

func (c *tipController) Received(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Received(ctx.Context(), callerId, ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *tipController) Sent(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Sent(ctx.Context(), callerId, ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *tipController) ForPost(ctx *fiber.Ctx) error {
	postId, err := uuid.Parse(ctx.Params("postId"))
	if err != nil {
		return serverutils.NewValidationError("Invalid post id")
	}

	res, err := c.service.ForPost(ctx.Context(), postId, ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *tipController) Leaderboard(ctx *fiber.Ctx) error {
	res, err := c.service.Leaderboard(ctx.Context(), ctx.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
