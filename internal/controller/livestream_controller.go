package controller

import (
	"strconv"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILivestreamController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
	ListActive(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	PublishSignal(ctx *fiber.Ctx) error
	PollSignals(ctx *fiber.Ctx) error
}

type livestreamController struct {
	service service.ILivestreamService
}

func NewLivestreamController(service service.ILivestreamService) ILivestreamController {
	return &livestreamController{service: service}
}

func (c *livestreamController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/livestream/v1")
	// Discovery stays public; anything that writes or identifies a caller
	// goes through the token.
	h.Post("", serverutils.JwtMiddleware, c.Create)
	h.Get("/active", c.ListActive)
	h.Get("/:roomId", c.Show)
	h.Post("/:roomId/end", serverutils.JwtMiddleware, c.End)
	h.Post("/:roomId/signal", serverutils.JwtMiddleware, c.PublishSignal)
	h.Get("/:roomId/signal", serverutils.JwtMiddleware, c.PollSignals)
}

func (c *livestreamController) Create(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), callerId)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Stream started", res))
}

func (c *livestreamController) End(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.End(ctx.Context(), ctx.Params("roomId"), callerId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Stream ended", nil))
}

func (c *livestreamController) ListActive(ctx *fiber.Ctx) error {
	req := &dto.ListStreamsRequest{
		Page:  ctx.QueryInt("page", 1),
		Limit: ctx.QueryInt("limit", 20),
	}

	res, err := c.service.ListActive(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *livestreamController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.Context(), ctx.Params("roomId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *livestreamController) PublishSignal(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	var req dto.PublishSignalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.PublishSignal(ctx.Context(), ctx.Params("roomId"), callerId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Signal accepted", res))
}

func (c *livestreamController) PollSignals(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	since, err := strconv.ParseInt(ctx.Query("since", "0"), 10, 64)
	if err != nil {
		return serverutils.NewValidationError("Invalid since timestamp")
	}
	res, err := c.service.PollSignals(ctx.Context(), ctx.Params("roomId"), callerId, since)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
