package controller

import (
	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICommentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type commentController struct {
	service service.ICommentService
}

func NewCommentController(service service.ICommentService) ICommentController {
	return &commentController{service: service}
}

func (c *commentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/post/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/:id/comments", c.Create)
	h.Get("/:id/comments", c.List)
	h.Delete("/comments/:id", c.Delete)
}

func (c *commentController) Create(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	postId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid post id")
	}

	var req dto.CreateCommentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), callerId, postId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Comment created", res))
}

func (c *commentController) List(ctx *fiber.Ctx) error {
	postId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid post id")
	}

	res, err := c.service.List(ctx.Context(), postId, ctx.QueryInt("page", 1), ctx.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *commentController) Delete(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	commentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid comment id")
	}

	if err := c.service.Delete(ctx.Context(), callerId, commentId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Comment deleted", nil))
}
