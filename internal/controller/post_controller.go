package controller

import (
	"fmt"
	"path/filepath"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/service"
	"rap-for-money-be/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPostController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Feed(ctx *fiber.Ctx) error
	Trending(ctx *fiber.Ctx) error
	TrendingHashtags(ctx *fiber.Ctx) error
	ByHashtag(ctx *fiber.Ctx) error
	ByAuthor(ctx *fiber.Ctx) error
	Like(ctx *fiber.Ctx) error
	Unlike(ctx *fiber.Ctx) error
}

type postController struct {
	service   service.IPostService
	uploadDir string
}

func NewPostController(service service.IPostService, uploadDir string) IPostController {
	return &postController{service: service, uploadDir: uploadDir}
}

func (c *postController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/post/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Post("/upload", c.Upload)
	h.Get("/feed", c.Feed)
	h.Get("/trending", c.Trending)
	h.Get("/hashtags/trending", c.TrendingHashtags)
	h.Get("/hashtag/:tag", c.ByHashtag)
	h.Get("/user/:username", c.ByAuthor)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/like", c.Like)
	h.Delete("/:id/like", c.Unlike)
}

func (c *postController) Create(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreatePostRequest
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
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Post created", res))
}

// Upload stores a media file and returns the URL to reference from a post.
func (c *postController) Upload(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	file, err := ctx.FormFile("media")
	if err != nil {
		return serverutils.NewValidationError("Missing media file")
	}

	contentType := file.Header.Get("Content-Type")
	var mediaType string
	switch {
	case utils.IsImageFile(contentType):
		mediaType = "image"
	case utils.IsVideoFile(contentType):
		mediaType = "video"
	default:
		return serverutils.NewValidationError("Media must be an image or video")
	}

	filename := fmt.Sprintf("%s_%s%s", callerId.String(), uuid.NewString(), filepath.Ext(file.Filename))
	if err := ctx.SaveFile(file, filepath.Join(c.uploadDir, filename)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Upload complete", fiber.Map{
		"media_url":  "/uploads/" + filename,
		"media_type": mediaType,
	}))
}

func (c *postController) Show(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	postId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid post id")
	}

	res, err := c.service.Get(ctx.Context(), callerId, postId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *postController) Delete(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	postId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid post id")
	}

	if err := c.service.Delete(ctx.Context(), callerId, postId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Post deleted", nil))
}

func feedRequest(ctx *fiber.Ctx) *dto.FeedRequest {
	return &dto.FeedRequest{
		Page:  ctx.QueryInt("page", 1),
		Limit: ctx.QueryInt("limit", 20),
	}
}

func (c *postController) Feed(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Feed(ctx.Context(), callerId, feedRequest(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *postController) Trending(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Trending(ctx.Context(), callerId, feedRequest(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *postController) TrendingHashtags(ctx *fiber.Ctx) error {
	res, err := c.service.TrendingHashtags(ctx.Context(), ctx.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *postController) ByHashtag(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ByHashtag(ctx.Context(), callerId, ctx.Params("tag"), feedRequest(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *postController) ByAuthor(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ByAuthor(ctx.Context(), callerId, ctx.Params("username"), feedRequest(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *postController) Like(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	postId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid post id")
	}

	res, err := c.service.Like(ctx.Context(), callerId, postId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Liked", res))
}

func (c *postController) Unlike(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	postId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid post id")
	}

	res, err := c.service.Unlike(ctx.Context(), callerId, postId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Unliked", res))
}
