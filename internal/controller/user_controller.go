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

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Me(ctx *fiber.Ctx) error
	Profile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	UploadAvatar(ctx *fiber.Ctx) error
	Follow(ctx *fiber.Ctx) error
	Unfollow(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type userController struct {
	service   service.IUserService
	uploadDir string
}

func NewUserController(service service.IUserService, uploadDir string) IUserController {
	return &userController{service: service, uploadDir: uploadDir}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/me", c.Me)
	h.Put("/me", c.UpdateProfile)
	h.Post("/me/avatar", c.UploadAvatar)
	h.Get("/search", c.Search)
	h.Get("/:username", c.Profile)
	h.Post("/:id/follow", c.Follow)
	h.Delete("/:id/follow", c.Unfollow)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetById(ctx.Context(), callerId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *userController) Profile(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.Context(), callerId, ctx.Params("username"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.Context(), callerId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) UploadAvatar(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		return serverutils.NewValidationError("Missing avatar file")
	}
	if !utils.IsImageFile(file.Header.Get("Content-Type")) {
		return serverutils.NewValidationError("Avatar must be an image")
	}

	filename := fmt.Sprintf("avatar_%s%s", callerId.String(), filepath.Ext(file.Filename))
	if err := ctx.SaveFile(file, filepath.Join(c.uploadDir, filename)); err != nil {
		return err
	}

	avatarURL := "/uploads/" + filename
	if err := c.service.UpdateAvatar(ctx.Context(), callerId, avatarURL); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Avatar updated", fiber.Map{"avatar_url": avatarURL}))
}

func (c *userController) Follow(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	targetId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid user id")
	}

	res, err := c.service.Follow(ctx.Context(), callerId, targetId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Followed", res))
}

func (c *userController) Unfollow(ctx *fiber.Ctx) error {
	callerId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}
	targetId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("Invalid user id")
	}

	res, err := c.service.Unfollow(ctx.Context(), callerId, targetId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Unfollowed", res))
}

func (c *userController) Search(ctx *fiber.Ctx) error {
	req := dto.SearchUsersRequest{
		Query: ctx.Query("q"),
		Page:  ctx.QueryInt("page", 1),
		Limit: ctx.QueryInt("limit", 20),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
