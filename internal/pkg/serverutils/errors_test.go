package serverutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAppErrorUnwrapsWrappedErrors(t *testing.T) {
	base := NewInactiveRoomError()
	wrapped := fmt.Errorf("publish failed: %w", base)

	appErr, ok := IsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, appErr.Status)
	assert.Equal(t, "room_inactive", appErr.Code)

	_, ok = IsAppError(fmt.Errorf("plain error"))
	assert.False(t, ok)
}

func TestErrorHandlerMiddlewareMapsAppErrors(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return NewConflictError("An active stream already exists for this host")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fmt.Errorf("pg: connection refused")
	})

	res, err := app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)

	body, _ := io.ReadAll(res.Body)
	var envelope ErrResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, fiber.StatusConflict, envelope.Code)
	assert.Equal(t, "An active stream already exists for this host", envelope.Message)

	// Internal errors never leak detail to the client.
	res, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)

	body, _ = io.ReadAll(res.Body)
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "Server error", envelope.Message)
}

func TestValidateRequestFoldsFieldFailures(t *testing.T) {
	type createTip struct {
		ReceiverId string  `validate:"required,uuid"`
		Amount     float64 `validate:"required,gt=0"`
	}

	err := ValidateRequest(&createTip{ReceiverId: "not-a-uuid", Amount: -5})
	require.Error(t, err)

	appErr, ok := IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Message, "receiverid failed on 'uuid'")
	assert.Contains(t, appErr.Message, "amount failed on 'gt'")

	assert.NoError(t, ValidateRequest(&createTip{
		ReceiverId: "0b8e4a9e-8f2a-4c6d-9d3e-0a1b2c3d4e5f",
		Amount:     5,
	}))
}
