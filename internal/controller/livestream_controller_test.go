package controller

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLivestreamService struct{}

func (s *stubLivestreamService) Create(ctx context.Context, hostId uuid.UUID) (*dto.CreateStreamResponse, error) {
	return &dto.CreateStreamResponse{RoomId: "abcdef0123456789", StartedAt: time.Now(), MaxDurationSeconds: 240}, nil
}

func (s *stubLivestreamService) End(ctx context.Context, roomId string, callerId uuid.UUID) error {
	return nil
}

func (s *stubLivestreamService) ListActive(ctx context.Context, req *dto.ListStreamsRequest) ([]*dto.StreamResponse, error) {
	return []*dto.StreamResponse{}, nil
}

func (s *stubLivestreamService) Get(ctx context.Context, roomId string) (*dto.StreamResponse, error) {
	return &dto.StreamResponse{RoomId: roomId, IsActive: true}, nil
}

func (s *stubLivestreamService) PublishSignal(ctx context.Context, roomId string, callerId uuid.UUID, req *dto.PublishSignalRequest) (*dto.SignalMessageResponse, error) {
	return &dto.SignalMessageResponse{}, nil
}

func (s *stubLivestreamService) PollSignals(ctx context.Context, roomId string, callerId uuid.UUID, since int64) (*dto.PollSignalsResponse, error) {
	return &dto.PollSignalsResponse{Messages: []dto.SignalMessageResponse{}}, nil
}

func (s *stubLivestreamService) ExpireStale(ctx context.Context) (int, error) { return 0, nil }

func (s *stubLivestreamService) IsRoomActive(ctx context.Context, roomId string) (bool, error) {
	return true, nil
}

func newLivestreamTestApp() *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewLivestreamController(&stubLivestreamService{}).RegisterRoutes(app.Group("/api"))
	return app
}

func TestLivestreamDiscoveryIsPublic(t *testing.T) {
	app := newLivestreamTestApp()

	res, err := app.Test(httptest.NewRequest("GET", "/api/livestream/v1/active", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/api/livestream/v1/abcdef0123456789", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestLivestreamMutationsRequireToken(t *testing.T) {
	app := newLivestreamTestApp()

	for _, route := range []struct {
		method string
		path   string
	}{
		{"POST", "/api/livestream/v1"},
		{"POST", "/api/livestream/v1/abcdef0123456789/end"},
		{"POST", "/api/livestream/v1/abcdef0123456789/signal"},
		{"GET", "/api/livestream/v1/abcdef0123456789/signal"},
	} {
		res, err := app.Test(httptest.NewRequest(route.method, route.path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode, "%s %s", route.method, route.path)
	}
}
