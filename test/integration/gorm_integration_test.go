package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.LivestreamRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Livestream End CAS", func(t *testing.T) {
		ctx := context.Background()

		host := &entity.User{
			Id:           uuid.New(),
			Username:     "it-host-" + uuid.New().String()[:8],
			DisplayName:  "Integration Host",
			Email:        "it-" + uuid.New().String() + "@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, uow.UserRepository().Create(ctx, host))

		stream := &entity.LiveStream{
			Id:                 uuid.New(),
			HostId:             host.Id,
			RoomId:             uuid.New().String()[:16],
			IsActive:           true,
			StartedAt:          time.Now(),
			MaxDurationSeconds: 240,
		}
		require.NoError(t, uow.LivestreamRepository().Create(ctx, stream))

		// First End wins the transition, second is a no-op.
		transitioned, err := uow.LivestreamRepository().End(ctx, stream.Id, time.Now())
		require.NoError(t, err)
		assert.True(t, transitioned)

		transitioned, err = uow.LivestreamRepository().End(ctx, stream.Id, time.Now())
		require.NoError(t, err)
		assert.False(t, transitioned)

		got, err := uow.LivestreamRepository().FindOne(ctx, specification.ByRoomId{RoomId: stream.RoomId})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.IsActive)
		assert.NotNil(t, got.EndedAt)
	})

	t.Run("Check One Active Stream Per Host", func(t *testing.T) {
		ctx := context.Background()

		host := &entity.User{
			Id:           uuid.New(),
			Username:     "it-host-" + uuid.New().String()[:8],
			DisplayName:  "Integration Host",
			Email:        "it-" + uuid.New().String() + "@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, uow.UserRepository().Create(ctx, host))

		first := &entity.LiveStream{
			Id:                 uuid.New(),
			HostId:             host.Id,
			RoomId:             uuid.New().String()[:16],
			IsActive:           true,
			StartedAt:          time.Now(),
			MaxDurationSeconds: 240,
		}
		require.NoError(t, uow.LivestreamRepository().Create(ctx, first))

		second := &entity.LiveStream{
			Id:                 uuid.New(),
			HostId:             host.Id,
			RoomId:             uuid.New().String()[:16],
			IsActive:           true,
			StartedAt:          time.Now(),
			MaxDurationSeconds: 240,
		}
		// The partial unique index rejects a second concurrent active stream.
		err := uow.LivestreamRepository().Create(ctx, second)
		assert.Error(t, err)
	})
}
