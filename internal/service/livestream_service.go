package service

import (
	"context"
	"errors"
	"time"

	"rap-for-money-be/internal/config"
	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/metrics"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/pkg/serverutils"
	"rap-for-money-be/internal/repository/memory"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/internal/signaling"
	"rap-for-money-be/pkg/events"
	pktNats "rap-for-money-be/pkg/nats"
	"rap-for-money-be/pkg/presence"
	"rap-for-money-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const roomIdAttempts = 5

type ILivestreamService interface {
	Create(ctx context.Context, hostId uuid.UUID) (*dto.CreateStreamResponse, error)
	End(ctx context.Context, roomId string, callerId uuid.UUID) error
	ListActive(ctx context.Context, req *dto.ListStreamsRequest) ([]*dto.StreamResponse, error)
	Get(ctx context.Context, roomId string) (*dto.StreamResponse, error)
	PublishSignal(ctx context.Context, roomId string, callerId uuid.UUID, req *dto.PublishSignalRequest) (*dto.SignalMessageResponse, error)
	PollSignals(ctx context.Context, roomId string, callerId uuid.UUID, since int64) (*dto.PollSignalsResponse, error)

	// ExpireStale force-ends every active stream past its duration cap.
	// Called by the background sweeper; safe to run concurrently with lazy
	// expiry on the request path.
	ExpireStale(ctx context.Context) (int, error)

	// IsRoomActive satisfies signaling.SessionChecker so the relay can gate
	// publish and poll on live session state.
	IsRoomActive(ctx context.Context, roomId string) (bool, error)
}

type livestreamService struct {
	uowFactory     unitofwork.RepositoryFactory
	relay          *signaling.Relay
	hostCache      *memory.HostCache
	presence       *presence.Tracker
	eventPublisher *pktNats.Publisher
	metrics        *metrics.Metrics
	logger         logger.ILogger
	streamCfg      config.StreamConfig

	now func() time.Time
}

func NewLivestreamService(
	uowFactory unitofwork.RepositoryFactory,
	relay *signaling.Relay,
	hostCache *memory.HostCache,
	presenceTracker *presence.Tracker,
	eventPublisher *pktNats.Publisher,
	m *metrics.Metrics,
	log logger.ILogger,
	streamCfg config.StreamConfig,
) ILivestreamService {
	return &livestreamService{
		uowFactory:     uowFactory,
		relay:          relay,
		hostCache:      hostCache,
		presence:       presenceTracker,
		eventPublisher: eventPublisher,
		metrics:        m,
		logger:         log,
		streamCfg:      streamCfg,
		now:            time.Now,
	}
}

// IsRoomActive implements signaling.SessionChecker. It also performs the
// lazy expiry check: a poll or publish against a stream past its cap is the
// moment the stream gets ended.
func (s *livestreamService) IsRoomActive(ctx context.Context, roomId string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stream, err := uow.LivestreamRepository().FindOne(ctx, specification.ByRoomId{RoomId: roomId})
	if err != nil {
		return false, err
	}
	if stream == nil || !stream.IsActive {
		return false, nil
	}
	if stream.Expired(s.now()) {
		// The relay invokes this checker while holding the room's mailbox
		// lock, so the mailbox teardown must not run on this goroutine or
		// it would re-enter that lock.
		s.finishStream(ctx, uow, stream)
		go s.teardownRoom(context.Background(), stream.RoomId)
		return false, nil
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *livestreamService) Create(ctx context.Context, hostId uuid.UUID) (*dto.CreateStreamResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := s.now()

	existing, err := uow.LivestreamRepository().FindOne(ctx,
		specification.HostedBy{HostID: hostId},
		specification.ActiveStreams{},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.Expired(now) {
			return nil, serverutils.NewConflictError("An active stream already exists for this host")
		}
		// The previous stream ran out its clock but nobody touched it since.
		s.expire(ctx, uow, existing)
	}

	var roomId string
	for i := 0; i < roomIdAttempts; i++ {
		candidate, err := utils.GenerateRoomId()
		if err != nil {
			return nil, err
		}
		// Checked against every stream ever created, not just active ones;
		// a reused token would bleed old signaling context into a new room.
		taken, err := uow.LivestreamRepository().RoomIdExists(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !taken {
			roomId = candidate
			break
		}
	}
	if roomId == "" {
		return nil, errors.New("could not allocate a unique room id")
	}

	stream := &entity.LiveStream{
		Id:                 uuid.New(),
		HostId:             hostId,
		RoomId:             roomId,
		IsActive:           true,
		StartedAt:          now,
		MaxDurationSeconds: s.streamCfg.MaxDurationSeconds,
	}
	if err := uow.LivestreamRepository().Create(ctx, stream); err != nil {
		// The partial unique index on host_id is the last line of defense
		// when two create calls race past the check above.
		if isUniqueViolation(err) {
			return nil, serverutils.NewConflictError("An active stream already exists for this host")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncStreamsStarted()
	}
	s.publishStreamEvent(ctx, events.TypeStreamStarted, stream, "")

	return &dto.CreateStreamResponse{
		RoomId:             stream.RoomId,
		StartedAt:          stream.StartedAt,
		MaxDurationSeconds: stream.MaxDurationSeconds,
	}, nil
}

func (s *livestreamService) End(ctx context.Context, roomId string, callerId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stream, err := uow.LivestreamRepository().FindOne(ctx, specification.ByRoomId{RoomId: roomId})
	if err != nil {
		return err
	}
	if stream == nil {
		return serverutils.NewNotFoundError("Stream not found")
	}
	if stream.HostId != callerId {
		return serverutils.NewAuthorizationError("Only the host can end a stream")
	}

	transitioned, err := uow.LivestreamRepository().End(ctx, stream.Id, s.now())
	if err != nil {
		return err
	}

	// The mailbox purge runs even when another path already flipped the
	// row; clearing twice is harmless and a leaked mailbox is not.
	s.teardownRoom(ctx, roomId)

	if transitioned {
		if s.metrics != nil {
			s.metrics.IncStreamsEnded()
		}
		s.publishStreamEvent(ctx, events.TypeStreamEnded, stream, "host")
	}
	// Ending an already-ended stream is a success; the caller's intent
	// holds either way.
	return nil
}

func (s *livestreamService) ListActive(ctx context.Context, req *dto.ListStreamsRequest) ([]*dto.StreamResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	streams, err := uow.LivestreamRepository().FindAll(ctx,
		specification.ActiveStreams{},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]*dto.StreamResponse, 0, len(streams))
	for _, stream := range streams {
		if stream.Expired(now) {
			s.expire(ctx, uow, stream)
			continue
		}
		res, err := s.toResponse(ctx, uow, stream)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

func (s *livestreamService) Get(ctx context.Context, roomId string) (*dto.StreamResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stream, err := uow.LivestreamRepository().FindOne(ctx, specification.ByRoomId{RoomId: roomId})
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, serverutils.NewNotFoundError("Stream not found")
	}

	if stream.IsActive && stream.Expired(s.now()) {
		s.expire(ctx, uow, stream)
		// Re-read so the response reflects the ended state.
		stream, err = uow.LivestreamRepository().FindOne(ctx, specification.ByRoomId{RoomId: roomId})
		if err != nil {
			return nil, err
		}
		if stream == nil {
			return nil, serverutils.NewNotFoundError("Stream not found")
		}
	}

	return s.toResponse(ctx, uow, stream)
}

func (s *livestreamService) PublishSignal(ctx context.Context, roomId string, callerId uuid.UUID, req *dto.PublishSignalRequest) (*dto.SignalMessageResponse, error) {
	msg := entity.SignalMessage{
		Type: req.Type,
		From: callerId,
		To:   req.To,
		Data: req.Data,
	}
	accepted, err := s.relay.Publish(ctx, roomId, msg)
	if err != nil {
		return nil, err
	}
	return &dto.SignalMessageResponse{
		Type:      accepted.Type,
		From:      accepted.From,
		To:        accepted.To,
		Data:      accepted.Data,
		Timestamp: accepted.Timestamp,
	}, nil
}

func (s *livestreamService) PollSignals(ctx context.Context, roomId string, callerId uuid.UUID, since int64) (*dto.PollSignalsResponse, error) {
	msgs, err := s.relay.Poll(ctx, roomId, since)
	if err != nil {
		return nil, err
	}

	// Polling doubles as a viewer heartbeat for the "watching now" count.
	if s.presence != nil {
		if err := s.presence.Touch(ctx, roomId, callerId.String()); err != nil {
			s.logger.Warn("livestream", "Failed to record viewer presence", map[string]interface{}{
				"room_id": roomId,
				"error":   err.Error(),
			})
		}
	}

	out := make([]dto.SignalMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.SignalMessageResponse{
			Type:      m.Type,
			From:      m.From,
			To:        m.To,
			Data:      m.Data,
			Timestamp: m.Timestamp,
		})
	}
	return &dto.PollSignalsResponse{Messages: out}, nil
}

func (s *livestreamService) ExpireStale(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cutoff := s.now().Add(-time.Duration(s.streamCfg.MaxDurationSeconds) * time.Second)

	stale, err := uow.LivestreamRepository().FindAll(ctx,
		specification.ActiveStreams{},
		specification.StartedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return 0, err
	}

	expired := 0
	now := s.now()
	for _, stream := range stale {
		if !stream.Expired(now) {
			continue
		}
		if s.expire(ctx, uow, stream) {
			expired++
		}
	}
	return expired, nil
}

// expire performs the time-based Active to Ended transition. Idempotent:
// the CAS in the repository means only one of the racing paths (sweeper,
// lazy check, explicit end) actually flips the row.
func (s *livestreamService) expire(ctx context.Context, uow unitofwork.UnitOfWork, stream *entity.LiveStream) bool {
	transitioned := s.finishStream(ctx, uow, stream)
	s.teardownRoom(ctx, stream.RoomId)
	return transitioned
}

// finishStream flips the row, ended-at stamped at the duration cap rather
// than wall clock, and emits the ended event when this call won the CAS.
func (s *livestreamService) finishStream(ctx context.Context, uow unitofwork.UnitOfWork, stream *entity.LiveStream) bool {
	endedAt := stream.StartedAt.Add(time.Duration(stream.MaxDurationSeconds) * time.Second)
	transitioned, err := uow.LivestreamRepository().End(ctx, stream.Id, endedAt)
	if err != nil {
		s.logger.Error("livestream", "Failed to expire stream", map[string]interface{}{
			"room_id": stream.RoomId,
			"error":   err.Error(),
		})
		return false
	}

	if transitioned {
		if s.metrics != nil {
			s.metrics.IncStreamsExpired()
		}
		s.publishStreamEvent(ctx, events.TypeStreamEnded, stream, "expired")
		s.logger.Info("livestream", "Stream expired", map[string]interface{}{
			"room_id": stream.RoomId,
			"host_id": stream.HostId.String(),
		})
	}
	return transitioned
}

func (s *livestreamService) teardownRoom(ctx context.Context, roomId string) {
	s.relay.ClearRoom(roomId)
	if s.presence != nil {
		if err := s.presence.Clear(ctx, roomId); err != nil {
			s.logger.Warn("livestream", "Failed to clear viewer set", map[string]interface{}{
				"room_id": roomId,
				"error":   err.Error(),
			})
		}
	}
}

func (s *livestreamService) publishStreamEvent(ctx context.Context, eventType string, stream *entity.LiveStream, reason string) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"room_id": stream.RoomId,
		"host_id": stream.HostId.String(),
	}
	if reason != "" {
		data["reason"] = reason
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("livestream", "Failed to publish stream event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func (s *livestreamService) toResponse(ctx context.Context, uow unitofwork.UnitOfWork, stream *entity.LiveStream) (*dto.StreamResponse, error) {
	res := &dto.StreamResponse{
		Id:                 stream.Id,
		RoomId:             stream.RoomId,
		IsActive:           stream.IsActive,
		StartedAt:          stream.StartedAt,
		EndedAt:            stream.EndedAt,
		MaxDurationSeconds: stream.MaxDurationSeconds,
	}

	host, err := s.hostSummary(ctx, uow, stream.HostId)
	if err != nil {
		return nil, err
	}
	res.Host = host

	if s.presence != nil && stream.IsActive {
		res.ViewerCount = s.presence.Count(ctx, stream.RoomId)
	}
	return res, nil
}

func (s *livestreamService) hostSummary(ctx context.Context, uow unitofwork.UnitOfWork, hostId uuid.UUID) (dto.AuthorSummary, error) {
	if s.hostCache != nil {
		if cached, ok := s.hostCache.Get(hostId); ok {
			return dto.AuthorSummary{
				Id:          cached.UserId,
				Username:    cached.Username,
				DisplayName: cached.DisplayName,
				AvatarURL:   cached.AvatarURL,
			}, nil
		}
	}

	host, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: hostId})
	if err != nil {
		return dto.AuthorSummary{}, err
	}
	if host == nil {
		return dto.AuthorSummary{Id: hostId}, nil
	}

	if s.hostCache != nil {
		s.hostCache.Save(&memory.HostProjection{
			UserId:      host.Id,
			Username:    host.Username,
			DisplayName: host.DisplayName,
			AvatarURL:   host.AvatarURL,
		})
	}
	return dto.AuthorSummary{
		Id:          host.Id,
		Username:    host.Username,
		DisplayName: host.DisplayName,
		AvatarURL:   host.AvatarURL,
	}, nil
}
