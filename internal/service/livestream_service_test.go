package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"rap-for-money-be/internal/config"
	"rap-for-money-be/internal/dto"
	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/repository/contract"
	"rap-for-money-be/internal/repository/memory"
	"rap-for-money-be/internal/repository/specification"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/internal/signaling"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rap-for-money-be/internal/pkg/serverutils"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeStreamStore backs the in-memory repositories. The mutex gives the
// Create path the same atomicity the partial unique index gives Postgres.
type fakeStreamStore struct {
	mu      sync.Mutex
	streams map[uuid.UUID]*entity.LiveStream
	users   map[uuid.UUID]*entity.User
}

func newFakeStreamStore() *fakeStreamStore {
	return &fakeStreamStore{
		streams: make(map[uuid.UUID]*entity.LiveStream),
		users:   make(map[uuid.UUID]*entity.User),
	}
}

func matchStream(stream *entity.LiveStream, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByRoomId:
			if stream.RoomId != s.RoomId {
				return false
			}
		case specification.ActiveStreams:
			if !stream.IsActive {
				return false
			}
		case specification.HostedBy:
			if stream.HostId != s.HostID {
				return false
			}
		case specification.StartedBefore:
			if stream.StartedAt.After(s.Cutoff) {
				return false
			}
		}
	}
	return true
}

type fakeLivestreamRepo struct {
	store *fakeStreamStore
}

func (r *fakeLivestreamRepo) Create(ctx context.Context, stream *entity.LiveStream) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.streams {
		if existing.HostId == stream.HostId && existing.IsActive {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *stream
	r.store.streams[stream.Id] = &cp
	return nil
}

func (r *fakeLivestreamRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LiveStream, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, stream := range r.store.streams {
		if matchStream(stream, specs) {
			cp := *stream
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLivestreamRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LiveStream, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.LiveStream
	for _, stream := range r.store.streams {
		if matchStream(stream, specs) {
			cp := *stream
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLivestreamRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeLivestreamRepo) RoomIdExists(ctx context.Context, roomId string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, stream := range r.store.streams {
		if stream.RoomId == roomId {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLivestreamRepo) End(ctx context.Context, id uuid.UUID, endedAt time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stream, ok := r.store.streams[id]
	if !ok || !stream.IsActive {
		return false, nil
	}
	stream.IsActive = false
	at := endedAt
	stream.EndedAt = &at
	return true, nil
}

type fakeUserRepo struct {
	store *fakeStreamStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if user, found := r.store.users[byID.ID]; found {
				cp := *user
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}

type fakeUow struct {
	store *fakeStreamStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository             { return &fakeUserRepo{store: u.store} }
func (u *fakeUow) FollowRepository() contract.FollowRepository         { return nil }
func (u *fakeUow) PostRepository() contract.PostRepository             { return nil }
func (u *fakeUow) CommentRepository() contract.CommentRepository       { return nil }
func (u *fakeUow) TipRepository() contract.TipRepository               { return nil }
func (u *fakeUow) LivestreamRepository() contract.LivestreamRepository { return &fakeLivestreamRepo{store: u.store} }

type fakeUowFactory struct {
	store *fakeStreamStore
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type streamFixture struct {
	store   *fakeStreamStore
	relay   *signaling.Relay
	service *livestreamService
}

func newStreamFixture(t *testing.T) *streamFixture {
	t.Helper()
	store := newFakeStreamStore()
	relay := signaling.NewRelay(30*time.Second, nil, nil)

	svc := NewLivestreamService(
		&fakeUowFactory{store: store},
		relay,
		memory.NewHostCache(),
		nil,
		nil,
		nil,
		nopLogger{},
		config.StreamConfig{
			MaxDurationSeconds:     240,
			SignalRetentionSeconds: 30,
			ExpirySweepSeconds:     5,
		},
	)
	relay.SetChecker(svc)

	impl := svc.(*livestreamService)
	return &streamFixture{store: store, relay: relay, service: impl}
}

func (f *streamFixture) addHost(t *testing.T, username string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.users[id] = &entity.User{Id: id, Username: username, DisplayName: username}
	return id
}

func (f *streamFixture) advance(d time.Duration) {
	base := f.service.now()
	f.service.now = func() time.Time { return base.Add(d) }
}

func offerRequest() *dto.PublishSignalRequest {
	return &dto.PublishSignalRequest{
		Type: entity.SignalTypeOffer,
		Data: json.RawMessage(`{"sdp":"v=0"}`),
	}
}

func TestLivestreamCreateReturnsRoomPolicy(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")

	res, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	assert.Len(t, res.RoomId, 16)
	assert.Equal(t, 240, res.MaxDurationSeconds)
	assert.False(t, res.StartedAt.IsZero())

	active, err := f.service.IsRoomActive(context.Background(), res.RoomId)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLivestreamCreateConflictsWhileActive(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")

	_, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), host)
	appErr, ok := serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
}

func TestLivestreamCreateReplacesExpiredStream(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")

	first, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	f.advance(241 * time.Second)

	second, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)
	assert.NotEqual(t, first.RoomId, second.RoomId)

	// The stale stream got force-ended on the way in, stamped at its cap.
	var old *entity.LiveStream
	for _, s := range f.store.streams {
		if s.RoomId == first.RoomId {
			old = s
		}
	}
	require.NotNil(t, old)
	assert.False(t, old.IsActive)
	require.NotNil(t, old.EndedAt)
	assert.Equal(t, old.StartedAt.Add(240*time.Second), *old.EndedAt)
}

func TestLivestreamConcurrentCreateSingleWinner(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Create(context.Background(), host)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		appErr, ok := serverutils.IsAppError(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, 409, appErr.Status)
	}
	assert.Equal(t, 1, wins)
}

func TestLivestreamEndRequiresHost(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")
	viewer := f.addHost(t, "fan_one")

	res, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	err = f.service.End(context.Background(), res.RoomId, viewer)
	appErr, ok := serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)

	// Still live for signaling purposes.
	active, err := f.service.IsRoomActive(context.Background(), res.RoomId)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLivestreamEndIsIdempotent(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")

	res, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	require.NoError(t, f.service.End(context.Background(), res.RoomId, host))
	first, err := f.service.Get(context.Background(), res.RoomId)
	require.NoError(t, err)
	require.NotNil(t, first.EndedAt)

	// The repeat call succeeds without rewriting when the stream ended.
	f.advance(3 * time.Second)
	require.NoError(t, f.service.End(context.Background(), res.RoomId, host))
	second, err := f.service.Get(context.Background(), res.RoomId)
	require.NoError(t, err)
	require.NotNil(t, second.EndedAt)
	assert.Equal(t, *first.EndedAt, *second.EndedAt)

	err = f.service.End(context.Background(), "no-such-room", host)
	appErr, ok := serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestLivestreamEndShutsDownSignaling(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")
	viewer := uuid.New()

	res, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	_, err = f.service.PublishSignal(context.Background(), res.RoomId, viewer, offerRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.End(context.Background(), res.RoomId, host))

	_, err = f.service.PublishSignal(context.Background(), res.RoomId, viewer, offerRequest())
	appErr, ok := serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "room_inactive", appErr.Code)

	_, err = f.service.PollSignals(context.Background(), res.RoomId, viewer, 0)
	appErr, ok = serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "room_inactive", appErr.Code)
}

func TestLivestreamLazyExpiryOnSignalPath(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")

	res, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	_, err = f.service.PublishSignal(context.Background(), res.RoomId, host, offerRequest())
	require.NoError(t, err)

	f.advance(240 * time.Second)

	// The poll itself is what retires the overdue stream.
	_, err = f.service.PollSignals(context.Background(), res.RoomId, host, 0)
	appErr, ok := serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "room_inactive", appErr.Code)

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, s := range f.store.streams {
		assert.False(t, s.IsActive)
		require.NotNil(t, s.EndedAt)
		assert.Equal(t, s.StartedAt.Add(240*time.Second), *s.EndedAt)
	}
}

func TestLivestreamExpireStaleSweepsOverdueStreams(t *testing.T) {
	f := newStreamFixture(t)
	fresh := f.addHost(t, "mc_flow")
	stale := f.addHost(t, "beatsmith")

	_, err := f.service.Create(context.Background(), fresh)
	require.NoError(t, err)

	// An overdue stream, as if the process had restarted mid-broadcast.
	now := f.service.now()
	staleId := uuid.New()
	f.store.streams[staleId] = &entity.LiveStream{
		Id:                 staleId,
		HostId:             stale,
		RoomId:             "stalestream00000",
		IsActive:           true,
		StartedAt:          now.Add(-300 * time.Second),
		MaxDurationSeconds: 240,
	}

	count, err := f.service.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A second sweep finds nothing left to do.
	count, err = f.service.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLivestreamGetReflectsExpiry(t *testing.T) {
	f := newStreamFixture(t)
	host := f.addHost(t, "mc_flow")

	res, err := f.service.Create(context.Background(), host)
	require.NoError(t, err)

	f.advance(300 * time.Second)

	got, err := f.service.Get(context.Background(), res.RoomId)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.EndedAt)
	assert.Equal(t, "mc_flow", got.Host.Username)
}

func TestLivestreamListActiveSkipsExpired(t *testing.T) {
	f := newStreamFixture(t)
	hostA := f.addHost(t, "mc_flow")
	hostB := f.addHost(t, "beatsmith")

	_, err := f.service.Create(context.Background(), hostA)
	require.NoError(t, err)

	now := f.service.now()
	staleId := uuid.New()
	f.store.streams[staleId] = &entity.LiveStream{
		Id:                 staleId,
		HostId:             hostB,
		RoomId:             "stalestream00000",
		IsActive:           true,
		StartedAt:          now.Add(-300 * time.Second),
		MaxDurationSeconds: 240,
	}

	list, err := f.service.ListActive(context.Background(), &dto.ListStreamsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mc_flow", list[0].Host.Username)
}
