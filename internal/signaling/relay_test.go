package signaling

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	mu     sync.Mutex
	active map[string]bool
}

func newStubChecker(activeRooms ...string) *stubChecker {
	m := make(map[string]bool)
	for _, r := range activeRooms {
		m[r] = true
	}
	return &stubChecker{active: m}
}

func (c *stubChecker) IsRoomActive(ctx context.Context, roomId string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[roomId], nil
}

func (c *stubChecker) deactivate(roomId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[roomId] = false
}

func newTestRelay(checker SessionChecker) *Relay {
	r := NewRelay(30*time.Second, nil, nil)
	r.SetChecker(checker)
	return r
}

func offerFrom(userId uuid.UUID) entity.SignalMessage {
	return entity.SignalMessage{
		Type: entity.SignalTypeOffer,
		From: userId,
		Data: json.RawMessage(`{"sdp":"v=0"}`),
	}
}

func TestRelayPublishAssignsOrderedTimestamps(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))
	host := uuid.New()

	m1, err := relay.Publish(context.Background(), "room-1", offerFrom(host))
	require.NoError(t, err)

	m2, err := relay.Publish(context.Background(), "room-1", entity.SignalMessage{
		Type: entity.SignalTypeAnswer,
		From: uuid.New(),
		Data: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	assert.Greater(t, m2.Timestamp, m1.Timestamp)

	got, err := relay.Poll(context.Background(), "room-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.SignalTypeOffer, got[0].Type)
	assert.Equal(t, entity.SignalTypeAnswer, got[1].Type)
}

func TestRelayPublishIgnoresClientTimestamp(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))

	msg := offerFrom(uuid.New())
	msg.Timestamp = 9999999999999

	accepted, err := relay.Publish(context.Background(), "room-1", msg)
	require.NoError(t, err)
	assert.NotEqual(t, int64(9999999999999), accepted.Timestamp)
}

func TestRelayPublishClampsBackwardClock(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))

	base := time.Now()
	relay.now = func() time.Time { return base }
	m1, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	relay.now = func() time.Time { return base.Add(-5 * time.Second) }
	m2, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	assert.Equal(t, m1.Timestamp+1, m2.Timestamp)
}

func TestRelayPublishBreaksSameMillisecondTies(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))
	relay.now = func() time.Time { return time.UnixMilli(1000000) }

	offer, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	answer, err := relay.Publish(context.Background(), "room-1", entity.SignalMessage{
		Type: entity.SignalTypeAnswer,
		From: uuid.New(),
		Data: json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	assert.Greater(t, answer.Timestamp, offer.Timestamp)

	// A caller resuming from the offer's timestamp must still see the answer.
	got, err := relay.Poll(context.Background(), "room-1", offer.Timestamp)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.SignalTypeAnswer, got[0].Type)
}

func TestRelayPublishRejectsUnknownType(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))

	_, err := relay.Publish(context.Background(), "room-1", entity.SignalMessage{
		Type: "renegotiate",
		From: uuid.New(),
	})
	require.Error(t, err)

	appErr, ok := serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestRelayPollSinceWindow(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))
	base := time.Now()

	relay.now = func() time.Time { return base }
	m1, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	relay.now = func() time.Time { return base.Add(50 * time.Millisecond) }
	m2, err := relay.Publish(context.Background(), "room-1", entity.SignalMessage{
		Type: entity.SignalTypeIceCandidate,
		From: uuid.New(),
		Data: json.RawMessage(`{"candidate":"c1"}`),
	})
	require.NoError(t, err)
	require.Greater(t, m2.Timestamp, m1.Timestamp)

	both, err := relay.Poll(context.Background(), "room-1", m1.Timestamp-1)
	require.NoError(t, err)
	assert.Len(t, both, 2)

	onlySecond, err := relay.Poll(context.Background(), "room-1", m1.Timestamp)
	require.NoError(t, err)
	require.Len(t, onlySecond, 1)
	assert.Equal(t, m2.Timestamp, onlySecond[0].Timestamp)

	none, err := relay.Poll(context.Background(), "room-1", m2.Timestamp)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRelayPollBeforeFirstPublish(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))

	// A viewer may start polling before the host sends anything.
	got, err := relay.Poll(context.Background(), "room-1", 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRelayInactiveRoom(t *testing.T) {
	checker := newStubChecker("room-1")
	relay := newTestRelay(checker)

	_, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	checker.deactivate("room-1")

	_, err = relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	appErr, ok := serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "room_inactive", appErr.Code)

	_, err = relay.Poll(context.Background(), "room-1", 0)
	appErr, ok = serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "room_inactive", appErr.Code)

	// Rooms that never existed collapse to the same error.
	_, err = relay.Poll(context.Background(), "no-such-room", 0)
	appErr, ok = serverutils.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "room_inactive", appErr.Code)
}

func TestRelayRetentionPrunesOldMessages(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))
	base := time.Now()

	relay.now = func() time.Time { return base }
	_, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	// Jump past the retention window; the next publish prunes the old one.
	relay.now = func() time.Time { return base.Add(31 * time.Second) }
	fresh, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	got, err := relay.Poll(context.Background(), "room-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fresh.Timestamp, got[0].Timestamp)
}

func TestRelayClearRoomIsIdempotent(t *testing.T) {
	checker := newStubChecker("room-1")
	relay := newTestRelay(checker)

	_, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)

	relay.ClearRoom("room-1")
	relay.ClearRoom("room-1")
	relay.ClearRoom("never-existed")

	// The room is still active per the checker, so a poll sees a fresh,
	// empty mailbox rather than stale handshake state.
	got, err := relay.Poll(context.Background(), "room-1", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRelaySweepDropsEmptyMailboxes(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1", "room-2"))
	base := time.Now()

	relay.now = func() time.Time { return base }
	_, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)
	_, err = relay.Publish(context.Background(), "room-2", offerFrom(uuid.New()))
	require.NoError(t, err)

	relay.now = func() time.Time { return base.Add(31 * time.Second) }
	// room-2 gets fresh traffic, room-1 goes quiet.
	_, err = relay.Publish(context.Background(), "room-2", offerFrom(uuid.New()))
	require.NoError(t, err)

	relay.sweep()

	relay.mu.RLock()
	_, hasRoom1 := relay.rooms["room-1"]
	_, hasRoom2 := relay.rooms["room-2"]
	relay.mu.RUnlock()
	assert.False(t, hasRoom1)
	assert.True(t, hasRoom2)
}

func TestRelayConcurrentPublishKeepsOrdering(t *testing.T) {
	relay := newTestRelay(newStubChecker("room-1"))

	const publishers = 8
	const perPublisher = 25

	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPublisher; j++ {
				_, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := relay.Poll(context.Background(), "room-1", 0)
	require.NoError(t, err)
	require.Len(t, got, publishers*perPublisher)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Timestamp, got[i-1].Timestamp)
	}
}

func TestRelayRunStop(t *testing.T) {
	relay := NewRelay(20*time.Millisecond, nil, nil)
	relay.SetChecker(newStubChecker("room-1"))

	past := time.Now().Add(-time.Minute)
	relay.now = func() time.Time { return past }
	_, err := relay.Publish(context.Background(), "room-1", offerFrom(uuid.New()))
	require.NoError(t, err)
	relay.now = time.Now

	go relay.Run()

	assert.Eventually(t, func() bool {
		relay.mu.RLock()
		defer relay.mu.RUnlock()
		return len(relay.rooms) == 0
	}, time.Second, 10*time.Millisecond)

	relay.Stop()
}
