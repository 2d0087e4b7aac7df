package signaling

import (
	"context"
	"sync"
	"time"

	"rap-for-money-be/internal/entity"
	"rap-for-money-be/internal/metrics"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/pkg/serverutils"
)

// SessionChecker answers whether a room still maps to an active stream. The
// livestream service implements it; the indirection keeps the relay free of
// any storage dependency.
type SessionChecker interface {
	IsRoomActive(ctx context.Context, roomId string) (bool, error)
}

type mailbox struct {
	mu       sync.Mutex
	messages []entity.SignalMessage
	lastTs   int64
	gone     bool // set when removed from the room map; holders must re-fetch
}

// Relay is the in-memory signaling bus. One mailbox per room, created on
// first publish, dropped on ClearRoom or by the janitor once every message
// has aged out.
type Relay struct {
	mu        sync.RWMutex
	rooms     map[string]*mailbox
	retention time.Duration
	checker   SessionChecker
	logger    logger.ILogger
	metrics   *metrics.Metrics

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

func NewRelay(retention time.Duration, log logger.ILogger, m *metrics.Metrics) *Relay {
	return &Relay{
		rooms:     make(map[string]*mailbox),
		retention: retention,
		logger:    log,
		metrics:   m,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// SetChecker binds the active-session check. Must be called before the relay
// serves traffic; it is a setter only to break the construction cycle with
// the livestream service.
func (r *Relay) SetChecker(c SessionChecker) {
	r.checker = c
}

func (r *Relay) getOrCreate(roomId string) *mailbox {
	r.mu.RLock()
	box, ok := r.rooms[roomId]
	r.mu.RUnlock()
	if ok {
		return box
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if box, ok = r.rooms[roomId]; ok {
		return box
	}
	box = &mailbox{}
	r.rooms[roomId] = box
	if r.metrics != nil {
		r.metrics.SetOpenMailboxes(len(r.rooms))
	}
	return box
}

func (r *Relay) get(roomId string) (*mailbox, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	box, ok := r.rooms[roomId]
	return box, ok
}

// pruneLocked drops messages older than the retention window. Caller holds
// box.mu.
func (r *Relay) pruneLocked(box *mailbox, now time.Time) {
	cutoff := now.Add(-r.retention).UnixMilli()
	i := 0
	for i < len(box.messages) && box.messages[i].Timestamp <= cutoff {
		i++
	}
	if i > 0 {
		box.messages = append(box.messages[:0:0], box.messages[i:]...)
	}
}

// Publish appends a handshake message to the room's mailbox. The active
// check runs under the mailbox lock so a room cannot go inactive between the
// check and the append.
func (r *Relay) Publish(ctx context.Context, roomId string, msg entity.SignalMessage) (entity.SignalMessage, error) {
	if !entity.ValidSignalType(msg.Type) {
		return entity.SignalMessage{}, serverutils.NewValidationError("signal type must be offer, answer, or ice-candidate")
	}

	var box *mailbox
	for {
		box = r.getOrCreate(roomId)
		box.mu.Lock()
		if !box.gone {
			break
		}
		// The janitor removed this mailbox between lookup and lock.
		box.mu.Unlock()
	}
	defer box.mu.Unlock()

	active, err := r.checker.IsRoomActive(ctx, roomId)
	if err != nil {
		return entity.SignalMessage{}, err
	}
	if !active {
		return entity.SignalMessage{}, serverutils.NewInactiveRoomError()
	}

	now := r.now()
	ts := now.UnixMilli()
	if ts <= box.lastTs {
		// Same-millisecond bursts and backwards clocks both land here; bump
		// past the last stamp so a poll cursor never skips a message.
		ts = box.lastTs + 1
	}
	box.lastTs = ts
	msg.Timestamp = ts

	box.messages = append(box.messages, msg)
	r.pruneLocked(box, now)

	if r.metrics != nil {
		r.metrics.IncSignalsPublished()
	}
	return msg, nil
}

// Poll returns all retained messages with Timestamp > since, oldest first.
// A room with no mailbox yet is an empty result, not an error, as long as
// its session is active.
func (r *Relay) Poll(ctx context.Context, roomId string, since int64) ([]entity.SignalMessage, error) {
	box, ok := r.get(roomId)
	if ok {
		box.mu.Lock()
		if box.gone {
			box.mu.Unlock()
			ok = false
		}
	}
	if !ok {
		// No mailbox yet. Still verify the room so polls against ended or
		// unknown rooms tell the caller to stop.
		active, err := r.checker.IsRoomActive(ctx, roomId)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, serverutils.NewInactiveRoomError()
		}
		if r.metrics != nil {
			r.metrics.IncSignalPolls()
		}
		return []entity.SignalMessage{}, nil
	}
	defer box.mu.Unlock()

	active, err := r.checker.IsRoomActive(ctx, roomId)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, serverutils.NewInactiveRoomError()
	}

	r.pruneLocked(box, r.now())

	out := make([]entity.SignalMessage, 0, len(box.messages))
	for _, m := range box.messages {
		if m.Timestamp > since {
			out = append(out, m)
		}
	}
	if r.metrics != nil {
		r.metrics.IncSignalPolls()
	}
	return out, nil
}

// ClearRoom drops the room's mailbox. Idempotent; clearing a room that never
// existed is a no-op.
func (r *Relay) ClearRoom(roomId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	box, ok := r.rooms[roomId]
	if !ok {
		return
	}
	box.mu.Lock()
	box.gone = true
	box.mu.Unlock()
	delete(r.rooms, roomId)
	if r.metrics != nil {
		r.metrics.SetOpenMailboxes(len(r.rooms))
	}
	if r.logger != nil {
		r.logger.Info("signaling", "Cleared room mailbox", map[string]interface{}{
			"room_id": roomId,
		})
	}
}

// sweep removes mailboxes whose every message has aged out. Lock order is
// relay.mu then mailbox.mu, same as the publish path never takes both, so
// there is no inversion.
func (r *Relay) sweep() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for roomId, box := range r.rooms {
		box.mu.Lock()
		r.pruneLocked(box, now)
		if len(box.messages) == 0 {
			box.gone = true
			delete(r.rooms, roomId)
		}
		box.mu.Unlock()
	}
	if r.metrics != nil {
		r.metrics.SetOpenMailboxes(len(r.rooms))
	}
}

// Run starts the mailbox janitor. Blocks until Stop is called; callers run
// it on its own goroutine.
func (r *Relay) Run() {
	defer close(r.done)
	ticker := time.NewTicker(r.retention)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

func (r *Relay) Stop() {
	close(r.stop)
	<-r.done
}
