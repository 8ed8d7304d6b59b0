package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/hardware"
	domainperm "mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/ports/device"
	"mappo-toolkit/internal/ports/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fakeGate struct {
	deny  bool
	asked []permissions.Capability
}

func (g *fakeGate) Ensure(_ context.Context, c permissions.Capability) (domainperm.Status, error) {
	g.asked = append(g.asked, c)
	if g.deny {
		return domainperm.StatusDenied, &domainperm.PermissionError{Capability: c}
	}
	return domainperm.StatusGranted, nil
}

type fakeOpener struct {
	opened []string
}

func (o *fakeOpener) CanOpen(context.Context, string) (bool, error) { return true, nil }

func (o *fakeOpener) Open(_ context.Context, u string) error {
	o.opened = append(o.opened, u)
	return nil
}

var t0 = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestSession(gate *fakeGate, clock *fakeClock, opener *fakeOpener, cooldown time.Duration) (*Session, *hardware.Lease) {
	lease := hardware.NewLease("camera")
	s := NewSession(Deps{
		Gate:     gate,
		Handoff:  handoff.NewService(handoff.Sinks{Opener: opener}, nil),
		Lease:    lease,
		Cooldown: cooldown,
		Now:      clock.Now,
	})
	return s, lease
}

func TestSession_StartRequiresPermission(t *testing.T) {
	gate := &fakeGate{deny: true}
	s, lease := newTestSession(gate, &fakeClock{t: t0}, &fakeOpener{}, 0)

	err := s.Start(context.Background())
	assert.True(t, errors.Is(err, failures.ErrPermissionDenied))
	assert.Equal(t, StateIdle, s.Snapshot().State)
	assert.Equal(t, "", lease.Owner())
	assert.Equal(t, []permissions.Capability{permissions.Camera}, gate.asked)

	// sin escanear, los eventos se descartan
	_, err = s.Handle(context.Background(), device.Recognition{Payload: "hola"})
	assert.True(t, errors.Is(err, ErrDiscarded))
}

func TestSession_ConfiguredCapability(t *testing.T) {
	gate := &fakeGate{}
	s := NewSession(Deps{
		Gate:       gate,
		Handoff:    handoff.NewService(handoff.Sinks{}, nil),
		Lease:      hardware.NewLease("camera"),
		Capability: permissions.Scanner,
	})
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []permissions.Capability{permissions.Scanner}, gate.asked)
}

func TestSession_DebounceAcceptsAtMostTwoInWindow(t *testing.T) {
	clock := &fakeClock{t: t0}
	s, _ := newTestSession(&fakeGate{}, clock, &fakeOpener{}, time.Second)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	// 10 eventos repartidos en 1.2s
	accepted := 0
	for i := 0; i < 10; i++ {
		clock.Set(t0.Add(time.Duration(i) * 1200 * time.Millisecond / 9))
		_, err := s.Handle(ctx, device.Recognition{Payload: "ticket-42", CodeType: "qr"})
		if err == nil {
			accepted++
		} else {
			assert.True(t, errors.Is(err, ErrDiscarded))
		}
	}
	assert.LessOrEqual(t, accepted, 2)
	assert.GreaterOrEqual(t, accepted, 1)
}

func TestSession_LockedStateAndExpiry(t *testing.T) {
	clock := &fakeClock{t: t0}
	s, _ := newTestSession(&fakeGate{}, clock, &fakeOpener{}, 0)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	assert.Equal(t, DefaultCooldown, s.Cooldown())

	rec, err := s.Handle(ctx, device.Recognition{Payload: "hola mundo", CodeType: "qr"})
	require.NoError(t, err)
	assert.Equal(t, KindText, rec.Result.Kind)
	assert.Nil(t, rec.Link)
	assert.Equal(t, t0, rec.Result.ScannedAt)

	snap := s.Snapshot()
	assert.Equal(t, StateLocked, snap.State)
	assert.Equal(t, t0.Add(DefaultCooldown), snap.LockedUntil)

	clock.Set(t0.Add(DefaultCooldown))
	assert.Equal(t, StateScanning, s.Snapshot().State)

	_, err = s.Handle(ctx, device.Recognition{Payload: "otro"})
	assert.NoError(t, err)
}

func TestSession_CooldownHasFloor(t *testing.T) {
	s, _ := newTestSession(&fakeGate{}, &fakeClock{t: t0}, &fakeOpener{}, 100*time.Millisecond)
	assert.Equal(t, MinCooldown, s.Cooldown())
}

func TestSession_LinkGoesToLinkOpen(t *testing.T) {
	opener := &fakeOpener{}
	s, _ := newTestSession(&fakeGate{}, &fakeClock{t: t0}, opener, 0)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	rec, err := s.Handle(ctx, device.Recognition{Payload: "example.com/a?b=1", CodeType: "qr"})
	require.NoError(t, err)
	assert.Equal(t, KindLink, rec.Result.Kind)
	assert.Equal(t, "example.com/a?b=1", rec.Result.Payload)
	require.NotNil(t, rec.Link)
	assert.Equal(t, handoff.StatusDelivered, rec.Link.Status)
	assert.Equal(t, []string{"https://example.com/a?b=1"}, opener.opened)

	snap := s.Snapshot()
	require.NotNil(t, snap.LastResult)
	require.NotNil(t, snap.LastLink)
}

func TestSession_ReopenUsesRawPayload(t *testing.T) {
	opener := &fakeOpener{}
	s, _ := newTestSession(&fakeGate{}, &fakeClock{t: t0}, opener, 0)
	ctx := context.Background()

	_, err := s.Reopen(ctx)
	assert.True(t, errors.Is(err, ErrNoResult))

	require.NoError(t, s.Start(ctx))
	_, err = s.Handle(ctx, device.Recognition{Payload: "menu.local"})
	require.NoError(t, err)

	s.Stop()
	link, err := s.Reopen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://menu.local", link.OpenedURL)
	assert.Len(t, opener.opened, 2)
}

func TestSession_StopReleasesHardware(t *testing.T) {
	s, lease := newTestSession(&fakeGate{}, &fakeClock{t: t0}, &fakeOpener{}, 0)
	ctx := context.Background()

	require.NoError(t, lease.Acquire("capture"))
	err := s.Start(ctx)
	assert.True(t, errors.Is(err, failures.ErrHardwareUnavailable))
	lease.Release("capture")

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, "scanner", lease.Owner())
	s.Stop()
	assert.Equal(t, "", lease.Owner())
	assert.Equal(t, StateIdle, s.Snapshot().State)
}

// blockingOpener retiene CanOpen hasta que se cierra release.
type blockingOpener struct {
	mu          sync.Mutex
	entered     chan struct{}
	release     chan struct{}
	probeCtxErr error
	opened      []string
}

func (o *blockingOpener) CanOpen(ctx context.Context, _ string) (bool, error) {
	o.entered <- struct{}{}
	<-o.release
	o.mu.Lock()
	o.probeCtxErr = ctx.Err()
	o.mu.Unlock()
	return true, nil
}

func (o *blockingOpener) Open(_ context.Context, u string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, u)
	return nil
}

func newBlockingSession(clock *fakeClock) (*Session, *blockingOpener) {
	o := &blockingOpener{entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewSession(Deps{
		Gate:    &fakeGate{},
		Handoff: handoff.NewService(handoff.Sinks{Opener: o}, nil),
		Lease:   hardware.NewLease("camera"),
		Now:     clock.Now,
	})
	return s, o
}

func TestSession_StopDiscardsPendingLinkOpen(t *testing.T) {
	s, o := newBlockingSession(&fakeClock{t: t0})
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	done := make(chan error, 1)
	go func() {
		_, err := s.Handle(ctx, device.Recognition{Payload: "example.com", CodeType: "qr"})
		done <- err
	}()
	<-o.entered

	s.Stop()
	close(o.release)

	err := <-done
	assert.True(t, errors.Is(err, failures.ErrCancelled))
	assert.ErrorIs(t, o.probeCtxErr, context.Canceled)
	assert.Empty(t, o.opened)

	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.LastLink)
}

func TestSession_StopDiscardsPendingReopen(t *testing.T) {
	clock := &fakeClock{t: t0}
	s, o := newBlockingSession(clock)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	// texto: no pasa por LinkOpen
	_, err := s.Handle(ctx, device.Recognition{Payload: "hola", CodeType: "qr"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Reopen(ctx)
		done <- err
	}()
	<-o.entered

	s.Stop()
	close(o.release)

	assert.True(t, errors.Is(<-done, failures.ErrCancelled))
	assert.Empty(t, o.opened)
	assert.Nil(t, s.Snapshot().LastLink)
}

func TestSession_ConsumeReportsOnlyAccepted(t *testing.T) {
	clock := &fakeClock{t: t0}
	s, _ := newTestSession(&fakeGate{}, clock, &fakeOpener{}, 0)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	events := make(chan device.Recognition, 5)
	for i := 0; i < 5; i++ {
		events <- device.Recognition{Payload: "same", CodeType: "ean13"}
	}
	close(events)

	var got []Recognition
	require.NoError(t, s.Consume(ctx, events, func(r Recognition) { got = append(got, r) }))
	require.Len(t, got, 1)
	assert.Equal(t, "ean13", got[0].Result.CodeType)
}
