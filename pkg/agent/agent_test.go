package agent

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/scout/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventRecorder captures emitted events for testing.
type eventRecorder struct {
	mu     sync.Mutex
	events []*types.AgentEvent
}

func (r *eventRecorder) listen(e *types.AgentEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) all() []*types.AgentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*types.AgentEvent{}, r.events...)
}

func (r *eventRecorder) countOf(t types.AgentEventType) int {
	n := 0
	for _, e := range r.all() {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestEmitDispatchesInRegistrationOrder(t *testing.T) {
	a := New(types.ModeObserveOnly)
	var order []string
	a.Subscribe(func(*types.AgentEvent) { order = append(order, "first") })
	a.Subscribe(func(*types.AgentEvent) { order = append(order, "second") })

	a.Emit(types.NewInfoEvent("hello"))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSubscribeDuringDispatchTakesEffectNextEmit(t *testing.T) {
	a := New(types.ModeObserveOnly)
	var lateCalls int
	a.Subscribe(func(*types.AgentEvent) {
		a.Subscribe(func(*types.AgentEvent) { lateCalls++ })
	})

	a.Emit(types.NewInfoEvent("one"))
	assert.Equal(t, 0, lateCalls, "listener added mid-dispatch must not see the current emit")

	a.Emit(types.NewInfoEvent("two"))
	assert.Equal(t, 1, lateCalls)
}

func TestUnsubscribeDuringDispatchKeepsSnapshot(t *testing.T) {
	a := New(types.ModeObserveOnly)
	var secondCalls int
	var secondID int
	a.Subscribe(func(*types.AgentEvent) { a.Unsubscribe(secondID) })
	secondID = a.Subscribe(func(*types.AgentEvent) { secondCalls++ })

	a.Emit(types.NewInfoEvent("one"))
	assert.Equal(t, 1, secondCalls, "removal mid-dispatch must not affect the in-progress dispatch")

	a.Emit(types.NewInfoEvent("two"))
	assert.Equal(t, 1, secondCalls)
}

func TestSetModeEmitsModeChange(t *testing.T) {
	a := New(types.ModeObserveOnly)
	rec := &eventRecorder{}
	a.Subscribe(rec.listen)

	a.SetMode(types.ModeExecute)
	assert.Equal(t, types.ModeExecute, a.Mode())
	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, types.EventTypeModeChange, events[0].Type)
	assert.Equal(t, types.ModeExecute, events[0].Mode)

	// Unknown modes are ignored.
	a.SetMode(types.ExecutionMode("bogus"))
	assert.Equal(t, types.ModeExecute, a.Mode())
}

func TestHandleNetworkCallHighRiskGatesRegardlessOfMode(t *testing.T) {
	a := New(types.ModeObserveOnly)
	rec := &eventRecorder{}
	a.Subscribe(rec.listen)

	type result struct {
		d   *types.ApprovalDecision
		err error
	}
	done := make(chan result, 1)
	go func() {
		d, err := a.HandleNetworkCall(context.Background(), "POST", "https://x.com/api/checkout", 200)
		done <- result{d, err}
	}()

	require.Eventually(t, func() bool {
		return rec.countOf(types.EventTypeApprovalRequired) == 1
	}, time.Second, 5*time.Millisecond)

	assert.True(t, a.ResolveApproval(types.ApprovalYes))

	select {
	case r := <-done:
		require.NoError(t, r.err)
		require.NotNil(t, r.d)
		assert.Equal(t, types.ApprovalYes, *r.d)
	case <-time.After(time.Second):
		t.Fatal("HandleNetworkCall never returned")
	}

	var sawNetwork bool
	for _, e := range rec.all() {
		if e.Type == types.EventTypeNetwork {
			sawNetwork = true
			assert.Equal(t, "high", e.Network.Risk)
		}
	}
	assert.True(t, sawNetwork, "network event must be emitted unconditionally")
}

func TestHandleNetworkCallMediumRiskOnlyGatesInExecute(t *testing.T) {
	a := New(types.ModeObserveOnly)
	d, err := a.HandleNetworkCall(context.Background(), "PATCH", "https://x.com/api/profile", 200)
	require.NoError(t, err)
	assert.Nil(t, d, "medium risk must not gate outside execute mode")

	a.SetMode(types.ModeExecute)
	done := make(chan *types.ApprovalDecision, 1)
	go func() {
		d, err := a.HandleNetworkCall(context.Background(), "PATCH", "https://x.com/api/profile", 200)
		require.NoError(t, err)
		done <- d
	}()

	require.Eventually(t, func() bool {
		return a.ResolveApproval(types.ApprovalNo)
	}, time.Second, 5*time.Millisecond)

	select {
	case d := <-done:
		require.NotNil(t, d)
		assert.Equal(t, types.ApprovalNo, *d)
	case <-time.After(time.Second):
		t.Fatal("HandleNetworkCall never returned")
	}
}

func TestHandleNetworkCallLowRiskNeverGates(t *testing.T) {
	a := New(types.ModeExecute)
	rec := &eventRecorder{}
	a.Subscribe(rec.listen)

	d, err := a.HandleNetworkCall(context.Background(), "GET", "https://x.com/products", 200)
	require.NoError(t, err)
	assert.Nil(t, d)

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, types.EventTypeNetwork, events[0].Type)
}

func TestResolveWithNoPendingIsNoOp(t *testing.T) {
	a := New(types.ModeExecute)
	assert.False(t, a.ResolveApproval(types.ApprovalYes))
	assert.False(t, a.ResolveActionDecision(types.ActionYes))
	assert.False(t, a.ResolveNextSteps(types.NextStepsActions))
}

func TestRequestApprovalHonorsContext(t *testing.T) {
	a := New(types.ModeExecute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.RequestApproval(ctx, &types.NetworkCall{Method: "DELETE", URL: "https://x.com/a"})
	assert.ErrorIs(t, err, context.Canceled)

	// The abandoned request must not absorb a later resolution.
	assert.False(t, a.ResolveApproval(types.ApprovalYes))
}

func TestRequestNextStepsRendezvous(t *testing.T) {
	a := New(types.ModeExecute)
	go func() {
		for !a.ResolveNextSteps(types.NextStepsNetwork) {
			time.Sleep(5 * time.Millisecond)
		}
	}()

	c, err := a.RequestNextSteps(context.Background(), []string{"click login"}, "3 calls captured")
	require.NoError(t, err)
	assert.Equal(t, types.NextStepsNetwork, c)
}
