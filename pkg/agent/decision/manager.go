// Package decision implements the rendezvous between suspended agent code
// and human decisions arriving from the presentation layer.
//
// Each decision kind has a strict FIFO queue of pending requests: a
// resolve call pops the oldest pending request and unblocks exactly one
// waiter, and resolving with nothing pending is a no-op. Issuing a new
// request never discards an earlier one.
package decision

import (
	"context"
	"sync"

	"github.com/entrhq/scout/pkg/types"
	"github.com/google/uuid"
)

// Pending is one outstanding decision request. The waiter blocks on Wait
// until a resolve call delivers the decision or the context is canceled.
type Pending[T any] struct {
	ID string
	ch chan T
}

// Wait blocks until the decision arrives or ctx is canceled. There is no
// timeout: a human operator is assumed present.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case d := <-p.ch:
		return d, nil
	}
}

type fifo[T any] struct {
	pending []*Pending[T]
}

func (q *fifo[T]) push() *Pending[T] {
	p := &Pending[T]{ID: uuid.New().String(), ch: make(chan T, 1)}
	q.pending = append(q.pending, p)
	return p
}

// pop removes and returns the oldest pending request, or nil when empty.
func (q *fifo[T]) pop() *Pending[T] {
	if len(q.pending) == 0 {
		return nil
	}
	p := q.pending[0]
	q.pending = q.pending[1:]
	return p
}

func (q *fifo[T]) remove(id string) bool {
	for i, p := range q.pending {
		if p.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Manager owns the pending-decision queues for all three decision kinds.
type Manager struct {
	mu        sync.Mutex
	approvals fifo[types.ApprovalDecision]
	actions   fifo[types.ActionDecision]
	nextSteps fifo[types.NextStepsChoice]
}

// NewManager creates an empty decision manager.
func NewManager() *Manager {
	return &Manager{}
}

// NewApproval enqueues a pending approval request.
func (m *Manager) NewApproval() *Pending[types.ApprovalDecision] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.approvals.push()
}

// ResolveApproval delivers a decision to the oldest pending approval.
// It returns false, without effect, when nothing is pending.
func (m *Manager) ResolveApproval(d types.ApprovalDecision) bool {
	m.mu.Lock()
	p := m.approvals.pop()
	m.mu.Unlock()
	if p == nil {
		return false
	}
	p.ch <- d
	return true
}

// AbandonApproval removes a pending approval whose waiter gave up
// (context canceled). Safe to call after the request resolved.
func (m *Manager) AbandonApproval(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvals.remove(id)
}

// NewAction enqueues a pending action-suggestion request.
func (m *Manager) NewAction() *Pending[types.ActionDecision] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actions.push()
}

// ResolveAction delivers a decision to the oldest pending action request.
func (m *Manager) ResolveAction(d types.ActionDecision) bool {
	m.mu.Lock()
	p := m.actions.pop()
	m.mu.Unlock()
	if p == nil {
		return false
	}
	p.ch <- d
	return true
}

// AbandonAction removes a pending action request whose waiter gave up.
func (m *Manager) AbandonAction(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions.remove(id)
}

// NewNextSteps enqueues a pending next-steps request.
func (m *Manager) NewNextSteps() *Pending[types.NextStepsChoice] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextSteps.push()
}

// ResolveNextSteps delivers a choice to the oldest pending next-steps request.
func (m *Manager) ResolveNextSteps(c types.NextStepsChoice) bool {
	m.mu.Lock()
	p := m.nextSteps.pop()
	m.mu.Unlock()
	if p == nil {
		return false
	}
	p.ch <- c
	return true
}

// AbandonNextSteps removes a pending next-steps request whose waiter gave up.
func (m *Manager) AbandonNextSteps(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSteps.remove(id)
}

// PendingApprovals returns the number of queued approval requests.
func (m *Manager) PendingApprovals() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.approvals.pending)
}
