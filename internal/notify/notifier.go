// Package notify dispatches candidate lifecycle emails in the background.
// Sends never block or fail the request that triggered them; failures are
// logged and dropped.
package notify

import (
	"sync"

	"ats-backend/internal/domain"
	"ats-backend/pkg/logger"
)

// Mailer is the subset of the email service the notifier needs.
type Mailer interface {
	SendCandidateCreated(candidate *domain.Candidate) error
	SendCandidateWelcome(candidate *domain.Candidate) error
	SendCandidateUpdated(candidate *domain.Candidate) error
	IsConfigured() bool
}

// Dispatcher runs submitted tasks on a single background worker.
type Dispatcher struct {
	tasks  chan task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

type task struct {
	name string
	fn   func() error
}

func NewDispatcher(buffer int) *Dispatcher {
	d := &Dispatcher{
		tasks: make(chan task, buffer),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for t := range d.tasks {
		if err := t.fn(); err != nil {
			logger.Log.Error("background task failed", "task", t.name, "error", err)
		}
	}
}

// Submit enqueues a task. When the queue is full, or the dispatcher is
// already closed, the task is dropped and the drop is logged, keeping the
// request path non-blocking.
func (d *Dispatcher) Submit(name string, fn func() error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Log.Warn("dispatcher closed, dropping task", "task", name)
		return
	}
	select {
	case d.tasks <- task{name: name, fn: fn}:
	default:
		logger.Log.Warn("background queue full, dropping task", "task", name)
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// CandidateNotifier implements domain.CandidateNotifier on top of the mailer
// and dispatcher.
type CandidateNotifier struct {
	mailer     Mailer
	dispatcher *Dispatcher
}

func NewCandidateNotifier(mailer Mailer, dispatcher *Dispatcher) *CandidateNotifier {
	return &CandidateNotifier{
		mailer:     mailer,
		dispatcher: dispatcher,
	}
}

// CandidateCreated sends the internal notification and the candidate-facing
// welcome email.
func (n *CandidateNotifier) CandidateCreated(candidate *domain.Candidate) {
	if !n.mailer.IsConfigured() {
		return
	}
	c := *candidate
	n.dispatcher.Submit("candidate-created-email", func() error {
		return n.mailer.SendCandidateCreated(&c)
	})
	n.dispatcher.Submit("candidate-welcome-email", func() error {
		return n.mailer.SendCandidateWelcome(&c)
	})
}

func (n *CandidateNotifier) CandidateUpdated(candidate *domain.Candidate) {
	if !n.mailer.IsConfigured() {
		return
	}
	c := *candidate
	n.dispatcher.Submit("candidate-updated-email", func() error {
		return n.mailer.SendCandidateUpdated(&c)
	})
}
