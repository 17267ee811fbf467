package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"trivia-quiz/internal/domain"
)

// DefaultFetchTimeout bounds a question fetch when no timeout is configured.
const DefaultFetchTimeout = 15 * time.Second

// QuestionSource delivers the full ordered question set for one session.
type QuestionSource interface {
	FetchQuestions(ctx context.Context) ([]domain.Question, error)
}

// SessionRepository abstracts how live quiz controllers are tracked (in-memory, Redis, etc).
type SessionRepository interface {
	Put(id string, c *Controller)
	Get(id string) (*Controller, bool)
	Touch(id string)
	Delete(id string)
}

// Option configures a Controller.
type Option func(*Controller)

func WithShuffler(s *Shuffler) Option {
	return func(c *Controller) { c.shuffler = s }
}

// WithFetchTimeout sets the fetch deadline; zero or negative disables it.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.fetchTimeout = d }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the current quiz Session and is the single entry point for
// user actions. Every Initialize/Restart starts a new generation; fetch
// results for older generations are dropped.
type Controller struct {
	source       QuestionSource
	shuffler     *Shuffler
	fetchTimeout time.Duration
	logger       *log.Logger

	mu          sync.Mutex
	generation  uint64
	session     *Session
	cancels     map[uint64]context.CancelFunc
	subscribers map[chan domain.View]struct{}
	inflight    sync.WaitGroup

	// onSettle observes fetch completions; tests only.
	onSettle func(generation uint64, applied bool)
}

func NewController(source QuestionSource, opts ...Option) *Controller {
	c := &Controller{
		source:       source,
		fetchTimeout: DefaultFetchTimeout,
		logger:       log.Default(),
		session:      newSession(0),
		cancels:      make(map[uint64]context.CancelFunc),
		subscribers:  make(map[chan domain.View]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.shuffler == nil {
		c.shuffler = NewShuffler()
	}
	return c
}

// Initialize installs a fresh session in the loading phase and starts
// fetching its questions. It returns the new generation.
func (c *Controller) Initialize(ctx context.Context) uint64 {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.session = newSession(gen)

	fetchCtx, cancel := c.fetchContext(ctx)
	c.cancels[gen] = cancel
	c.inflight.Add(1)
	c.broadcastLocked()
	c.mu.Unlock()

	go c.fetch(fetchCtx, gen)
	return gen
}

// Restart discards the current session entirely and initializes a new one.
// A fetch still in flight for the old session is left to finish and ignored.
func (c *Controller) Restart(ctx context.Context) uint64 {
	gen := c.Initialize(ctx)
	c.logger.Printf("quiz restarted (generation %d)", gen)
	return gen
}

// SelectAnswer records the user's pick for the active question.
func (c *Controller) SelectAnswer(choice string) (domain.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.SelectAnswer(choice); err != nil {
		if errors.Is(err, domain.ErrUnknownChoice) {
			c.logger.Printf("rejected choice %q for generation %d", choice, c.generation)
		}
		return c.session.View(), err
	}
	return c.broadcastLocked(), nil
}

// Advance scores the current selection and moves the quiz forward.
// domain.ErrNoSelection is returned, with no state change, when nothing is selected.
func (c *Controller) Advance() (domain.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.Advance(c.shuffler); err != nil {
		return c.session.View(), err
	}
	return c.broadcastLocked(), nil
}

// View returns a snapshot of the current session.
func (c *Controller) View() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.View()
}

// Subscribe returns a channel that receives a snapshot after every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (c *Controller) Subscribe() (<-chan domain.View, func()) {
	ch := make(chan domain.View, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	ch <- c.session.View()
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// Await blocks until the current generation has left the loading phase.
func (c *Controller) Await(ctx context.Context) (domain.View, error) {
	updates, cancel := c.Subscribe()
	defer cancel()

	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return c.View(), errors.New("controller closed")
			}
			if v.Phase == domain.PhaseLoading {
				continue
			}
			if current := c.View(); current.Generation == v.Generation {
				return current, nil
			}
		case <-ctx.Done():
			return c.View(), ctx.Err()
		}
	}
}

// Close cancels in-flight fetches, closes subscriptions and waits for fetch
// goroutines to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	for gen, cancel := range c.cancels {
		cancel()
		delete(c.cancels, gen)
	}
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
	c.mu.Unlock()
	c.inflight.Wait()
}

func (c *Controller) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.fetchTimeout > 0 {
		return context.WithTimeout(ctx, c.fetchTimeout)
	}
	return context.WithCancel(ctx)
}

func (c *Controller) fetch(ctx context.Context, gen uint64) {
	defer c.inflight.Done()

	questions, err := c.fetchQuestions(ctx)
	if err == nil {
		err = domain.ValidateQuestions(questions)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cancel, ok := c.cancels[gen]; ok {
		cancel()
		delete(c.cancels, gen)
	}

	applied := gen == c.generation
	if c.onSettle != nil {
		defer c.onSettle(gen, applied)
	}
	if !applied {
		c.logger.Printf("discarding fetch result for stale generation %d (current %d)", gen, c.generation)
		return
	}

	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
		c.logger.Printf("generation %d: %v", gen, err)
		c.session.fail(err)
	} else {
		c.session.load(questions, c.shuffler)
	}
	c.broadcastLocked()
}

// fetchQuestions enforces ctx even when the source ignores it.
func (c *Controller) fetchQuestions(ctx context.Context) ([]domain.Question, error) {
	type result struct {
		questions []domain.Question
		err       error
	}
	done := make(chan result, 1)
	go func() {
		questions, err := c.source.FetchQuestions(ctx)
		done <- result{questions: questions, err: err}
	}()

	select {
	case r := <-done:
		return r.questions, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Controller) broadcastLocked() domain.View {
	v := c.session.View()
	for ch := range c.subscribers {
		select {
		case ch <- v:
		default:
			// drop the oldest pending snapshot so slow readers never block transitions
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
	return v
}
