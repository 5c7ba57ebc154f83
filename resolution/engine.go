// Package resolution drives a source identifier from request to a playable stream.
//
// The Engine consults the cache first and falls back to the resolver. Every
// attempt is tagged and bounded by a timeout guard, and a newer request always
// supersedes an older one: results of abandoned attempts never reach the state.
package resolution

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/reel-cli/reel/cache"
	"github.com/reel-cli/reel/log"
	"github.com/reel-cli/reel/resolver"
	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/mo"
)

const (
	DefaultTTL      = 2 * time.Minute
	DefaultTimeout  = 2 * time.Minute
	DefaultLanguage = "en"
)

// ErrClosed is returned by Settled once the engine is closed.
var ErrClosed = errors.New("resolution engine closed")

// Options configures an Engine. Zero values fall back to the defaults.
type Options struct {
	Cache    cache.Store
	Resolver resolver.Resolver
	Clock    clock.Clock
	TTL      time.Duration
	Timeout  time.Duration
	// Language is the preferred caption language.
	Language string
}

type attempt struct {
	id      uuid.UUID
	source  stream.SourceID
	guard   *clock.Timer
	expired bool
}

func (a *attempt) logger() *log.Entry {
	return log.WithFields(log.Fields{
		"attempt": a.id.String(),
		"source":  a.source.String(),
	})
}

// Engine is safe for concurrent use.
type Engine struct {
	store    cache.Store
	resolver resolver.Resolver
	clock    clock.Clock
	ttl      time.Duration
	timeout  time.Duration
	language string

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	current   *attempt
	state     State
	selection selection.State
	version   uint64
	settled   chan struct{}
	listeners map[int]func(Snapshot)
	nextID    int
}

// New creates an idle engine.
func New(options Options) *Engine {
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	if options.TTL <= 0 {
		options.TTL = DefaultTTL
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.Language == "" {
		options.Language = DefaultLanguage
	}

	ctx, cancel := context.WithCancel(context.Background())

	settled := make(chan struct{})
	close(settled)

	return &Engine{
		store:     options.Cache,
		resolver:  options.Resolver,
		clock:     options.Clock,
		ttl:       options.TTL,
		timeout:   options.Timeout,
		language:  options.Language,
		ctx:       ctx,
		cancel:    cancel,
		state:     State{Phase: Idle},
		selection: selection.Zero(),
		settled:   settled,
		listeners: make(map[int]func(Snapshot)),
	}
}

// State returns the current resolution state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Selection returns the current playback selection.
func (e *Engine) Selection() selection.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// Snapshot returns state and selection as one consistent value.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Version:   e.version,
		State:     e.state,
		Selection: e.selection,
	}
}

// Request makes id the current identifier.
//
// Requesting the identifier that is already resolving does nothing.
// In every other case the previous attempt is abandoned and the cache is consulted again.
func (e *Engine) Request(id stream.SourceID) {
	e.mu.Lock()
	if e.closed || (e.state.Phase == Resolving && e.state.Source == id) {
		e.mu.Unlock()
		return
	}

	snapshots := e.begin(id)
	e.mu.Unlock()

	e.notify(snapshots...)
}

// Retry starts over for the failed identifier. It reports false when there is nothing to retry.
func (e *Engine) Retry() bool {
	e.mu.Lock()
	if e.closed || e.state.Phase != Failed {
		e.mu.Unlock()
		return false
	}

	snapshots := e.begin(e.state.Source)
	e.mu.Unlock()

	e.notify(snapshots...)
	return true
}

// begin must be called with the lock held.
func (e *Engine) begin(id stream.SourceID) []Snapshot {
	e.abandon()

	a := &attempt{id: uuid.New(), source: id}
	e.current = a
	a.guard = e.clock.AfterFunc(e.timeout, e.expire(a))

	e.selection = selection.Zero()
	snapshots := []Snapshot{e.transition(State{Phase: Resolving, Source: id})}

	if entry, ok := e.lookup(id); ok {
		a.logger().Info("serving stream from cache")
		e.finish(a)
		e.selection = selection.Derive(entry.Descriptor, e.language)
		return append(snapshots, e.transition(State{
			Phase:      Ready,
			Source:     id,
			Descriptor: entry.Descriptor,
		}))
	}

	a.logger().Info("resolving stream")
	ctx, cancel := e.clock.WithTimeout(e.ctx, e.timeout)
	go func() {
		defer cancel()
		descriptor, err := e.resolver.Resolve(ctx, id)
		if errors.Is(err, context.DeadlineExceeded) && resolver.KindOf(err) != resolver.Timeout {
			err = &resolver.Error{Kind: resolver.Timeout, Source: id, Err: err}
		}
		e.complete(a, descriptor, err)
	}()

	return snapshots
}

func (e *Engine) lookup(id stream.SourceID) (*cache.Entry, bool) {
	if e.store == nil {
		return nil, false
	}

	entry, ok := e.store.Get(id).Get()
	if !ok || entry.Descriptor == nil {
		return nil, false
	}

	return entry, entry.Fresh(e.clock.Now(), e.ttl)
}

// abandon drops the current attempt, if any, without touching the state.
func (e *Engine) abandon() {
	if e.current == nil {
		return
	}
	e.current.logger().Debug("attempt superseded")
	e.finish(e.current)
}

func (e *Engine) finish(a *attempt) {
	if a.guard != nil {
		a.guard.Stop()
	}
	if e.current == a {
		e.current = nil
	}
}

func (e *Engine) expire(a *attempt) func() {
	return func() {
		e.mu.Lock()
		if e.closed || e.current != a {
			e.mu.Unlock()
			return
		}

		a.expired = true
		a.logger().Warn("resolution timed out")
		e.finish(a)
		snapshot := e.transition(State{
			Phase:  Failed,
			Source: a.source,
			Err:    resolver.NewTimeout(a.source),
		})
		e.mu.Unlock()

		e.notify(snapshot)
	}
}

func (e *Engine) complete(a *attempt, descriptor *stream.Descriptor, err error) {
	e.mu.Lock()

	if e.closed || a.expired {
		e.mu.Unlock()
		return
	}

	// superseded attempts still refresh the cache
	if err == nil && descriptor != nil && e.store != nil {
		if putErr := e.store.Put(a.source, descriptor, e.clock.Now()); putErr != nil {
			a.logger().Warnf("caching stream failed: %v", putErr)
		}
	}

	if e.current != a {
		e.mu.Unlock()
		a.logger().Debug("dropping outcome of superseded attempt")
		return
	}

	e.finish(a)

	var snapshot Snapshot
	if err != nil || descriptor == nil {
		if err == nil {
			err = &resolver.Error{Kind: resolver.Malformed, Source: a.source, Err: errors.New("empty result")}
		}
		a.logger().Warnf("resolution failed: %v", err)
		snapshot = e.transition(State{Phase: Failed, Source: a.source, Err: err})
	} else {
		a.logger().Info("stream ready")
		e.selection = selection.Derive(descriptor, e.language)
		snapshot = e.transition(State{Phase: Ready, Source: a.source, Descriptor: descriptor})
	}
	e.mu.Unlock()

	e.notify(snapshot)
}

// transition must be called with the lock held.
func (e *Engine) transition(next State) Snapshot {
	was := e.state.Phase
	e.state = next

	switch {
	case was != Resolving && next.Phase == Resolving:
		e.settled = make(chan struct{})
	case was == Resolving && next.Phase != Resolving:
		close(e.settled)
	}

	return e.bump()
}

func (e *Engine) bump() Snapshot {
	e.version++
	return e.snapshot()
}

// SetQuality changes the quality hint of the current selection.
func (e *Engine) SetQuality(q selection.Quality) error {
	e.mu.Lock()
	next, err := e.selection.SetQuality(q)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	e.selection = next
	snapshot := e.bump()
	e.mu.Unlock()

	e.notify(snapshot)
	return nil
}

// SetCaption selects a caption track by id, or none. Unknown ids are ignored and reported as false.
func (e *Engine) SetCaption(id mo.Option[string]) bool {
	e.mu.Lock()
	next, ok := e.selection.SetCaption(id)
	if !ok {
		e.mu.Unlock()
		return false
	}

	e.selection = next
	snapshot := e.bump()
	e.mu.Unlock()

	e.notify(snapshot)
	return true
}

// Subscribe registers fn for every future change. Listeners run outside the
// engine lock, possibly concurrently, so they should compare Versions.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

func (e *Engine) notify(snapshots ...Snapshot) {
	if len(snapshots) == 0 {
		return
	}

	e.mu.Lock()
	listeners := make([]func(Snapshot), 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	e.mu.Unlock()

	for _, snapshot := range snapshots {
		for _, fn := range listeners {
			fn(snapshot)
		}
	}
}

// Settled blocks until the current identifier leaves Resolving.
func (e *Engine) Settled(ctx context.Context) (State, error) {
	for {
		e.mu.Lock()
		if e.closed {
			state := e.state
			e.mu.Unlock()
			return state, ErrClosed
		}
		if e.state.Phase != Resolving {
			state := e.state
			e.mu.Unlock()
			return state, nil
		}
		settled := e.settled
		e.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return e.State(), ctx.Err()
		}
	}
}

// Close abandons any in-flight attempt and cancels its resolver call.
// The engine ignores every request afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.closed = true
	e.abandon()
	e.cancel()
	e.listeners = make(map[int]func(Snapshot))

	if e.state.Phase == Resolving {
		close(e.settled)
	}
}
