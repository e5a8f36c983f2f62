package captions

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mgpai22/cuepoint/internal/logging"
)

// lead-in added to the playback clock before matching, in seconds
const leadInSeconds = 1

// lifecycle of a Source
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateTornDown:
		return "torn-down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// where the subtitle text comes from; URL wins when both are set
type Origin struct {
	URL  string
	Blob string
}

// rendering hints passed through to the host
type Styles struct {
	Color      string `json:"color"`
	Size       string `json:"size"`
	Background string `json:"background"`
	Font       string `json:"font"`
}

var DefaultStyles = Styles{
	Color:      "yellow",
	Size:       "16px",
	Background: "black",
	Font:       "sans-serif",
}

// what a query hands back to the rendering host
type Payload struct {
	Entry         Entry    `json:"-"`
	Content       []string `json:"content"`
	Styles        Styles   `json:"styles"`
	RenderContext any      `json:"render_context,omitempty"`
}

// Source owns one parsed caption sequence for a playback session.
type Source struct {
	id       string
	origin   Origin
	parser   Parser
	loader   Loader
	optimize func([]Entry) []Entry
	styles   Styles
	logger   *logging.Logger

	mu      sync.RWMutex
	state   State
	entries []Entry
	active  *Entry
	err     error
	done    chan struct{}
}

type Option func(*Source)

func WithLoader(loader Loader) Option {
	return func(s *Source) {
		s.loader = loader
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOptimizer installs a post-parse hook that may build a faster lookup
// order. It must return a sequence that keeps the first-match semantics of
// Query.
func WithOptimizer(optimize func([]Entry) []Entry) Option {
	return func(s *Source) {
		if optimize != nil {
			s.optimize = optimize
		}
	}
}

func WithStyles(styles Styles) Option {
	return func(s *Source) {
		s.styles = styles
	}
}

// New creates a Source and triggers its single parse. A blob is parsed
// before New returns; a URL is acquired through the configured Loader on a
// separate goroutine. When neither is supplied the Source is returned in
// StateFailed together with ErrNoOrigin. A URL without a Loader leaves the
// Source initializing and returns ErrNoLoader.
func New(
	ctx context.Context,
	origin Origin,
	parser Parser,
	opts ...Option,
) (*Source, error) {
	s := &Source{
		id:       uuid.NewString(),
		origin:   origin,
		parser:   parser,
		optimize: func(entries []Entry) []Entry { return entries },
		styles:   DefaultStyles,
		logger:   logging.Nop(),
		state:    StateUninitialized,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)

	s.state = StateInitializing

	if origin.URL == "" && origin.Blob == "" {
		s.logger.Errorw("Required caption origin is missing")
		s.fail(ErrNoOrigin)
		return s, ErrNoOrigin
	}

	if parser == nil {
		err := fmt.Errorf("captions: parser is required")
		s.logger.Errorw("Caption parser is missing")
		s.fail(err)
		return s, err
	}

	if origin.URL != "" {
		if origin.Blob != "" {
			s.logger.Warnw("Both file reference and blob supplied, using file reference",
				"url", origin.URL,
			)
		}
		if s.loader == nil {
			s.logger.Warnw("No loader configured, captions will not be acquired",
				"url", origin.URL,
			)
			return s, ErrNoLoader
		}
		go s.acquire(ctx)
		return s, nil
	}

	s.complete(origin.Blob)
	return s, s.Err()
}

func (s *Source) acquire(ctx context.Context) {
	s.logger.Infow("Loading captions", "url", s.origin.URL)

	raw, err := s.loader.Load(ctx, s.origin.URL)
	if err != nil {
		s.logger.Errorw("Failed to load captions",
			"url", s.origin.URL,
			"error", err,
		)
		s.fail(fmt.Errorf("failed to load captions: %w", err))
		return
	}

	s.complete(raw)
}

// parses raw and publishes the result; the parse is finished before any
// query can observe it
func (s *Source) complete(raw string) {
	entries, err := s.parser.Parse(raw)
	if err != nil {
		s.logger.Errorw("Failed to parse captions", "error", err)
		s.fail(err)
		return
	}

	entries = s.optimize(entries)

	s.mu.Lock()
	published := s.state == StateInitializing
	if published {
		s.entries = entries
		s.state = StateReady
	}
	s.mu.Unlock()
	close(s.done)

	if !published {
		s.logger.Infow("Session ended before captions were ready, discarding",
			"entries", len(entries),
		)
		return
	}
	s.logger.Infow("Captions ready", "entries", len(entries))
}

func (s *Source) fail(err error) {
	s.mu.Lock()
	if s.state == StateInitializing {
		s.state = StateFailed
		s.err = err
	}
	s.mu.Unlock()
	close(s.done)
}

// Query returns what should be visible at elapsedSeconds of playback, or
// nil when nothing is. renderContext is passed through untouched.
func (s *Source) Query(elapsedSeconds float64, renderContext any) *Payload {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil
	}

	ms := (elapsedSeconds + leadInSeconds) * 1000
	entry, ok := lookup(s.entries, ms)
	if !ok || len(entry.Content) == 0 {
		s.active = nil
		return nil
	}

	s.active = &entry
	return &Payload{
		Entry:         entry,
		Content:       entry.Content,
		Styles:        s.styles,
		RenderContext: renderContext,
	}
}

// Lookup finds the first entry whose half-open interval contains ms. No
// lead-in is applied.
func (s *Source) Lookup(ms float64) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		return Entry{}, false
	}
	return lookup(s.entries, ms)
}

// scans the whole sequence in source order every call
func lookup(entries []Entry, ms float64) (Entry, bool) {
	for _, entry := range entries {
		if float64(entry.Begin) <= ms && ms < float64(entry.End) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Deinit clears the active entry and ends the session. A session still
// acquiring its captions is ended too, and the late result is discarded.
// Safe to call more than once.
func (s *Source) Deinit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = nil
	if s.state == StateReady || s.state == StateInitializing {
		s.state = StateTornDown
		s.logger.Infow("Captions torn down")
	}
}

// closed once acquisition and parsing have finished
func (s *Source) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the Source has finished initializing or ctx ends.
func (s *Source) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries returns a copy of the parsed sequence.
func (s *Source) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

func (s *Source) Active() *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Source) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Source) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Source) ID() string {
	return s.id
}

func (s *Source) Origin() Origin {
	return s.origin
}
