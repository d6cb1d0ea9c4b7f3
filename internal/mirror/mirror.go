// Package mirror keeps the persistent copy of the organization in step with
// the editor. Requests are queued without blocking and applied one at a time
// by a single worker goroutine.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/orgchart/internal/service"
	"github.com/alexanderramin/orgchart/internal/workbook"
	"github.com/google/uuid"
)

// DefaultResponseBuffer is the capacity of the Responses channel.
const DefaultResponseBuffer = 16

// Backend is the open store the worker serves requests from.
type Backend struct {
	Hierarchy service.HierarchyService
	Search    service.SearchService
	// Close is called once when the worker exits. May be nil.
	Close func() error
}

// Opener prepares the backend. It runs on the worker goroutine, so requests
// posted while it runs are queued.
type Opener func(ctx context.Context) (*Backend, error)

type envelope struct {
	req      Request
	id       string
	queuedAt time.Time
}

// Mirror is the asynchronous front of the store.
type Mirror struct {
	logger    *slog.Logger
	metrics   *metrics
	responses chan Response

	mu     sync.Mutex
	queue  []envelope
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// Option configures a Mirror.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	responseBuffer int
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithResponseBuffer sets the Responses channel capacity. Values below 1 use
// DefaultResponseBuffer.
func WithResponseBuffer(n int) Option {
	return func(o *options) { o.responseBuffer = n }
}

// New starts the worker. The store is opened in the background; ctx bounds
// the worker's lifetime.
func New(ctx context.Context, open Opener, opts ...Option) *Mirror {
	o := options{responseBuffer: DefaultResponseBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.responseBuffer < 1 {
		o.responseBuffer = DefaultResponseBuffer
	}

	m := &Mirror{
		logger:    o.logger.With("component", "mirror"),
		metrics:   getMetrics(),
		responses: make(chan Response, o.responseBuffer),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go m.run(ctx, open)
	return m
}

// Post enqueues req and returns immediately. Requests posted after Close, or
// after the store failed to open, are dropped.
func (m *Mirror) Post(req Request) {
	env := envelope{req: req, id: uuid.NewString(), queuedAt: time.Now()}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.metrics.requestsTotal.WithLabelValues(string(req.Type), resultDropped).Inc()
		m.logger.Warn("request dropped, mirror closed", "request_id", env.id, "type", req.Type)
		return
	}
	m.queue = append(m.queue, env)
	m.metrics.queueDepth.Inc()
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Responses delivers replies in the order their requests were handled. It is
// closed when the worker exits; consumers must keep draining it until then.
func (m *Mirror) Responses() <-chan Response {
	return m.responses
}

// Close stops accepting requests, waits for the queued ones to be handled and
// closes the store.
func (m *Mirror) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
	<-m.done
	return nil
}

func (m *Mirror) run(ctx context.Context, open Opener) {
	defer close(m.done)
	defer close(m.responses)

	startedAt := time.Now()
	backend, err := open(ctx)
	if err != nil {
		dropped := m.abandon()
		m.logger.Error("store failed to open", "error", err, "dropped", dropped)
		m.send(ctx, Response{Type: ResponseError, Message: fmt.Sprintf("could not open the organization store: %v", err)})
		return
	}
	m.logger.Info("store ready", "duration_ms", time.Since(startedAt).Milliseconds())

	m.metrics.ready.Set(1)
	defer m.metrics.ready.Set(0)
	defer func() {
		if backend.Close == nil {
			return
		}
		if err := backend.Close(); err != nil {
			m.logger.Error("closing store", "error", err)
		}
	}()

	for {
		env, ok := m.next(ctx)
		if !ok {
			return
		}
		m.handle(ctx, backend, env)
	}
}

// next blocks until a request is queued. It reports false once the mirror is
// closed and drained, or ctx is done.
func (m *Mirror) next(ctx context.Context) (envelope, bool) {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			env := m.queue[0]
			m.queue[0] = envelope{}
			m.queue = m.queue[1:]
			m.metrics.queueDepth.Dec()
			m.mu.Unlock()
			return env, true
		}
		closed := m.closed
		m.mu.Unlock()

		if closed {
			return envelope{}, false
		}
		select {
		case <-m.wake:
		case <-ctx.Done():
			m.abandon()
			return envelope{}, false
		}
	}
}

// abandon closes the mirror and drops whatever is still queued.
func (m *Mirror) abandon() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	dropped := m.queue
	m.queue = nil
	for _, env := range dropped {
		m.metrics.queueDepth.Dec()
		m.metrics.requestsTotal.WithLabelValues(string(env.req.Type), resultDropped).Inc()
	}
	return len(dropped)
}

func (m *Mirror) send(ctx context.Context, resp Response) {
	select {
	case m.responses <- resp:
	case <-ctx.Done():
	}
}

func (m *Mirror) handle(ctx context.Context, backend *Backend, env envelope) {
	logger := m.logger.With("request_id", env.id, "type", env.req.Type)
	m.metrics.queueWait.Observe(time.Since(env.queuedAt).Seconds())

	h, ok := handlers[env.req.Type]
	if !ok {
		m.metrics.requestsTotal.WithLabelValues(string(env.req.Type), resultInvalid).Inc()
		logger.Warn("unknown request type, dropped")
		return
	}

	startedAt := time.Now()
	resp, err := h(ctx, backend, env.req)
	m.metrics.requestDuration.WithLabelValues(string(env.req.Type)).Observe(time.Since(startedAt).Seconds())

	result := resultOK
	switch {
	case errors.Is(err, errInvalidRequest):
		result = resultInvalid
		logger.Warn("invalid request, dropped", "error", err)
	case err != nil:
		result = resultError
		logger.Error("request failed", "error", err)
		resp = &Response{Type: ResponseError, Message: err.Error()}
	case resp != nil && (resp.Type == ResponseOpenError || resp.Type == ResponseOpenMissingData):
		result = resultRejected
		logger.Info("workbook rejected", "response", resp.Type)
	default:
		logger.Debug("request handled", "duration_ms", time.Since(startedAt).Milliseconds())
	}
	m.metrics.requestsTotal.WithLabelValues(string(env.req.Type), result).Inc()

	if resp != nil {
		m.send(ctx, *resp)
	}
}

var errInvalidRequest = errors.New("invalid request")

type handlerFunc func(ctx context.Context, b *Backend, req Request) (*Response, error)

var handlers = map[RequestType]handlerFunc{
	RequestNew:     handleNew,
	RequestOpen:    handleOpen,
	RequestSearch:  handleSearch,
	RequestMove:    handleMove,
	RequestSwap:    handleSwap,
	RequestGetTree: handleGetTree,
}

func handleNew(ctx context.Context, b *Backend, _ Request) (*Response, error) {
	root, err := b.Hierarchy.Reset(ctx, "")
	if err != nil {
		return nil, err
	}
	return &Response{Type: ResponseTree, Tree: root}, nil
}

func handleOpen(ctx context.Context, b *Backend, req Request) (*Response, error) {
	root, err := b.Hierarchy.Import(ctx, req.Buffer)

	var structure *workbook.StructureError
	var missing *workbook.MissingData
	switch {
	case errors.As(err, &missing):
		return &Response{Type: ResponseOpenMissingData, Missing: missing}, nil
	case errors.As(err, &structure):
		return &Response{Type: ResponseOpenError, Message: structure.Message}, nil
	case err != nil:
		return nil, err
	}
	return &Response{Type: ResponseTree, Tree: root}, nil
}

func handleSearch(ctx context.Context, b *Backend, req Request) (*Response, error) {
	switch req.Category {
	case SearchOffices:
		results, err := b.Search.Offices(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		return &Response{Type: ResponseOffices, Offices: results}, nil
	case SearchPositions:
		results, err := b.Search.Positions(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		return &Response{Type: ResponsePositions, Positions: results}, nil
	default:
		return nil, fmt.Errorf("search category %q: %w", req.Category, errInvalidRequest)
	}
}

// Moves and swaps only answer when they fail.
func handleMove(ctx context.Context, b *Backend, req Request) (*Response, error) {
	return nil, b.Hierarchy.Move(ctx, req.Dragged, req.Target, req.Descendants)
}

func handleSwap(ctx context.Context, b *Backend, req Request) (*Response, error) {
	return nil, b.Hierarchy.Swap(ctx, req.Dragged, req.Target)
}

func handleGetTree(ctx context.Context, b *Backend, _ Request) (*Response, error) {
	root, err := b.Hierarchy.LoadTree(ctx)
	if err != nil {
		return nil, err
	}
	return &Response{Type: ResponseTree, Tree: root}, nil
}
