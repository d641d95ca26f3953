package failover

import (
	"context"
	"net"
	"time"

	fiber "github.com/gofiber/fiber/v3"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover/internal/constants"
	"github.com/hyp3rd/failover/internal/sentinel"
)

// ManagementHTTPOption configures the management HTTP server.
type ManagementHTTPOption func(*ManagementHTTPServer)

// ManagementHTTPServer holds Fiber app and settings. It exposes read-only
// introspection over the pool for post-hoc diagnosis: node health, ring layout,
// and latency stats when the wired collaborators support them.
type ManagementHTTPServer struct {
	addr         string
	app          *fiber.App
	readTimeout  time.Duration
	writeTimeout time.Duration
	authFunc     func(fiber.Ctx) error
	statsFn      func() map[string][]uint64
	ln           net.Listener
	started      bool
}

// WithMgmtAuth sets an auth function (return error to block).
func WithMgmtAuth(fn func(fiber.Ctx) error) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.authFunc = fn }
}

// WithMgmtReadTimeout sets read timeout.
func WithMgmtReadTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.readTimeout = d }
}

// WithMgmtWriteTimeout sets write timeout.
func WithMgmtWriteTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.writeTimeout = d }
}

// NewManagementHTTPServer builds an HTTP server holder (lazy start).
func NewManagementHTTPServer(addr string, opts ...ManagementHTTPOption) *ManagementHTTPServer {
	srv := &ManagementHTTPServer{
		addr:         addr,
		readTimeout:  constants.DefaultMgmtReadTimeout,
		writeTimeout: constants.DefaultMgmtWriteTimeout,
	}
	for _, opt := range opts { // apply options
		opt(srv)
	}

	srv.app = fiber.New(fiber.Config{
		ReadTimeout:  srv.readTimeout,
		WriteTimeout: srv.writeTimeout,
	})

	return srv
}

// managementPool is the introspection surface a pool may implement (queried via
// type assertion, optional endpoints vanish when it doesn't).
type managementPool interface {
	MembershipSnapshot() (
		members []struct {
			ID       string
			URL      string
			State    string
			Failures int
		},
		version uint64,
	)
	RingHashSpots() []string
}

// WithMgmtStats exposes a /stats endpoint backed by the given snapshot function,
// typically pkg/stats.(*LatencyCollector).Snapshot.
func WithMgmtStats(snapshot func() map[string][]uint64) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.statsFn = snapshot }
}

// Start launches the listener (idempotent). Caller provides the pool for handler wiring.
func (s *ManagementHTTPServer) Start(ctx context.Context, pool ConnectionPool) error {
	if s.started { // idempotent
		return nil
	}

	s.mountRoutes(pool)

	lc := net.ListenConfig{}

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return ewrap.Wrap(err, "mgmt listen")
	}

	s.ln = ln

	go func() { // serve in background (optional server errors are ignored intentionally)
		err = s.app.Listener(ln)
		if err != nil {
			_ = err
		}
	}()

	s.started = true

	return nil
}

// Address returns the bound address (useful when passing ":0" for ephemeral port). Empty if not started yet.
func (s *ManagementHTTPServer) Address() string {
	if s.ln == nil {
		return ""
	}

	return s.ln.Addr().String()
}

// Shutdown stops the server.
func (s *ManagementHTTPServer) Shutdown(ctx context.Context) error {
	if !s.started {
		return nil
	}

	ch := make(chan error, 1)

	go func() {
		ch <- s.app.Shutdown()
	}()

	select {
	case <-ctx.Done():
		return sentinel.ErrMgmtHTTPShutdownTimeout
	case err := <-ch:
		return err
	}
}

// wrapAuth wraps a handler with the configured auth function, when any.
func (s *ManagementHTTPServer) wrapAuth(h fiber.Handler) fiber.Handler {
	if s.authFunc == nil {
		return h
	}

	return func(c fiber.Ctx) error {
		if err := s.authFunc(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		return h(c)
	}
}

// mountRoutes registers endpoints onto the Fiber app.
func (s *ManagementHTTPServer) mountRoutes(pool ConnectionPool) {
	s.app.Get("/health", s.wrapAuth(func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}))

	mp, ok := pool.(managementPool)
	if ok {
		s.app.Get("/pool/nodes", s.wrapAuth(func(c fiber.Ctx) error {
			members, version := mp.MembershipSnapshot()

			out := make([]fiber.Map, 0, len(members))
			for _, m := range members {
				out = append(out, fiber.Map{
					"id":       m.ID,
					"url":      m.URL,
					"state":    m.State,
					"failures": m.Failures,
				})
			}

			return c.JSON(fiber.Map{"version": version, "nodes": out})
		}))

		s.app.Get("/pool/ring", s.wrapAuth(func(c fiber.Ctx) error {
			return c.JSON(fiber.Map{"vnodes": mp.RingHashSpots()})
		}))
	}

	if s.statsFn != nil {
		s.app.Get("/stats", s.wrapAuth(func(c fiber.Ctx) error {
			return c.JSON(fiber.Map{"latency": s.statsFn()})
		}))
	}
}
