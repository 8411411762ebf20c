package database

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang-medicalbackend/apperrors"
	"golang-medicalbackend/config"
	"golang-medicalbackend/retry"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// State is the lifecycle position of a Manager.
type State int32

const (
	Uninitialized State = iota
	Connecting
	Connected
	Disconnected
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Dialer opens a client for uri. It must not require the server to be reachable.
type Dialer func(ctx context.Context, uri string) (*mongo.Client, error)

// Pinger issues a liveness command over client.
type Pinger func(ctx context.Context, client *mongo.Client) error

// Manager owns the single MongoDB connection of the process.
//
// Connect runs once at startup and blocks through every retry. If all
// attempts fail the manager settles in Disconnected and stays there; there
// is no reconnect at runtime. Request paths only read the state.
type Manager struct {
	cfg    config.MongoConfig
	retry  retry.Config
	dial   Dialer
	ping   Pinger
	logger zerolog.Logger

	once sync.Once

	mu      sync.RWMutex
	state   State
	client  *mongo.Client
	db      *mongo.Database
	lastErr error
	closed  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for connection progress.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithDialer replaces the client constructor.
func WithDialer(dial Dialer) Option {
	return func(m *Manager) { m.dial = dial }
}

// WithPinger replaces the liveness command.
func WithPinger(ping Pinger) Option {
	return func(m *Manager) { m.ping = ping }
}

// WithSleep replaces the wait between connection attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(m *Manager) { m.retry.Sleep = sleep }
}

// NewManager builds a Manager in the Uninitialized state.
func NewManager(cfg config.MongoConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		retry:  retry.Fixed(cfg.ConnectAttempts, cfg.ConnectDelay),
		dial:   DialMongo,
		ping:   PingMongo,
		logger: zerolog.Nop(),
		state:  Uninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DialMongo creates a client for uri using the stable server API.
func DialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	return mongo.Connect(ctx, opts)
}

// PingMongo sends a ping to the admin database.
func PingMongo(ctx context.Context, client *mongo.Client) error {
	return client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Connect establishes the connection, retrying with a fixed delay. It never
// fails the caller: the outcome is the returned state, and the cause of a
// failed startup is available from LastError. Only the first call does any
// work; later or concurrent calls wait for it and report its result.
func (m *Manager) Connect(ctx context.Context) State {
	m.once.Do(func() { m.connect(ctx) })
	return m.State()
}

func (m *Manager) connect(ctx context.Context) {
	m.setState(Connecting)

	target := redact(m.cfg.URI)
	attempt := 0
	var client *mongo.Client

	err := retry.DoWithLog(ctx, m.retry, "MongoDB", func() error {
		attempt++
		m.logger.Info().
			Int("attempt", attempt).
			Int("max_attempts", m.retry.MaxAttempts).
			Str("uri", target).
			Msg("connecting to MongoDB")

		c, err := m.dial(ctx, m.cfg.URI)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		pingCtx, cancel := m.pingContext(ctx)
		defer cancel()
		if err := m.ping(pingCtx, c); err != nil {
			_ = c.Disconnect(context.Background())
			return fmt.Errorf("failed to ping: %w", err)
		}

		client = c
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		m.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", nextDelay).
			Msg("MongoDB connection attempt failed")
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.client = nil
		m.db = nil
		m.state = Disconnected
		m.lastErr = apperrors.NewStartupConnectivityError("could not connect to MongoDB", err)
		m.logger.Error().Err(err).Int("attempts", attempt).Msg("giving up on MongoDB, running without a database")
		return
	}

	// Disconnect ran while we were still retrying; the new client has no owner.
	if m.closed {
		m.state = Disconnected
		m.logger.Info().Msg("MongoDB connected after shutdown began, closing it")
		if err := client.Disconnect(context.Background()); err != nil {
			m.logger.Warn().Err(err).Msg("failed to close MongoDB client opened during shutdown")
		}
		return
	}

	m.client = client
	m.db = client.Database(m.cfg.Database)
	m.state = Connected
	m.lastErr = nil
	m.logger.Info().Str("database", m.cfg.Database).Int("attempts", attempt).Msg("connected to MongoDB")
}

// Disconnect closes the live client if there is one. Calling it without a
// prior successful Connect, or more than once, is a no-op. A Connect still in
// progress will not publish its client afterwards.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	client := m.client
	m.client = nil
	m.db = nil
	if m.state == Connected {
		m.state = Disconnected
	}
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	m.logger.Info().Msg("MongoDB connection closed")
	return nil
}

// Collection returns the named collection, or a NotConnected error when
// there is no live connection.
func (m *Manager) Collection(name string) (*mongo.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != Connected || m.db == nil {
		return nil, apperrors.NewNotConnectedError(fmt.Sprintf("no database connection for collection %q", name))
	}
	return m.db.Collection(name), nil
}

// Ping runs the liveness command against the live connection.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	if client == nil {
		return apperrors.NewNotConnectedError("no database connection")
	}

	pingCtx, cancel := m.pingContext(ctx)
	defer cancel()
	return m.ping(pingCtx, client)
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// LastError returns the startup failure, if Connect gave up.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) pingContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.PingTimeout > 0 {
		return context.WithTimeout(ctx, m.cfg.PingTimeout)
	}
	return context.WithCancel(ctx)
}

func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparseable uri>"
	}
	return u.Redacted()
}
