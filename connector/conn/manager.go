package conn

import (
	"context"
	"sync"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"

	pb "github.com/busbridge/busbridge/gen/command"
)

// Config holds the connection identity and per-call metadata values.
type Config struct {
	// Address of the command router, host:port.
	Address string
	// Token is attached to every call as authentication metadata. Empty
	// means no token header.
	Token string
	// RoutingContext is attached to every call as context metadata. Empty
	// means no context header.
	RoutingContext string
	// DialOptions are appended to the manager's own options.
	DialOptions []grpc.DialOption
}

// Manager owns the channel to the command router. It dials lazily, watches
// connectivity, and notifies registered listeners on every transition into
// and out of the ready state. The underlying gRPC channel performs its own
// reconnection with backoff; the manager only observes it.
type Manager struct {
	cfg Config

	mu      sync.Mutex
	conn    *grpc.ClientConn
	watchCh chan struct{}

	lmu        sync.Mutex
	reconnect  []func()
	disconnect []func()

	closeCtx context.Context
	closeFn  context.CancelFunc
}

// NewManager returns a manager for the router at cfg.Address. No connection
// is made until the first Channel or OpenCommandStream call.
func NewManager(cfg Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{cfg: cfg, closeCtx: ctx, closeFn: cancel}
}

// AddReconnectListener registers fn to run on every transition into the
// ready state, the initial connect included.
func (m *Manager) AddReconnectListener(fn func()) {
	m.lmu.Lock()
	defer m.lmu.Unlock()
	m.reconnect = append(m.reconnect, fn)
}

// AddDisconnectListener registers fn to run when an established connection
// is lost.
func (m *Manager) AddDisconnectListener(fn func()) {
	m.lmu.Lock()
	defer m.lmu.Unlock()
	m.disconnect = append(m.disconnect, fn)
}

// Channel returns the shared client connection, dialing on first use.
func (m *Manager) Channel() (*grpc.ClientConn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return m.conn, nil
	}
	if m.closeCtx.Err() != nil {
		return nil, errors.New("connection manager is closed")
	}

	opts := []grpc.DialOption{
		grpc.WithInsecure(),
		grpc.WithChainUnaryInterceptor(
			grpc_prometheus.UnaryClientInterceptor,
			metadataUnaryInterceptor(m.cfg.Token, m.cfg.RoutingContext),
		),
		grpc.WithChainStreamInterceptor(
			grpc_prometheus.StreamClientInterceptor,
			metadataStreamInterceptor(m.cfg.Token, m.cfg.RoutingContext),
		),
	}
	opts = append(opts, m.cfg.DialOptions...)

	conn, err := grpc.Dial(m.cfg.Address, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", m.cfg.Address)
	}
	m.conn = conn
	go m.watch(conn)
	return conn, nil
}

// OpenCommandStream opens the bidirectional command stream on the shared
// channel. The caller owns the receive side.
func (m *Manager) OpenCommandStream(ctx context.Context) (pb.CommandService_OpenStreamClient, error) {
	conn, err := m.Channel()
	if err != nil {
		return nil, err
	}
	return pb.NewCommandServiceClient(conn).OpenStream(ctx)
}

// Close tears down the channel. Listeners are not notified.
func (m *Manager) Close() error {
	m.closeFn()
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (m *Manager) watch(conn *grpc.ClientConn) {
	ready := false
	state := conn.GetState()
	for {
		if state == connectivity.Idle {
			conn.Connect()
		}
		switch state {
		case connectivity.Ready:
			if !ready {
				ready = true
				log.Debugf("Channel to %s ready", m.cfg.Address)
				m.notify(m.snapshot(&m.reconnect))
			}
		case connectivity.TransientFailure, connectivity.Idle:
			if ready {
				ready = false
				log.Warnf("Channel to %s lost", m.cfg.Address)
				m.notify(m.snapshot(&m.disconnect))
			}
		case connectivity.Shutdown:
			return
		}
		if !conn.WaitForStateChange(m.closeCtx, state) {
			return
		}
		state = conn.GetState()
	}
}

func (m *Manager) snapshot(list *[]func()) []func() {
	m.lmu.Lock()
	defer m.lmu.Unlock()
	out := make([]func(), len(*list))
	copy(out, *list)
	return out
}

func (m *Manager) notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
