package commands

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/busbridge/busbridge/bus"
	pb "github.com/busbridge/busbridge/gen/command"
)

const pollTimeout = time.Second

// ConnectionManager supplies the channel and command stream, and notifies
// of connectivity transitions. conn.Manager is the production
// implementation.
type ConnectionManager interface {
	Channel() (*grpc.ClientConn, error)
	OpenCommandStream(ctx context.Context) (pb.CommandService_OpenStreamClient, error)
	AddReconnectListener(fn func())
	AddDisconnectListener(fn func())
}

// Connector bridges the local command bus to the remote command router. It
// forwards locally-issued commands for routing, and executes commands the
// router delivers for names this client has subscribed.
//
// A Connector maintains one bidirectional stream to the router. The stream
// is created lazily, torn down on error, and re-created on next use; the
// set of subscribed command names is replayed to the router after every
// reconnect.
type Connector struct {
	cfg   Config
	conn  ConnectionManager
	local bus.CommandBus
	codec codec

	queue *priorityQueue

	// stream is the current flow-controlled stream, nil when closed.
	// Creation is serialized through createSF so at most one observer is
	// installed at a time.
	stream   atomic.Pointer[flowControlledStream]
	createSF singleflight.Group

	// subscribed holds the command names this client handles. Values are
	// replayed on every reconnect.
	subscribed sync.Map

	// subscribing is a hint to skip a redundant resubscribe while a
	// subscribe call is already sending.
	subscribing int32

	running int32
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	imu          sync.Mutex
	interceptors []registeredDispatchInterceptor
	nextID       uint64
}

// NewConnector validates cfg, registers the connectivity listeners with
// mgr, and starts the worker pool.
func NewConnector(cfg Config, mgr ConnectionManager, local bus.CommandBus) (*Connector, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Connector{
		cfg:     cfg,
		conn:    mgr,
		local:   local,
		codec:   codec{clientID: cfg.ClientID, componentName: cfg.ComponentName},
		queue:   newPriorityQueue(),
		running: 1,
		ctx:     ctx,
		cancel:  cancel,
	}

	mgr.AddReconnectListener(c.resubscribe)
	mgr.AddDisconnectListener(c.unsubscribeAll)

	c.wg.Add(cfg.CommandThreads)
	for i := 0; i < cfg.CommandThreads; i++ {
		go c.worker()
	}
	return c, nil
}

// Subscribe registers h on the local bus and declares to the router that
// this client handles commands named name. A failed wire send is tolerated:
// the name stays registered, a replay is attempted right away, and the next
// reconnect replays it again.
//
// The returned registration removes the local handler and sends a
// best-effort unsubscription.
func (c *Connector) Subscribe(name string, h bus.Handler) bus.Registration {
	local := c.local.Subscribe(name, h)
	c.subscribed.Store(name, struct{}{})
	c.sendSubscription(name)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.Unsubscribe(name)
			local()
		})
	}
}

// Unsubscribe removes name from the registry and best-effort notifies the
// router. Send failures are ignored.
func (c *Connector) Unsubscribe(name string) {
	c.subscribed.Delete(name)
	if f := c.stream.Load(); f != nil {
		if err := f.Send(unsubscriptionMessage(name, c.cfg.ClientID)); err != nil {
			log.Debugf("Unsubscribe for %q not delivered: %v", name, err)
		}
	}
}

// RegisterHandlerInterceptor forwards i to the local bus.
func (c *Connector) RegisterHandlerInterceptor(i bus.HandlerInterceptor) bus.Registration {
	return c.local.RegisterHandlerInterceptor(i)
}

// Disconnect signals stream completion, stops the workers, and waits for
// in-flight tasks to finish. The connector cannot be restarted.
func (c *Connector) Disconnect() {
	if !atomic.CompareAndSwapInt32(&c.running, 1, 0) {
		return
	}
	if f := c.stream.Swap(nil); f != nil {
		if err := f.CloseSend(); err != nil {
			log.Debugf("Closing command stream: %v", err)
		}
	}
	c.cancel()
	c.wg.Wait()
}

func (c *Connector) isRunning() bool {
	return atomic.LoadInt32(&c.running) == 1
}

func (c *Connector) sendSubscription(name string) {
	var f *flowControlledStream
	var err error
	// Runs after the flag is cleared: a failed send, or a stream torn down
	// while the flag suppressed the receive loop's replay, replays now.
	defer func() {
		if (err != nil || c.stream.Load() != f) && c.isRunning() {
			c.resubscribe()
		}
	}()
	atomic.StoreInt32(&c.subscribing, 1)
	defer atomic.StoreInt32(&c.subscribing, 0)

	f, err = c.commandStream()
	if err != nil {
		log.Warnf("Subscribe for %q deferred, no command stream: %v", name, err)
		return
	}
	if err = f.Send(c.subscriptionMessage(name)); err != nil {
		log.Warnf("Subscribe for %q not delivered: %v", name, err)
	}
}

// resubscribe replays every subscribed name to the router. Invoked on each
// successful (re)connect, and after a stream error the connection manager
// does not own.
func (c *Connector) resubscribe() {
	if atomic.LoadInt32(&c.subscribing) == 1 {
		return
	}
	empty := true
	c.subscribed.Range(func(interface{}, interface{}) bool {
		empty = false
		return false
	})
	if empty {
		return
	}

	f, err := c.commandStream()
	if err != nil {
		log.Warnf("Resubscribe deferred, no command stream: %v", err)
		return
	}
	c.subscribed.Range(func(key, _ interface{}) bool {
		name := key.(string)
		if err := f.Send(c.subscriptionMessage(name)); err != nil {
			log.Warnf("Resubscribe for %q not delivered: %v", name, err)
			return false
		}
		log.Debugf("Resubscribed %q", name)
		return true
	})
}

// unsubscribeAll best-effort unsubscribes every name and drops the stream
// handle. The registry keeps the names so the next reconnect replays them.
func (c *Connector) unsubscribeAll() {
	f := c.stream.Load()
	if f == nil {
		return
	}
	c.subscribed.Range(func(key, _ interface{}) bool {
		_ = f.Send(unsubscriptionMessage(key.(string), c.cfg.ClientID))
		return true
	})
	c.stream.CompareAndSwap(f, nil)
}

// commandStream returns the current stream, creating it if needed. At most
// one goroutine creates; the initial permit grant happens before the handle
// is published, so no user ever sees a stream without credit.
func (c *Connector) commandStream() (*flowControlledStream, error) {
	if f := c.stream.Load(); f != nil {
		return f, nil
	}
	v, err, _ := c.createSF.Do("command-stream", func() (interface{}, error) {
		if f := c.stream.Load(); f != nil {
			return f, nil
		}
		raw, err := c.conn.OpenCommandStream(c.ctx)
		if err != nil {
			return nil, err
		}
		f, err := newFlowControlledStream(raw, c.cfg.ClientID, c.cfg.InitialPermits, c.cfg.NewPermits, c.cfg.NewPermitsThreshold)
		if err != nil {
			_ = raw.CloseSend()
			return nil, err
		}
		c.stream.Store(f)
		go c.receive(raw, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*flowControlledStream), nil
}

// receive drains the inbound half of the stream, enqueueing routed
// commands. On a stream error the handle is dropped; unless the transport
// reports unavailability (the connection manager drives reconnection then),
// the subscriptions are replayed onto a fresh stream immediately.
func (c *Connector) receive(raw pb.CommandService_OpenStreamClient, f *flowControlledStream) {
	for {
		in, err := raw.Recv()
		if err != nil {
			c.stream.CompareAndSwap(f, nil)
			switch {
			case err == io.EOF:
				log.Debug("Command stream completed")
			case status.Code(err) == codes.Unavailable:
				log.Warnf("Command stream unavailable: %v", err)
			default:
				log.Warnf("Command stream failed: %v", err)
				if c.isRunning() {
					c.resubscribe()
				}
			}
			return
		}
		if cmd := in.GetCommand(); cmd != nil {
			commandsReceived.Inc()
			c.queue.Offer(cmd)
		}
	}
}

func (c *Connector) worker() {
	defer c.wg.Done()
	for c.isRunning() {
		cmd := c.queue.Poll(pollTimeout)
		if cmd == nil {
			continue
		}
		c.process(cmd)
	}
}

// process executes one inbound command. Failures never escape: they are
// logged, and a malformed command or a failed handler is answered with an
// error response carrying the proper code. A panic in the processing path
// is recovered and logged only; no response is sent for that command.
func (c *Connector) process(cmd *pb.Command) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Recovered processing command %s: %v", cmd.GetMessageIdentifier(), r)
		}
	}()

	f, err := c.commandStream()
	if err != nil {
		log.Errorf("No command stream, dropping command %s: %v", cmd.GetMessageIdentifier(), err)
		return
	}

	msg, err := c.codec.decodeCommand(cmd)
	if err != nil {
		log.Errorf("Malformed command %s: %v", cmd.GetMessageIdentifier(), err)
		c.respond(f, cmd.GetMessageIdentifier(), dispatchError(err))
		return
	}

	c.local.Dispatch(c.ctx, msg, func(res bus.Result) {
		c.respond(f, cmd.GetMessageIdentifier(), res)
	})
}

func (c *Connector) respond(f *flowControlledStream, requestID string, res bus.Result) {
	resp := c.codec.encodeResult(res, requestID)
	outcome := "success"
	if code := resp.GetErrorCode(); code != "" {
		outcome = code
	}
	err := f.Send(&pb.CommandProviderOutbound{
		Request: &pb.CommandProviderOutbound_CommandResponse{CommandResponse: resp},
	})
	if err != nil {
		log.Errorf("Response for %s not delivered: %v", requestID, err)
		return
	}
	responsesSent.WithLabelValues(outcome).Inc()
}

func (c *Connector) subscriptionMessage(name string) *pb.CommandProviderOutbound {
	return &pb.CommandProviderOutbound{
		Request: &pb.CommandProviderOutbound_Subscribe{
			Subscribe: &pb.CommandSubscription{
				MessageIdentifier: uuid.NewString(),
				Command:           name,
				ClientId:          c.cfg.ClientID,
				ComponentName:     c.cfg.ComponentName,
			},
		},
	}
}

func unsubscriptionMessage(name, clientID string) *pb.CommandProviderOutbound {
	return &pb.CommandProviderOutbound{
		Request: &pb.CommandProviderOutbound_Unsubscribe{
			Unsubscribe: &pb.CommandSubscription{
				MessageIdentifier: uuid.NewString(),
				Command:           name,
				ClientId:          clientID,
			},
		},
	}
}
