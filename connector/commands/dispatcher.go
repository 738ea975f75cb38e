package commands

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/busbridge/busbridge/bus"
	pb "github.com/busbridge/busbridge/gen/command"
)

// DispatchInterceptor transforms an outbound command before it is encoded.
// Interceptors apply in registration order.
type DispatchInterceptor func(msg *bus.Message) *bus.Message

type registeredDispatchInterceptor struct {
	id uint64
	i  DispatchInterceptor
}

// RegisterDispatchInterceptor adds i to the outbound chain and returns a
// registration that removes it.
func (c *Connector) RegisterDispatchInterceptor(i DispatchInterceptor) bus.Registration {
	c.imu.Lock()
	c.nextID++
	id := c.nextID
	c.interceptors = append(c.interceptors, registeredDispatchInterceptor{id: id, i: i})
	c.imu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.imu.Lock()
			defer c.imu.Unlock()
			for n, ri := range c.interceptors {
				if ri.id == id {
					c.interceptors = append(c.interceptors[:n], c.interceptors[n+1:]...)
					return
				}
			}
		})
	}
}

func (c *Connector) applyDispatchInterceptors(msg *bus.Message) *bus.Message {
	c.imu.Lock()
	chain := make([]registeredDispatchInterceptor, len(c.interceptors))
	copy(chain, c.interceptors)
	c.imu.Unlock()

	for _, ri := range chain {
		msg = ri.i(msg)
	}
	return msg
}

// Dispatch routes msg through the remote router to whichever node holds the
// matching handler and delivers the outcome to cb, exactly once. The call
// does not wait for the reply: the RPC runs on its own goroutine and cb
// fires there. A failure while preparing the call reaches cb before
// Dispatch returns. Failures are never returned or thrown: they reach cb as
// an exceptional result carrying a wire error code.
func (c *Connector) Dispatch(ctx context.Context, msg *bus.Message, cb bus.Callback) {
	done := onceCallback(cb)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Dispatch of %q failed: %v", msg.Name, r)
			c.failDispatch(done, errors.Errorf("preparing dispatch: %v", r))
		}
	}()

	msg = c.applyDispatchInterceptors(msg)
	wire := c.codec.encodeCommand(msg, c.cfg.RoutingStrategy(msg), c.cfg.Priority(msg))

	ch, err := c.conn.Channel()
	if err != nil {
		c.failDispatch(done, err)
		return
	}
	client := pb.NewCommandServiceClient(ch)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("Dispatch of %q failed: %v", msg.Name, r)
				c.failDispatch(done, errors.Errorf("dispatching command: %v", r))
			}
		}()

		resp, err := client.Dispatch(ctx, wire)
		if err != nil {
			c.failDispatch(done, err)
			return
		}
		res := c.codec.decodeResult(resp)
		if res.IsError() {
			var remote *RemoteError
			if errors.As(res.Err, &remote) {
				dispatchFailures.WithLabelValues(remote.Code).Inc()
			}
		}
		done(res)
	}()
}

func (c *Connector) failDispatch(done bus.Callback, err error) {
	dispatchFailures.WithLabelValues(ErrCodeDispatch).Inc()
	done(dispatchError(err))
}

// onceCallback guards cb against a second invocation.
func onceCallback(cb bus.Callback) bus.Callback {
	var once sync.Once
	return func(res bus.Result) {
		once.Do(func() { cb(res) })
	}
}
