package commands

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/busbridge/busbridge/bus"
	pb "github.com/busbridge/busbridge/gen/command"
)

type fakeStream struct {
	grpc.ClientStream
	sent    chan *pb.CommandProviderOutbound
	inbound chan *pb.CommandProviderInbound
	errs    chan error
	once    sync.Once
	closed  chan struct{}
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		sent:    make(chan *pb.CommandProviderOutbound, 64),
		inbound: make(chan *pb.CommandProviderInbound, 16),
		errs:    make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (s *fakeStream) Send(m *pb.CommandProviderOutbound) error {
	select {
	case s.sent <- m:
		return nil
	case <-s.closed:
		return errors.New("stream closed")
	}
}

func (s *fakeStream) Recv() (*pb.CommandProviderInbound, error) {
	select {
	case m := <-s.inbound:
		return m, nil
	case err := <-s.errs:
		return nil, err
	case <-s.closed:
		return nil, io.EOF
	}
}

func (s *fakeStream) CloseSend() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

type fakeManager struct {
	mu         sync.Mutex
	streams    chan *fakeStream
	openErr    error
	reconnect  []func()
	disconnect []func()
}

func newFakeManager() *fakeManager {
	return &fakeManager{streams: make(chan *fakeStream, 8)}
}

func (m *fakeManager) Channel() (*grpc.ClientConn, error) {
	return nil, errors.New("no channel in fake manager")
}

func (m *fakeManager) OpenCommandStream(ctx context.Context) (pb.CommandService_OpenStreamClient, error) {
	m.mu.Lock()
	err := m.openErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s := newFakeStream()
	m.streams <- s
	return s, nil
}

func (m *fakeManager) AddReconnectListener(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconnect = append(m.reconnect, fn)
}

func (m *fakeManager) AddDisconnectListener(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnect = append(m.disconnect, fn)
}

func (m *fakeManager) fireReconnect() {
	m.mu.Lock()
	fns := append([]func(){}, m.reconnect...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (m *fakeManager) fireDisconnect() {
	m.mu.Lock()
	fns := append([]func(){}, m.disconnect...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func awaitStream(t *testing.T, m *fakeManager, timeout time.Duration) *fakeStream {
	t.Helper()
	select {
	case s := <-m.streams:
		return s
	case <-time.After(timeout):
		t.Fatal("No stream was opened")
		return nil
	}
}

func awaitMessage(t *testing.T, s *fakeStream, timeout time.Duration) *pb.CommandProviderOutbound {
	t.Helper()
	select {
	case m := <-s.sent:
		return m
	case <-time.After(timeout):
		t.Fatal("No message was sent on the stream")
		return nil
	}
}

func echoHandler(ctx context.Context, msg *bus.Message) (*bus.Result, error) {
	return &bus.Result{PayloadType: msg.PayloadType, Payload: msg.Payload}, nil
}

func testConfig() Config {
	return Config{
		ClientID:            "client-1",
		ComponentName:       "ordering",
		CommandThreads:      2,
		InitialPermits:      100,
		NewPermits:          50,
		NewPermitsThreshold: 50,
	}
}

func newTestConnector(t *testing.T, mgr ConnectionManager) *Connector {
	t.Helper()
	c, err := NewConnector(testConfig(), mgr, bus.NewSimple())
	if err != nil {
		t.Fatalf("NewConnector failed: %s", err)
	}
	t.Cleanup(c.Disconnect)
	return c
}

func TestSubscribeSendsSubscription(t *testing.T) {
	mgr := newFakeManager()
	c := newTestConnector(t, mgr)

	reg := c.Subscribe("testCommand", echoHandler)

	stream := awaitStream(t, mgr, time.Second)

	// The stream opens with its initial credit grant, then the
	// subscription.
	first := awaitMessage(t, stream, time.Second)
	if fc := first.GetFlowControl(); fc == nil || fc.GetPermits() != 100 {
		t.Fatalf("Expecting an initial grant of 100 permits, got %v", first)
	}
	sub := awaitMessage(t, stream, time.Second)
	if sub.GetSubscribe() == nil {
		t.Fatalf("Expecting a subscription, got %v", sub)
	}
	if sub.GetSubscribe().GetCommand() != "testCommand" {
		t.Fatalf("Unexpected command name: %s", sub.GetSubscribe().GetCommand())
	}
	if sub.GetSubscribe().GetClientId() != "client-1" || sub.GetSubscribe().GetComponentName() != "ordering" {
		t.Fatalf("Unexpected identity: %v", sub.GetSubscribe())
	}
	if sub.GetSubscribe().GetMessageIdentifier() == "" {
		t.Fatal("Expecting a fresh message identifier")
	}

	reg()
	unsub := awaitMessage(t, stream, 2*time.Second)
	if unsub.GetUnsubscribe() == nil || unsub.GetUnsubscribe().GetCommand() != "testCommand" {
		t.Fatalf("Expecting an unsubscription for testCommand, got %v", unsub)
	}
}

func TestResubscribeOnStreamError(t *testing.T) {
	mgr := newFakeManager()
	c := newTestConnector(t, mgr)

	c.Subscribe("testCommand", echoHandler)
	stream := awaitStream(t, mgr, time.Second)
	awaitMessage(t, stream, time.Second) // initial grant
	awaitMessage(t, stream, time.Second) // subscription

	// A stream failure the connection manager does not own triggers an
	// immediate replay onto a fresh stream.
	stream.errs <- status.Error(codes.Internal, "stream torn down")

	replacement := awaitStream(t, mgr, 200*time.Millisecond)
	first := awaitMessage(t, replacement, 200*time.Millisecond)
	if first.GetFlowControl() == nil {
		t.Fatalf("Expecting the fresh stream to open with a grant, got %v", first)
	}
	sub := awaitMessage(t, replacement, 200*time.Millisecond)
	if sub.GetSubscribe() == nil || sub.GetSubscribe().GetCommand() != "testCommand" {
		t.Fatalf("Expecting a replayed subscription, got %v", sub)
	}
}

func TestNoResubscribeOnUnavailable(t *testing.T) {
	mgr := newFakeManager()
	c := newTestConnector(t, mgr)

	c.Subscribe("testCommand", echoHandler)
	stream := awaitStream(t, mgr, time.Second)
	awaitMessage(t, stream, time.Second)
	awaitMessage(t, stream, time.Second)

	stream.errs <- status.Error(codes.Unavailable, "connection lost")

	select {
	case <-mgr.streams:
		t.Fatal("Expecting no resubscribe while the transport is unavailable")
	case <-time.After(100 * time.Millisecond):
	}

	// The connection manager drives recovery.
	mgr.fireReconnect()
	replacement := awaitStream(t, mgr, time.Second)
	awaitMessage(t, replacement, time.Second) // grant
	sub := awaitMessage(t, replacement, time.Second)
	if sub.GetSubscribe() == nil || sub.GetSubscribe().GetCommand() != "testCommand" {
		t.Fatalf("Expecting a replayed subscription, got %v", sub)
	}
}

func TestDisconnectNotificationReplaysOnReconnect(t *testing.T) {
	mgr := newFakeManager()
	c := newTestConnector(t, mgr)

	c.Subscribe("commandA", echoHandler)
	c.Subscribe("commandB", echoHandler)
	stream := awaitStream(t, mgr, time.Second)
	for i := 0; i < 3; i++ { // grant + two subscriptions
		awaitMessage(t, stream, time.Second)
	}

	mgr.fireDisconnect()
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		m := awaitMessage(t, stream, time.Second)
		if m.GetUnsubscribe() == nil {
			t.Fatalf("Expecting unsubscriptions on disconnect, got %v", m)
		}
		seen[m.GetUnsubscribe().GetCommand()] = true
	}
	if diff := deep.Equal(map[string]bool{"commandA": true, "commandB": true}, seen); diff != nil {
		t.Fatalf("Unexpected unsubscriptions: %v", diff)
	}

	mgr.fireReconnect()
	replacement := awaitStream(t, mgr, time.Second)
	awaitMessage(t, replacement, time.Second) // grant
	seen = map[string]bool{}
	for i := 0; i < 2; i++ {
		m := awaitMessage(t, replacement, time.Second)
		if m.GetSubscribe() == nil {
			t.Fatalf("Expecting replayed subscriptions, got %v", m)
		}
		seen[m.GetSubscribe().GetCommand()] = true
	}
	if diff := deep.Equal(map[string]bool{"commandA": true, "commandB": true}, seen); diff != nil {
		t.Fatalf("Unexpected replayed subscriptions: %v", diff)
	}
}

func TestInboundCommandExecution(t *testing.T) {
	mgr := newFakeManager()
	c := newTestConnector(t, mgr)

	c.Subscribe("testCommand", echoHandler)
	stream := awaitStream(t, mgr, time.Second)
	awaitMessage(t, stream, time.Second)
	awaitMessage(t, stream, time.Second)

	stream.inbound <- &pb.CommandProviderInbound{
		Message: &pb.CommandProviderInbound_Command{
			Command: &pb.Command{
				MessageIdentifier: "req-1",
				Name:              "testCommand",
				Payload:           &pb.SerializedObject{Type: "string", Data: []byte(`"Hello, World"`)},
			},
		},
	}

	resp := awaitMessage(t, stream, 2*time.Second)
	cr := resp.GetCommandResponse()
	if cr == nil {
		t.Fatalf("Expecting a command response, got %v", resp)
	}
	if cr.GetRequestIdentifier() != "req-1" {
		t.Fatalf("Unexpected request identifier: %s", cr.GetRequestIdentifier())
	}
	if cr.GetErrorCode() != "" {
		t.Fatalf("Unexpected error code: %s", cr.GetErrorCode())
	}
	if string(cr.GetPayload().GetData()) != `"Hello, World"` {
		t.Fatalf("Unexpected payload: %s", cr.GetPayload().GetData())
	}
}

func TestInboundErrorCodeMapping(t *testing.T) {
	testCases := []struct {
		name         string
		handler      bus.Handler
		command      string
		expectedCode string
	}{
		{
			name: "concurrency failures map to CONCURRENCY_EXCEPTION",
			handler: func(ctx context.Context, msg *bus.Message) (*bus.Result, error) {
				return nil, &bus.ConcurrencyError{Msg: "version conflict"}
			},
			command:      "concurrentCommand",
			expectedCode: ErrCodeConcurrency,
		},
		{
			name: "execution failures map to COMMAND_EXECUTION_ERROR",
			handler: func(ctx context.Context, msg *bus.Message) (*bus.Result, error) {
				return nil, errors.New("handler failed")
			},
			command:      "failingCommand",
			expectedCode: ErrCodeExecution,
		},
		{
			name: "handler panics map to COMMAND_EXECUTION_ERROR",
			handler: func(ctx context.Context, msg *bus.Message) (*bus.Result, error) {
				panic("boom")
			},
			command:      "panickyCommand",
			expectedCode: ErrCodeExecution,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mgr := newFakeManager()
			c := newTestConnector(t, mgr)

			c.Subscribe(tc.command, tc.handler)
			stream := awaitStream(t, mgr, time.Second)
			awaitMessage(t, stream, time.Second)
			awaitMessage(t, stream, time.Second)

			stream.inbound <- &pb.CommandProviderInbound{
				Message: &pb.CommandProviderInbound_Command{
					Command: &pb.Command{MessageIdentifier: "req-1", Name: tc.command},
				},
			}

			resp := awaitMessage(t, stream, 2*time.Second)
			cr := resp.GetCommandResponse()
			if cr == nil {
				t.Fatalf("Expecting a command response, got %v", resp)
			}
			if cr.GetErrorCode() != tc.expectedCode {
				t.Fatalf("Expecting %s, got %s", tc.expectedCode, cr.GetErrorCode())
			}
		})
	}
}

func TestInboundPriorityOrder(t *testing.T) {
	mgr := newFakeManager()
	// A single worker so ordering is observable.
	cfg := testConfig()
	cfg.CommandThreads = 1
	localBus := bus.NewSimple()

	var mu sync.Mutex
	var processed []string
	localBus.Subscribe("slowCommand", func(ctx context.Context, msg *bus.Message) (*bus.Result, error) {
		time.Sleep(100 * time.Millisecond)
		return &bus.Result{}, nil
	})
	localBus.Subscribe("orderedCommand", func(ctx context.Context, msg *bus.Message) (*bus.Result, error) {
		mu.Lock()
		processed = append(processed, msg.ID)
		mu.Unlock()
		return &bus.Result{}, nil
	})

	c, err := NewConnector(cfg, mgr, localBus)
	if err != nil {
		t.Fatalf("NewConnector failed: %s", err)
	}
	t.Cleanup(c.Disconnect)

	c.sendSubscription("slowCommand")
	stream := awaitStream(t, mgr, time.Second)

	// Occupy the only worker, then enqueue a low-priority command before a
	// high-priority one.
	stream.inbound <- &pb.CommandProviderInbound{
		Message: &pb.CommandProviderInbound_Command{
			Command: &pb.Command{MessageIdentifier: "blocker", Name: "slowCommand"},
		},
	}
	time.Sleep(20 * time.Millisecond)
	stream.inbound <- &pb.CommandProviderInbound{
		Message: &pb.CommandProviderInbound_Command{
			Command: commandWithPriorityAndName("low", "orderedCommand", 1),
		},
	}
	stream.inbound <- &pb.CommandProviderInbound{
		Message: &pb.CommandProviderInbound_Command{
			Command: commandWithPriorityAndName("high", "orderedCommand", 10),
		},
	}

	deadline := time.After(3 * time.Second)
	for {
		mu.Lock()
		n := len(processed)
		mu.Unlock()
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Commands not processed, got %v", processed)
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := deep.Equal([]string{"high", "low"}, processed); diff != nil {
		t.Fatalf("Unexpected processing order: %v", diff)
	}
}

func commandWithPriorityAndName(id, name string, priority int64) *pb.Command {
	return &pb.Command{
		MessageIdentifier: id,
		Name:              name,
		ProcessingInstructions: []*pb.ProcessingInstruction{
			{Key: pb.ProcessingKey_PRIORITY, Value: priority},
		},
	}
}

func TestDisconnectClosesStreamAndStopsWorkers(t *testing.T) {
	mgr := newFakeManager()
	c := newTestConnector(t, mgr)

	c.Subscribe("testCommand", echoHandler)
	stream := awaitStream(t, mgr, time.Second)

	done := make(chan struct{})
	go func() {
		c.Disconnect()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Disconnect did not return")
	}

	select {
	case <-stream.closed:
	case <-time.After(time.Second):
		t.Fatal("Disconnect did not complete the stream")
	}
}

func TestStreamCreationFailureIsTolerated(t *testing.T) {
	mgr := newFakeManager()
	mgr.openErr = errors.New("router unreachable")
	c := newTestConnector(t, mgr)

	// Subscribe must not fail hard; the name stays registered.
	c.Subscribe("testCommand", echoHandler)

	mgr.mu.Lock()
	mgr.openErr = nil
	mgr.mu.Unlock()

	mgr.fireReconnect()
	stream := awaitStream(t, mgr, time.Second)
	awaitMessage(t, stream, time.Second) // grant
	sub := awaitMessage(t, stream, time.Second)
	if sub.GetSubscribe() == nil || sub.GetSubscribe().GetCommand() != "testCommand" {
		t.Fatalf("Expecting the deferred subscription to replay, got %v", sub)
	}
}
