package commands

import (
	"sync"

	pb "github.com/busbridge/busbridge/gen/command"
)

// outboundStream is the send half of the command stream. The generated
// client stream satisfies it.
type outboundStream interface {
	Send(*pb.CommandProviderOutbound) error
	CloseSend() error
}

// flowControlledStream serializes writes to the wire stream and replenishes
// the router's credit: an initial grant at creation, then a fresh grant of
// newPermits after every threshold command responses sent.
type flowControlledStream struct {
	clientID   string
	newPermits int64
	threshold  int64

	mu     sync.Mutex
	stream outboundStream
	sent   int64
}

func newFlowControlledStream(stream outboundStream, clientID string, initialPermits, newPermits, threshold int64) (*flowControlledStream, error) {
	f := &flowControlledStream{
		clientID:   clientID,
		newPermits: newPermits,
		threshold:  threshold,
		stream:     stream,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendGrantLocked(initialPermits); err != nil {
		return nil, err
	}
	return f, nil
}

// Send hands msg to the transport. Safe for concurrent use; the wire stream
// is never written from two goroutines at once.
func (f *flowControlledStream) Send(msg *pb.CommandProviderOutbound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.stream.Send(msg); err != nil {
		return err
	}
	if msg.GetCommandResponse() == nil {
		return nil
	}
	f.sent++
	if f.sent >= f.threshold {
		f.sent = 0
		return f.sendGrantLocked(f.newPermits)
	}
	return nil
}

func (f *flowControlledStream) CloseSend() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stream.CloseSend()
}

func (f *flowControlledStream) sendGrantLocked(permits int64) error {
	err := f.stream.Send(&pb.CommandProviderOutbound{
		Request: &pb.CommandProviderOutbound_FlowControl{
			FlowControl: &pb.FlowControl{ClientId: f.clientID, Permits: permits},
		},
	})
	if err == nil {
		permitsGranted.Add(float64(permits))
	}
	return err
}
