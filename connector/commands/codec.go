package commands

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/busbridge/busbridge/bus"
	pb "github.com/busbridge/busbridge/gen/command"
)

// codec translates between local command messages and their wire shape.
// All methods are pure; failures surface as values, never panics.
type codec struct {
	clientID      string
	componentName string
}

func (c codec) encodeCommand(msg *bus.Message, routingKey string, priority int64) *pb.Command {
	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &pb.Command{
		MessageIdentifier: id,
		Name:              msg.Name,
		RoutingKey:        routingKey,
		Payload: &pb.SerializedObject{
			Type: msg.PayloadType,
			Data: msg.Payload,
		},
		Metadata: msg.Metadata,
		ProcessingInstructions: []*pb.ProcessingInstruction{
			{Key: pb.ProcessingKey_PRIORITY, Value: priority},
		},
		ClientId:      c.clientID,
		ComponentName: c.componentName,
	}
}

func (c codec) decodeCommand(cmd *pb.Command) (*bus.Message, error) {
	if cmd.GetName() == "" {
		return nil, errors.New("command without a name")
	}
	msg := &bus.Message{
		ID:       cmd.GetMessageIdentifier(),
		Name:     cmd.GetName(),
		Metadata: cmd.GetMetadata(),
	}
	if p := cmd.GetPayload(); p != nil {
		msg.PayloadType = p.GetType()
		msg.Payload = p.GetData()
	}
	return msg, nil
}

// commandPriority extracts the priority processing instruction. Commands
// without one sort at priority zero.
func commandPriority(cmd *pb.Command) int64 {
	for _, pi := range cmd.GetProcessingInstructions() {
		if pi.GetKey() == pb.ProcessingKey_PRIORITY {
			return pi.GetValue()
		}
	}
	return 0
}

func (c codec) encodeResult(res bus.Result, requestID string) *pb.CommandResponse {
	out := &pb.CommandResponse{
		MessageIdentifier: uuid.NewString(),
		RequestIdentifier: requestID,
	}
	if res.IsError() {
		var remote *RemoteError
		if errors.As(res.Err, &remote) {
			out.ErrorCode = remote.Code
			out.ErrorMessage = &pb.ErrorMessage{
				Message:  remote.Message,
				Location: remote.Location,
				Details:  remote.Details,
			}
		} else {
			out.ErrorCode = classifyExecution(res.Err)
			out.ErrorMessage = &pb.ErrorMessage{
				Message:  res.Err.Error(),
				Location: c.clientID,
			}
		}
		return out
	}
	out.Payload = &pb.SerializedObject{
		Type: res.PayloadType,
		Data: res.Payload,
	}
	return out
}

// decodeResult never fails: a malformed response decodes to an exceptional
// result carrying a dispatch error.
func (c codec) decodeResult(resp *pb.CommandResponse) bus.Result {
	if resp == nil {
		return bus.Result{Err: &RemoteError{
			Code:    ErrCodeDispatch,
			Message: "no result from command executor",
		}}
	}
	res := bus.Result{RequestID: resp.GetRequestIdentifier()}
	if code := resp.GetErrorCode(); code != "" {
		remote := &RemoteError{Code: code}
		if em := resp.GetErrorMessage(); em != nil {
			remote.Message = em.GetMessage()
			remote.Location = em.GetLocation()
			remote.Details = em.GetDetails()
		}
		res.Err = remote
		return res
	}
	if p := resp.GetPayload(); p != nil {
		res.PayloadType = p.GetType()
		res.Payload = p.GetData()
	}
	return res
}

// dispatchError wraps err into an exceptional result carrying the
// dispatch-error wire code.
func dispatchError(err error) bus.Result {
	return bus.Result{Err: &RemoteError{
		Code:    ErrCodeDispatch,
		Message: err.Error(),
	}}
}
