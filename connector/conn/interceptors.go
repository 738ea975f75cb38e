package conn

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Metadata keys attached to every call on the channel.
const (
	TokenHeader   = "x-busbridge-token"
	ContextHeader = "x-busbridge-context"
)

func withCallMetadata(ctx context.Context, token, routingContext string) context.Context {
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, TokenHeader, token)
	}
	if routingContext != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, ContextHeader, routingContext)
	}
	return ctx
}

func metadataUnaryInterceptor(token, routingContext string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(withCallMetadata(ctx, token, routingContext), method, req, reply, cc, opts...)
	}
}

func metadataStreamInterceptor(token, routingContext string) grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		return streamer(withCallMetadata(ctx, token, routingContext), desc, cc, method, opts...)
	}
}
