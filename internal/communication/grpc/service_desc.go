package grpccomm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The message service has a single unary method. Messages travel as
// JSON inside a BytesValue, so no generated stubs are needed.
const (
	messageServiceName = "sandfat.communication.MessageService"
	sendMessageMethod  = "/" + messageServiceName + "/SendMessage"
)

type messageServiceServer interface {
	SendMessage(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

func sendMessageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(messageServiceServer).SendMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: sendMessageMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(messageServiceServer).SendMessage(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

var messageServiceDesc = grpc.ServiceDesc{
	ServiceName: messageServiceName,
	HandlerType: (*messageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SendMessage",
			Handler:    sendMessageHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "communication.proto",
}
