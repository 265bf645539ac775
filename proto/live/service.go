// Package live declares the gRPC LiveService.
//
// The service only moves protobuf well-known types (Empty in, Struct out),
// so the descriptor is declared by hand instead of generated.
package live

import (
	"chat-live/domain/event"
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName              = "chatlive.v1.LiveService"
	Subscribe_FullMethodName = "/" + ServiceName + "/Subscribe"
	subscribeStreamName      = "Subscribe"
)

// LiveServiceServer is the server API for LiveService.
type LiveServiceServer interface {
	// Subscribe streams every live event addressed to the authenticated caller.
	Subscribe(req *emptypb.Empty, stream grpc.ServerStream) error
}

var LiveService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LiveServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    subscribeStreamName,
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "chatlive/v1/live.proto",
}

func RegisterLiveServiceServer(s grpc.ServiceRegistrar, srv LiveServiceServer) {
	s.RegisterService(&LiveService_ServiceDesc, srv)
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(LiveServiceServer).Subscribe(m, stream)
}

// EnvelopeStream is the client side of Subscribe.
type EnvelopeStream struct {
	stream grpc.ClientStream
}

// Subscribe opens the server stream on conn.
func Subscribe(ctx context.Context, conn grpc.ClientConnInterface, opts ...grpc.CallOption) (*EnvelopeStream, error) {
	stream, err := conn.NewStream(ctx, &LiveService_ServiceDesc.Streams[0], Subscribe_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EnvelopeStream{stream: stream}, nil
}

// Recv blocks for the next envelope. The payload is decoded as generic JSON.
func (s *EnvelopeStream) Recv() (event.Envelope, error) {
	msg := new(structpb.Struct)
	if err := s.stream.RecvMsg(msg); err != nil {
		return event.Envelope{}, err
	}
	return FromStruct(msg)
}

// ToStruct encodes an event as its wire envelope.
func ToStruct(e event.Event) (*structpb.Struct, error) {
	env, err := event.ToEnvelope(e)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	msg := new(structpb.Struct)
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("envelope to struct: %w", err)
	}
	return msg, nil
}

func FromStruct(msg *structpb.Struct) (event.Envelope, error) {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return event.Envelope{}, err
	}
	var env event.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return event.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
