package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName        = "geode.v1.GeodeSolverService"
	evaluateMethodName = "Evaluate"
	scoreMethodName    = "Score"
	evaluateFullMethod = "/" + serviceName + "/" + evaluateMethodName
	scoreFullMethod    = "/" + serviceName + "/" + scoreMethodName
)

// GeodeSolverServer is the server API for the geode solver service.
// Requests and responses are google.protobuf.Struct messages.
type GeodeSolverServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Score(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedGeodeSolverServer can be embedded to satisfy GeodeSolverServer
type UnimplementedGeodeSolverServer struct{}

func (UnimplementedGeodeSolverServer) Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Evaluate not implemented")
}

func (UnimplementedGeodeSolverServer) Score(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Score not implemented")
}

// RegisterGeodeSolverServer registers srv on s
func RegisterGeodeSolverServer(s grpc.ServiceRegistrar, srv GeodeSolverServer) {
	s.RegisterService(&geodeSolverServiceDesc, srv)
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GeodeSolverServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GeodeSolverServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func scoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GeodeSolverServer).Score(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: scoreFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GeodeSolverServer).Score(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var geodeSolverServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*GeodeSolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: evaluateMethodName, Handler: evaluateHandler},
		{MethodName: scoreMethodName, Handler: scoreHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geode/v1/solver.proto",
}

// geodeSolverClient calls the service over a client connection
type geodeSolverClient struct {
	cc grpc.ClientConnInterface
}

func newGeodeSolverClient(cc grpc.ClientConnInterface) *geodeSolverClient {
	return &geodeSolverClient{cc: cc}
}

func (c *geodeSolverClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, evaluateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *geodeSolverClient) Score(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, scoreFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
