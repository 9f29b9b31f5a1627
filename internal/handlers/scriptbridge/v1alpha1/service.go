package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "gameplay.v1alpha1.ScriptBridge"

const (
	submitCommandMethod  = "/" + ServiceName + "/SubmitCommand"
	getEntityStateMethod = "/" + ServiceName + "/GetEntityState"
)

// ScriptBridgeServer is the server API for the script bridge. Payloads are
// google.protobuf.Struct documents so remote scripts send the same dynamic
// values an embedded script would.
type ScriptBridgeServer interface {
	SubmitCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetEntityState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ScriptBridgeServiceDesc describes the service for registration
var ScriptBridgeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScriptBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitCommand", Handler: submitCommandHandler},
		{MethodName: "GetEntityState", Handler: getEntityStateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gameplay/v1alpha1/script_bridge.proto",
}

// RegisterScriptBridgeServer registers srv on s
func RegisterScriptBridgeServer(s grpc.ServiceRegistrar, srv ScriptBridgeServer) {
	s.RegisterService(&ScriptBridgeServiceDesc, srv)
}

func submitCommandHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptBridgeServer).SubmitCommand(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitCommandMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptBridgeServer).SubmitCommand(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getEntityStateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScriptBridgeServer).GetEntityState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getEntityStateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScriptBridgeServer).GetEntityState(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ScriptBridgeClient is the client API for the script bridge
type ScriptBridgeClient interface {
	SubmitCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetEntityState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type scriptBridgeClient struct {
	cc grpc.ClientConnInterface
}

// NewScriptBridgeClient creates a client over cc
func NewScriptBridgeClient(cc grpc.ClientConnInterface) ScriptBridgeClient {
	return &scriptBridgeClient{cc: cc}
}

func (c *scriptBridgeClient) SubmitCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, submitCommandMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scriptBridgeClient) GetEntityState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getEntityStateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
