package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "radioroom.trigger.v1.TriggerService"

	MethodEvaluateReaction = "EvaluateReaction"
	MethodEvaluateMessage  = "EvaluateMessage"
	MethodGetRuleSet       = "GetRuleSet"
	MethodSetRuleSet       = "SetRuleSet"
	MethodPruneHistory     = "PruneHistory"
	MethodListFirings      = "ListFirings"
)

// TriggerServiceServer is the server API for the trigger service. Requests
// and responses are JSON objects carried as google.protobuf.Struct.
type TriggerServiceServer interface {
	EvaluateReaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EvaluateMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRuleSet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRuleSet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PruneHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListFirings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FullMethod returns the gRPC path of a method, e.g.
// "/radioroom.trigger.v1.TriggerService/GetRuleSet".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryCall func(TriggerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TriggerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TriggerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TriggerServiceDesc describes the trigger service for grpc.Server.
var TriggerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TriggerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodEvaluateReaction,
			Handler:    unaryHandler(MethodEvaluateReaction, TriggerServiceServer.EvaluateReaction),
		},
		{
			MethodName: MethodEvaluateMessage,
			Handler:    unaryHandler(MethodEvaluateMessage, TriggerServiceServer.EvaluateMessage),
		},
		{
			MethodName: MethodGetRuleSet,
			Handler:    unaryHandler(MethodGetRuleSet, TriggerServiceServer.GetRuleSet),
		},
		{
			MethodName: MethodSetRuleSet,
			Handler:    unaryHandler(MethodSetRuleSet, TriggerServiceServer.SetRuleSet),
		},
		{
			MethodName: MethodPruneHistory,
			Handler:    unaryHandler(MethodPruneHistory, TriggerServiceServer.PruneHistory),
		},
		{
			MethodName: MethodListFirings,
			Handler:    unaryHandler(MethodListFirings, TriggerServiceServer.ListFirings),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "radioroom/trigger/v1/trigger.proto",
}

// RegisterTriggerServiceServer registers srv with the gRPC server.
func RegisterTriggerServiceServer(s grpc.ServiceRegistrar, srv TriggerServiceServer) {
	s.RegisterService(&TriggerServiceDesc, srv)
}
