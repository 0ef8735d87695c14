package orderrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName       = "storefront.order.v1.Order"
	CreateOrderMethod = "/" + ServiceName + "/CreateOrder"
	GetOrderMethod    = "/" + ServiceName + "/GetOrder"
	CancelOrderMethod = "/" + ServiceName + "/CancelOrder"
)

// OrderServer is implemented by the order service.
type OrderServer interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderInfo, error)
	GetOrder(ctx context.Context, req *OrderRequest) (*OrderInfo, error)
	CancelOrder(ctx context.Context, req *OrderRequest) (*OrderInfo, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateOrder", Handler: unary(CreateOrderMethod, OrderServer.CreateOrder)},
		{MethodName: "GetOrder", Handler: unary(GetOrderMethod, OrderServer.GetOrder)},
		{MethodName: "CancelOrder", Handler: unary(CancelOrderMethod, OrderServer.CancelOrder)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/order/v1/order.proto",
}

func RegisterOrderServer(s grpc.ServiceRegistrar, srv OrderServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(OrderServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, raw any) (any, error) {
			req := new(Req)
			if err := Unmarshal(raw.(*structpb.Struct), req); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "%v", err)
			}
			resp, err := call(srv.(OrderServer), ctx, req)
			if err != nil {
				return nil, err
			}
			out, err := Marshal(resp)
			if err != nil {
				return nil, status.Errorf(codes.Internal, "%v", err)
			}
			return out, nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, handler)
	}
}
