package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// LedgerServiceName is the fully qualified gRPC service name
const LedgerServiceName = "ledger.v1.LedgerService"

// LedgerServiceServer is the server API for the ledger service.
// Requests and responses are google.protobuf.Struct messages.
type LedgerServiceServer interface {
	OpenAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAccounts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Transfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransferMin(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransferWithConversion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Summary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTransactionInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a LedgerServiceServer method to a grpc.MethodHandler
func unaryHandler(method string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + LedgerServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{MethodName: name, Handler: unaryHandler(name, call)}
}

// LedgerServiceDesc describes the ledger service for grpc.Server.RegisterService
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: LedgerServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("OpenAccount", LedgerServiceServer.OpenAccount),
		methodDesc("GetAccount", LedgerServiceServer.GetAccount),
		methodDesc("ListAccounts", LedgerServiceServer.ListAccounts),
		methodDesc("Deposit", LedgerServiceServer.Deposit),
		methodDesc("Withdraw", LedgerServiceServer.Withdraw),
		methodDesc("Transfer", LedgerServiceServer.Transfer),
		methodDesc("TransferMin", LedgerServiceServer.TransferMin),
		methodDesc("TransferWithConversion", LedgerServiceServer.TransferWithConversion),
		methodDesc("History", LedgerServiceServer.History),
		methodDesc("Summary", LedgerServiceServer.Summary),
		methodDesc("GetTransactionInfo", LedgerServiceServer.GetTransactionInfo),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/ledger.proto",
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}
