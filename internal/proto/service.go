package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "mindbalance.v1.MoodSyncService"

const (
	MethodPing         = "Ping"
	MethodRegisterUser = "RegisterUser"
	MethodGetSalt      = "GetSalt"
	MethodLogin        = "Login"
	MethodRefreshToken = "RefreshToken"
	MethodGetProfile   = "GetProfile"
	MethodCreateEntry  = "CreateEntry"
	MethodUpdateEntry  = "UpdateEntry"
	MethodDeleteEntry  = "DeleteEntry"
	MethodListEntries  = "ListEntries"
	MethodCountEntries = "CountEntries"
	MethodGetUploadURL = "GetUploadURL"
	MethodWatchEntries = "WatchEntries"
)

// FullMethod returns the gRPC path of a MoodSyncService method.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// PublicMethods are callable without an access token.
var PublicMethods = map[string]struct{}{
	FullMethod(MethodPing):         {},
	FullMethod(MethodRegisterUser): {},
	FullMethod(MethodGetSalt):      {},
	FullMethod(MethodLogin):        {},
	FullMethod(MethodRefreshToken): {},
}

// MoodSyncServiceServer is implemented by the server.
type MoodSyncServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	CreateEntry(context.Context, *CreateEntryRequest) (*CreateEntryResponse, error)
	UpdateEntry(context.Context, *UpdateEntryRequest) (*UpdateEntryResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error)
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	CountEntries(context.Context, *CountEntriesRequest) (*CountEntriesResponse, error)
	GetUploadURL(context.Context, *GetUploadURLRequest) (*GetUploadURLResponse, error)
	WatchEntries(*WatchEntriesRequest, MoodSyncService_WatchEntriesServer) error
}

// MoodSyncService_WatchEntriesServer is the server side of WatchEntries.
type MoodSyncService_WatchEntriesServer interface {
	Send(*Snapshot) error
	grpc.ServerStream
}

// UnimplementedMoodSyncServiceServer can be embedded to satisfy the
// interface; every method returns codes.Unimplemented.
type UnimplementedMoodSyncServiceServer struct{}

func unimplemented(m string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", m)
}

func (UnimplementedMoodSyncServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented(MethodPing)
}
func (UnimplementedMoodSyncServiceServer) RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error) {
	return nil, unimplemented(MethodRegisterUser)
}
func (UnimplementedMoodSyncServiceServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, unimplemented(MethodGetSalt)
}
func (UnimplementedMoodSyncServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedMoodSyncServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented(MethodRefreshToken)
}
func (UnimplementedMoodSyncServiceServer) GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error) {
	return nil, unimplemented(MethodGetProfile)
}
func (UnimplementedMoodSyncServiceServer) CreateEntry(context.Context, *CreateEntryRequest) (*CreateEntryResponse, error) {
	return nil, unimplemented(MethodCreateEntry)
}
func (UnimplementedMoodSyncServiceServer) UpdateEntry(context.Context, *UpdateEntryRequest) (*UpdateEntryResponse, error) {
	return nil, unimplemented(MethodUpdateEntry)
}
func (UnimplementedMoodSyncServiceServer) DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error) {
	return nil, unimplemented(MethodDeleteEntry)
}
func (UnimplementedMoodSyncServiceServer) ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error) {
	return nil, unimplemented(MethodListEntries)
}
func (UnimplementedMoodSyncServiceServer) CountEntries(context.Context, *CountEntriesRequest) (*CountEntriesResponse, error) {
	return nil, unimplemented(MethodCountEntries)
}
func (UnimplementedMoodSyncServiceServer) GetUploadURL(context.Context, *GetUploadURLRequest) (*GetUploadURLResponse, error) {
	return nil, unimplemented(MethodGetUploadURL)
}
func (UnimplementedMoodSyncServiceServer) WatchEntries(*WatchEntriesRequest, MoodSyncService_WatchEntriesServer) error {
	return unimplemented(MethodWatchEntries)
}

// RegisterMoodSyncServiceServer registers srv on s.
func RegisterMoodSyncServiceServer(s grpc.ServiceRegistrar, srv MoodSyncServiceServer) {
	s.RegisterService(&MoodSyncService_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](method string, call func(MoodSyncServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(MoodSyncServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		})
	}
}

func watchEntriesHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchEntriesRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MoodSyncServiceServer).WatchEntries(in, &watchEntriesServer{stream})
}

type watchEntriesServer struct {
	grpc.ServerStream
}

func (x *watchEntriesServer) Send(m *Snapshot) error {
	return x.ServerStream.SendMsg(m)
}

// MoodSyncService_ServiceDesc describes MoodSyncService for grpc.Server.
var MoodSyncService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MoodSyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodPing, Handler: unaryHandler(MethodPing, MoodSyncServiceServer.Ping)},
		{MethodName: MethodRegisterUser, Handler: unaryHandler(MethodRegisterUser, MoodSyncServiceServer.RegisterUser)},
		{MethodName: MethodGetSalt, Handler: unaryHandler(MethodGetSalt, MoodSyncServiceServer.GetSalt)},
		{MethodName: MethodLogin, Handler: unaryHandler(MethodLogin, MoodSyncServiceServer.Login)},
		{MethodName: MethodRefreshToken, Handler: unaryHandler(MethodRefreshToken, MoodSyncServiceServer.RefreshToken)},
		{MethodName: MethodGetProfile, Handler: unaryHandler(MethodGetProfile, MoodSyncServiceServer.GetProfile)},
		{MethodName: MethodCreateEntry, Handler: unaryHandler(MethodCreateEntry, MoodSyncServiceServer.CreateEntry)},
		{MethodName: MethodUpdateEntry, Handler: unaryHandler(MethodUpdateEntry, MoodSyncServiceServer.UpdateEntry)},
		{MethodName: MethodDeleteEntry, Handler: unaryHandler(MethodDeleteEntry, MoodSyncServiceServer.DeleteEntry)},
		{MethodName: MethodListEntries, Handler: unaryHandler(MethodListEntries, MoodSyncServiceServer.ListEntries)},
		{MethodName: MethodCountEntries, Handler: unaryHandler(MethodCountEntries, MoodSyncServiceServer.CountEntries)},
		{MethodName: MethodGetUploadURL, Handler: unaryHandler(MethodGetUploadURL, MoodSyncServiceServer.GetUploadURL)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: MethodWatchEntries, Handler: watchEntriesHandler, ServerStreams: true},
	},
}
