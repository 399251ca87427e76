package proto

import (
	"context"

	"google.golang.org/grpc"
)

// MoodSyncServiceClient is the typed client for MoodSyncService.
type MoodSyncServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error)
	CreateEntry(ctx context.Context, in *CreateEntryRequest, opts ...grpc.CallOption) (*CreateEntryResponse, error)
	UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*UpdateEntryResponse, error)
	DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error)
	ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error)
	CountEntries(ctx context.Context, in *CountEntriesRequest, opts ...grpc.CallOption) (*CountEntriesResponse, error)
	GetUploadURL(ctx context.Context, in *GetUploadURLRequest, opts ...grpc.CallOption) (*GetUploadURLResponse, error)
	WatchEntries(ctx context.Context, in *WatchEntriesRequest, opts ...grpc.CallOption) (MoodSyncService_WatchEntriesClient, error)
}

// MoodSyncService_WatchEntriesClient receives snapshots.
type MoodSyncService_WatchEntriesClient interface {
	Recv() (*Snapshot, error)
	grpc.ClientStream
}

type moodSyncServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMoodSyncServiceClient(cc grpc.ClientConnInterface) MoodSyncServiceClient {
	return &moodSyncServiceClient{cc: cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *moodSyncServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *moodSyncServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, MethodRegisterUser, in, opts)
}

func (c *moodSyncServiceClient) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	return invoke[GetSaltResponse](ctx, c.cc, MethodGetSalt, in, opts)
}

func (c *moodSyncServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *moodSyncServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *moodSyncServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *moodSyncServiceClient) CreateEntry(ctx context.Context, in *CreateEntryRequest, opts ...grpc.CallOption) (*CreateEntryResponse, error) {
	return invoke[CreateEntryResponse](ctx, c.cc, MethodCreateEntry, in, opts)
}

func (c *moodSyncServiceClient) UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*UpdateEntryResponse, error) {
	return invoke[UpdateEntryResponse](ctx, c.cc, MethodUpdateEntry, in, opts)
}

func (c *moodSyncServiceClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error) {
	return invoke[DeleteEntryResponse](ctx, c.cc, MethodDeleteEntry, in, opts)
}

func (c *moodSyncServiceClient) ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesResponse](ctx, c.cc, MethodListEntries, in, opts)
}

func (c *moodSyncServiceClient) CountEntries(ctx context.Context, in *CountEntriesRequest, opts ...grpc.CallOption) (*CountEntriesResponse, error) {
	return invoke[CountEntriesResponse](ctx, c.cc, MethodCountEntries, in, opts)
}

func (c *moodSyncServiceClient) GetUploadURL(ctx context.Context, in *GetUploadURLRequest, opts ...grpc.CallOption) (*GetUploadURLResponse, error) {
	return invoke[GetUploadURLResponse](ctx, c.cc, MethodGetUploadURL, in, opts)
}

func (c *moodSyncServiceClient) WatchEntries(ctx context.Context, in *WatchEntriesRequest, opts ...grpc.CallOption) (MoodSyncService_WatchEntriesClient, error) {
	stream, err := c.cc.NewStream(ctx, &MoodSyncService_ServiceDesc.Streams[0], FullMethod(MethodWatchEntries), withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &watchEntriesClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type watchEntriesClient struct {
	grpc.ClientStream
}

func (x *watchEntriesClient) Recv() (*Snapshot, error) {
	m := new(Snapshot)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
