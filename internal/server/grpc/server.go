// Package grpc exposes the MoodSyncService over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/mindbalance/internal/logging"
	pb "github.com/dmitrijs2005/mindbalance/internal/proto"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"github.com/dmitrijs2005/mindbalance/internal/server/services"
	"google.golang.org/grpc"
)

type userService interface {
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, candidate []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type moodService interface {
	Create(ctx context.Context, userID string, e models.MoodEntry) (*models.MoodEntry, error)
	Update(ctx context.Context, userID, id string, p models.MoodPatch) (*models.MoodEntry, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type assetService interface {
	UploadURL(ctx context.Context, userID, preset, contentType string) (*services.UploadTarget, error)
}

// subscriber is the realtime hub as seen by WatchEntries.
type subscriber interface {
	Subscribe(userID string) (<-chan struct{}, func())
}

type GRPCServer struct {
	pb.UnimplementedMoodSyncServiceServer
	address   string
	users     userService
	moods     moodService
	assets    assetService
	hub       subscriber
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(addr string, l logging.Logger, us userService, ms moodService, as assetService, hub subscriber, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   addr,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		moods:     ms,
		assets:    as,
		hub:       hub,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds the grpc.Server with auth interceptors and the service
// registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)
	srv := grpc.NewServer(opts...)
	pb.RegisterMoodSyncServiceServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping gRPC server")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "starting gRPC server", "address", lis.Addr().String())
	return srv.Serve(lis)
}
