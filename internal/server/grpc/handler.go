package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/mindbalance/internal/proto"
	"github.com/dmitrijs2005/mindbalance/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) caller(ctx context.Context) (string, error) {
	uid, ok := userIDFrom(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return uid, nil
}

func toPbEntry(e models.MoodEntry) pb.Entry {
	return pb.Entry{
		ID:        e.ID,
		ClientID:  e.ClientID,
		Mood:      e.Mood,
		Note:      e.Note,
		Stress:    e.Stress,
		PhotoURL:  e.PhotoURL,
		HasPhoto:  e.HasPhoto,
		CreatedAt: e.CreatedAt,
	}
}

func toPbEntries(list []models.MoodEntry) []pb.Entry {
	out := make([]pb.Entry, 0, len(list))
	for _, e := range list {
		out = append(out, toPbEntry(e))
	}
	return out
}

func (s *GRPCServer) Ping(ctx context.Context, _ *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *pb.RegisterUserRequest) (*pb.RegisterUserResponse, error) {
	u, err := s.users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}
	return &pb.RegisterUserResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *pb.GetSaltRequest) (*pb.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, "get salt", err)
	}
	return &pb.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	pair, err := s.users.Login(ctx, req.Username, req.VerifierCandidate)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	s.logger.Info(ctx, "user signed in", "user_id", pair.UserID)
	return &pb.LoginResponse{UserID: pair.UserID, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return &pb.RefreshTokenResponse{UserID: pair.UserID, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *pb.GetProfileRequest) (*pb.GetProfileResponse, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Profile(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, "get profile", err)
	}
	return &pb.GetProfileResponse{Profile: pb.Profile{UserID: u.ID, Email: u.UserName, CreatedAt: u.CreatedAt, LastLogin: u.LastLogin}}, nil
}

func (s *GRPCServer) CreateEntry(ctx context.Context, req *pb.CreateEntryRequest) (*pb.CreateEntryResponse, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.moods.Create(ctx, uid, models.MoodEntry{
		ClientID: req.ClientID,
		Mood:     req.Mood,
		Note:     req.Note,
		Stress:   req.Stress,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "create entry", err)
	}
	return &pb.CreateEntryResponse{Entry: toPbEntry(*e)}, nil
}

func (s *GRPCServer) UpdateEntry(ctx context.Context, req *pb.UpdateEntryRequest) (*pb.UpdateEntryResponse, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.moods.Update(ctx, uid, req.ID, models.MoodPatch{
		Mood:       req.Mood,
		Note:       req.Note,
		Stress:     req.Stress,
		PhotoURL:   req.PhotoURL,
		ClearPhoto: req.ClearPhoto,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "update entry", err)
	}
	return &pb.UpdateEntryResponse{Entry: toPbEntry(*e)}, nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *pb.DeleteEntryRequest) (*pb.DeleteEntryResponse, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.moods.Delete(ctx, uid, req.ID); err != nil {
		return nil, s.toStatus(ctx, "delete entry", err)
	}
	return &pb.DeleteEntryResponse{}, nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, req *pb.ListEntriesRequest) (*pb.ListEntriesResponse, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.moods.List(ctx, uid, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, "list entries", err)
	}
	return &pb.ListEntriesResponse{Entries: toPbEntries(list)}, nil
}

func (s *GRPCServer) CountEntries(ctx context.Context, _ *pb.CountEntriesRequest) (*pb.CountEntriesResponse, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.moods.Count(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, "count entries", err)
	}
	return &pb.CountEntriesResponse{Count: n}, nil
}

func (s *GRPCServer) GetUploadURL(ctx context.Context, req *pb.GetUploadURLRequest) (*pb.GetUploadURLResponse, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.assets.UploadURL(ctx, uid, req.UploadPreset, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, "upload url", err)
	}
	return &pb.GetUploadURLResponse{UploadURL: t.UploadURL, PublicURL: t.PublicURL}, nil
}

// WatchEntries sends the full ordered list now and again after every change
// until the client goes away.
func (s *GRPCServer) WatchEntries(req *pb.WatchEntriesRequest, stream pb.MoodSyncService_WatchEntriesServer) error {
	ctx := stream.Context()
	uid, err := s.caller(ctx)
	if err != nil {
		return err
	}

	// Subscribe before the first read so a change between read and wait is
	// not lost.
	changed, cancel := s.hub.Subscribe(uid)
	defer cancel()

	s.logger.Debug(ctx, "watch started", "user_id", uid)
	defer s.logger.Debug(ctx, "watch finished", "user_id", uid)

	for {
		list, err := s.moods.List(ctx, uid, req.Limit)
		if err != nil {
			return s.toStatus(ctx, "watch entries", err)
		}
		if err := stream.Send(&pb.Snapshot{Entries: toPbEntries(list)}); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		}
	}
}
