package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/netx"
	pb "github.com/dmitrijs2005/mindbalance/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.MoodSyncServiceClient
	http        netx.HTTPDoer

	mu           sync.RWMutex
	userID       string
	accessToken  string
	refreshToken string
	onTokens     func(Tokens)

	// refreshMu makes concurrent callers share one refresh round trip.
	refreshMu sync.Mutex
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (s *GRPCClient) tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Tokens{UserID: s.userID, AccessToken: s.accessToken, RefreshToken: s.refreshToken}
}

func (s *GRPCClient) setTokens(t Tokens) {
	s.mu.Lock()
	s.userID = t.UserID
	s.accessToken = t.AccessToken
	s.refreshToken = t.RefreshToken
	fn := s.onTokens
	s.mu.Unlock()

	if fn != nil {
		fn(t)
	}
}

// OnTokens registers fn to be called with every new token pair, including
// the ones obtained by a transparent refresh.
func (s *GRPCClient) OnTokens(fn func(Tokens)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokens = fn
}

// refreshAfter rotates the token pair unless another caller already
// replaced the access token that just failed.
func (s *GRPCClient) refreshAfter(ctx context.Context, failed string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	cur := s.tokens()
	if cur.AccessToken != failed {
		return nil
	}
	if cur.RefreshToken == "" {
		return ErrUnauthorized
	}

	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: cur.RefreshToken})
	if err != nil {
		return err
	}

	s.setTokens(Tokens{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return nil
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token := s.tokens().AccessToken
	err := invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)

	if err == nil || method == pb.FullMethod(pb.MethodRefreshToken) || !isTokenExpired(err) {
		return err
	}

	if rerr := s.refreshAfter(ctx, token); rerr != nil {
		return err
	}

	// tokens refreshed, retrying once with the new access token
	return invoker(withAccessToken(ctx, s.tokens().AccessToken), method, req, reply, cc, opts...)
}

func (s *GRPCClient) streamAccessTokenInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	return streamer(withAccessToken(ctx, s.tokens().AccessToken), desc, cc, method, opts...)
}

func NewMoodSyncClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithStreamInterceptor(s.streamAccessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewMoodSyncServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Register(ctx context.Context, userName string, salt []byte, verifier []byte) (string, error) {

	req := &pb.RegisterUserRequest{Username: userName, Salt: salt, Verifier: verifier}

	resp, err := s.client.RegisterUser(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	return resp.UserID, nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, userName string) ([]byte, error) {

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	resp, err := s.client.GetSalt(ctx, &pb.GetSaltRequest{Username: userName})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, verifier []byte) (*Tokens, error) {

	resp, err := s.client.Login(ctx, &pb.LoginRequest{Username: userName, VerifierCandidate: verifier})
	if err != nil {
		return nil, s.mapError(err)
	}

	t := Tokens{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	s.setTokens(t)
	return &t, nil
}

// Refresh exchanges a stored refresh token for a new pair, resuming a
// persisted session.
func (s *GRPCClient) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, s.mapError(err)
	}

	t := Tokens{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	s.setTokens(t)
	return &t, nil
}

// Logout forgets the in-memory tokens.
func (s *GRPCClient) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID, s.accessToken, s.refreshToken = "", "", ""
}

func (s *GRPCClient) Profile(ctx context.Context) (*Profile, error) {
	resp, err := s.client.GetProfile(ctx, &pb.GetProfileRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	p := resp.Profile
	return &Profile{UserID: p.UserID, Email: p.Email, CreatedAt: p.CreatedAt, LastLogin: p.LastLogin}, nil
}

func fromPbEntry(e pb.Entry) models.MoodEntry {
	out := models.MoodEntry{
		ID:        e.ID,
		ClientID:  e.ClientID,
		Mood:      e.Mood,
		Note:      e.Note,
		Stress:    e.Stress,
		CreatedAt: e.CreatedAt,
		Synced:    true,
	}
	if e.PhotoURL != nil {
		out.PhotoURL = *e.PhotoURL
	}
	return out
}

func fromPbEntries(list []pb.Entry) []models.MoodEntry {
	out := make([]models.MoodEntry, 0, len(list))
	for _, e := range list {
		out = append(out, fromPbEntry(e))
	}
	return out
}

// CreateEntry sends e to the server. A temporary id travels as the
// client id, so sending the same entry twice creates one document.
func (s *GRPCClient) CreateEntry(ctx context.Context, e models.MoodEntry) (*models.MoodEntry, error) {
	req := &pb.CreateEntryRequest{Mood: e.Mood, Note: e.Note, Stress: e.Stress}
	if e.IsTemp() {
		req.ClientID = e.ID
	} else {
		req.ClientID = e.ClientID
	}
	if e.PhotoURL != "" {
		url := e.PhotoURL
		req.PhotoURL = &url
	}

	resp, err := s.client.CreateEntry(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	out := fromPbEntry(resp.Entry)
	return &out, nil
}

func (s *GRPCClient) UpdateEntry(ctx context.Context, id string, p EntryPatch) (*models.MoodEntry, error) {
	req := &pb.UpdateEntryRequest{
		ID:         id,
		Mood:       p.Mood,
		Note:       p.Note,
		Stress:     p.Stress,
		PhotoURL:   p.PhotoURL,
		ClearPhoto: p.ClearPhoto,
	}

	resp, err := s.client.UpdateEntry(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	out := fromPbEntry(resp.Entry)
	return &out, nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.client.DeleteEntry(ctx, &pb.DeleteEntryRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ListEntries(ctx context.Context, limit int) ([]models.MoodEntry, error) {
	resp, err := s.client.ListEntries(ctx, &pb.ListEntriesRequest{Limit: limit})
	if err != nil {
		return nil, s.mapError(err)
	}
	return fromPbEntries(resp.Entries), nil
}

func (s *GRPCClient) CountEntries(ctx context.Context) (int64, error) {
	resp, err := s.client.CountEntries(ctx, &pb.CountEntriesRequest{})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Count, nil
}

type watcher struct {
	c       *GRPCClient
	ctx     context.Context
	stream  pb.MoodSyncService_WatchEntriesClient
	token   string
	retried bool
}

func (w *watcher) Recv() ([]models.MoodEntry, error) {
	snap, err := w.stream.Recv()
	if err != nil && !w.retried && isTokenExpired(err) {
		// the stream was rejected before any data; refresh and reopen once
		w.retried = true
		if rerr := w.c.refreshAfter(w.ctx, w.token); rerr != nil {
			return nil, w.c.mapError(err)
		}
		if err := w.open(); err != nil {
			return nil, err
		}
		snap, err = w.stream.Recv()
	}
	if err != nil {
		return nil, w.c.mapError(err)
	}
	w.retried = true
	return fromPbEntries(snap.Entries), nil
}

func (w *watcher) open() error {
	w.token = w.c.tokens().AccessToken
	stream, err := w.c.client.WatchEntries(w.ctx, &pb.WatchEntriesRequest{})
	if err != nil {
		return w.c.mapError(err)
	}
	w.stream = stream
	return nil
}

// WatchEntries subscribes to full snapshots of the signed-in user's
// entries. The stream ends when ctx is done.
func (s *GRPCClient) WatchEntries(ctx context.Context) (Watcher, error) {
	w := &watcher{c: s, ctx: ctx}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// UploadPhoto stores photo on the asset host and returns the URL it can be
// read from.
func (s *GRPCClient) UploadPhoto(ctx context.Context, photo []byte) (string, error) {
	ct := netx.DetectContentType(photo)

	resp, err := s.client.GetUploadURL(ctx, &pb.GetUploadURLRequest{UploadPreset: common.UploadPreset, ContentType: ct})
	if err != nil {
		return "", s.mapError(err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, resp.UploadURL, photo, ct); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return resp.PublicURL, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.InvalidArgument:
		return common.ErrorIncorrectMetadata
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("%w: %s", ErrRemote, st.Message())
	}
}
