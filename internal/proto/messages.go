package proto

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type RegisterUserResponse struct {
	UserID string `json:"user_id"`
}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username          string `json:"username"`
	VerifierCandidate []byte `json:"verifier_candidate"`
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type GetProfileRequest struct{}

type Profile struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type GetProfileResponse struct {
	Profile Profile `json:"profile"`
}

// Entry is a remote mood document.
type Entry struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id,omitempty"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note"`
	Stress    int       `json:"stress"`
	PhotoURL  *string   `json:"photo_url"`
	HasPhoto  bool      `json:"has_photo"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateEntryRequest struct {
	ClientID string  `json:"client_id"`
	Mood     string  `json:"mood"`
	Note     string  `json:"note"`
	Stress   int     `json:"stress"`
	PhotoURL *string `json:"photo_url"`
}

type CreateEntryResponse struct {
	Entry Entry `json:"entry"`
}

// UpdateEntryRequest carries a partial update: nil fields are left alone.
type UpdateEntryRequest struct {
	ID         string  `json:"id"`
	Mood       *string `json:"mood,omitempty"`
	Note       *string `json:"note,omitempty"`
	Stress     *int    `json:"stress,omitempty"`
	PhotoURL   *string `json:"photo_url,omitempty"`
	ClearPhoto bool    `json:"clear_photo,omitempty"`
}

type UpdateEntryResponse struct {
	Entry Entry `json:"entry"`
}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

type DeleteEntryResponse struct{}

type ListEntriesRequest struct {
	Limit int `json:"limit"`
}

type ListEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

type CountEntriesRequest struct{}

type CountEntriesResponse struct {
	Count int64 `json:"count"`
}

type WatchEntriesRequest struct {
	Limit int `json:"limit"`
}

// Snapshot is the full, ordered entry list at a point in time.
type Snapshot struct {
	Entries []Entry `json:"entries"`
}

type GetUploadURLRequest struct {
	UploadPreset string `json:"upload_preset"`
	ContentType  string `json:"content_type"`
}

type GetUploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}
