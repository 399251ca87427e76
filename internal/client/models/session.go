package models

// Session is the persisted sign-in state restored on the next launch.
type Session struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// OfflineCredentials let a user sign in while the server is unreachable.
// Verifier is derived from the password and Salt, never the password itself.
type OfflineCredentials struct {
	UserID   string `json:"userId"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

// SupportRequest is a priority support message kept on the device.
type SupportRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	SentAt  string `json:"sentAt"`
}
