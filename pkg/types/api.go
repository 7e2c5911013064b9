package types

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Credentials is the body of the signup and login endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a signed session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// StatusResponse is a bare status acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}

// Identity is the authenticated user returned by /auth/profile.
type Identity struct {
	Email string `json:"email"`
}

// Health is the body of /healthz.
type Health struct {
	Status          string `json:"status"`
	Database        bool   `json:"database"`
	APISecretLoaded bool   `json:"api_secret_loaded"`
	JWTSecretLoaded bool   `json:"jwt_secret_loaded"`
	AuthReady       bool   `json:"auth_ready"`
}
