package domain

// User is the backend's view of the signed-in account, as returned by
// GET /api/auth/me. CreatedAt is kept as the raw string the backend emits.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AuthToken is the login/register response.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
