package auth

import "time"

// Config drives operator authentication.
type Config struct {
	Secret    string
	TokenTTL  time.Duration
	Operators []Operator
}

// Operator is an analytics user configured with a bcrypt password hash.
type Operator struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	Username  string
	TokenType string
	ExpiresAt time.Time
}
