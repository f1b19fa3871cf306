package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

// Service authenticates operators of the analytics endpoints.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
}

type service struct {
	cfg       Config
	operators map[string]Operator
	logger    *slog.Logger
}

const (
	tokenTypeAccess = "access"
	defaultTokenTTL = 12 * time.Hour
)

// NewService constructs a Service instance.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	operators := make(map[string]Operator, len(cfg.Operators))
	for _, op := range cfg.Operators {
		name := normalizeUsername(op.Username)
		if name == "" || strings.TrimSpace(op.PasswordHash) == "" {
			continue
		}
		operators[name] = op
	}
	return &service{
		cfg:       cfg,
		operators: operators,
		logger:    logger.With("component", "auth.service"),
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	username := normalizeUsername(req.Username)
	if username == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "username cannot be empty", nil)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "password cannot be empty", nil)
	}
	if strings.TrimSpace(s.cfg.Secret) == "" {
		return LoginResponse{}, apperrors.Wrap("auth_not_configured", "operator login is not configured", nil)
	}
	op, found := s.operators[username]
	if !found || bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("operator login rejected", "username", username)
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid username or password", nil)
	}
	token, expires, err := s.generateToken(username)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Token: token, ExpiresAt: expires, Username: username}, nil
}

func (s *service) ValidateToken(ctx context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing", nil)
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return Claims{}, apperrors.Wrap("invalid_token", "token type mismatch", nil)
	}
	if _, ok := s.operators[claims.Username]; !ok {
		return Claims{}, apperrors.Wrap("invalid_token", "operator no longer configured", nil)
	}
	return claims, nil
}

// HashPassword produces the bcrypt hash stored in the operator config.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *service) generateToken(username string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.cfg.TokenTTL)
	claims := tokenClaims{
		Username:  username,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, apperrors.Wrap("auth_error", "failed to sign token", err)
	}
	return signed, expires, nil
}

func (s *service) parseToken(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing expiry", nil)
	}
	return Claims{
		Username:  claims.Username,
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func normalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	TokenType string `json:"type"`
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
