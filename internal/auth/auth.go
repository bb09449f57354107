package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Identity is the minimal local identity bound to session tokens. It is
// created lazily on first successful directory login and is not a source of
// truth for employee data.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// EmployeeRef is the slice of the employee row the login response needs.
type EmployeeRef struct {
	EmployeeID string
	FullName   string
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserSummary struct {
	Username   string `json:"username"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
}

type LoginResult struct {
	AuthTokens
	User UserSummary `json:"user"`
}

// Claims represents JWT token claims. TokenType distinguishes access from
// refresh credentials so one cannot stand in for the other.
type Claims struct {
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// DirectoryAuthenticator is the slice of the directory client the auth
// workflow needs.
type DirectoryAuthenticator interface {
	Authenticate(username, password string) bool
}

type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResult, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	Logout(refreshToken string) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetIdentity(username string) (*Identity, error)
}

type RepositoryAPI interface {
	GetEmployeeRef(username string) (*EmployeeRef, error)
	EnsureIdentity(username string) (*Identity, error)
	GetIdentity(username string) (*Identity, error)
	RevokeToken(tokenID, username string, expiresAt time.Time) error
	IsTokenRevoked(tokenID string) (bool, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(identity *Identity) (string, error)
	GenerateRefreshToken(identity *Identity) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmployeeNotFound   = errors.New("employee record not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrIdentityNotFound   = errors.New("identity not found")
)

// GenerateAccessToken creates a short-lived access credential. Access tokens
// are not individually revocable; they stay valid until natural expiry.
func (j *JWTTokenGenerator) GenerateAccessToken(identity *Identity) (string, error) {
	return j.sign(identity, TokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a long-lived refresh credential carrying a
// unique token ID so it can be individually revoked.
func (j *JWTTokenGenerator) GenerateRefreshToken(identity *Identity) (string, error) {
	return j.sign(identity, TokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(identity *Identity, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username:  identity.Username,
		IsAdmin:   identity.IsAdmin,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString, wantType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
