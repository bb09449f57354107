package auth

import (
	"errors"
	"log/slog"
)

// Service orchestrates the directory-backed auth workflow: validate
// credentials, authenticate against the directory, resolve the local
// employee record, ensure a session identity exists, issue tokens.
type Service struct {
	directory DirectoryAuthenticator
	repo      RepositoryAPI
	tokens    TokenGeneratorAPI
	logger    *slog.Logger
}

func NewService(directory DirectoryAuthenticator, repo RepositoryAPI, tokens TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		directory: directory,
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
	}
}

// Login authenticates against the directory and returns a token pair plus a
// user summary. Credential failures are reported uniformly, without saying
// whether the username or the password was wrong.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if !s.directory.Authenticate(dto.Username, dto.Password) {
		s.logger.Info("directory authentication rejected", "username", dto.Username)
		return nil, ErrInvalidCredentials
	}

	// Directory auth succeeded; a missing employee row is an onboarding gap,
	// not a credential problem, and gets its own outcome. Repository failures
	// are not that outcome and surface as server errors.
	ref, err := s.repo.GetEmployeeRef(dto.Username)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			s.logger.Warn("no employee record for directory user", "username", dto.Username)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", "username", dto.Username, "error", err)
		return nil, err
	}

	identity, err := s.repo.EnsureIdentity(dto.Username)
	if err != nil {
		s.logger.Error("failed to ensure session identity", "username", dto.Username, "error", err)
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", "username", dto.Username, "employee_id", ref.EmployeeID)

	return &LoginResult{
		AuthTokens: AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		User: UserSummary{
			Username:   dto.Username,
			EmployeeID: ref.EmployeeID,
			FullName:   ref.FullName,
		},
	}, nil
}

// RefreshTokens exchanges a valid, non-revoked refresh token for a fresh
// token pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	revoked, err := s.repo.IsTokenRevoked(claims.ID)
	if err != nil {
		s.logger.Error("revocation check failed", "token_id", claims.ID, "error", err)
		return AuthTokens{}, err
	}
	if revoked {
		s.logger.Info("refresh rejected: token revoked", "token_id", claims.ID, "username", claims.Username)
		return AuthTokens{}, ErrTokenRevoked
	}

	// Re-read the identity so a flipped admin flag takes effect on refresh.
	identity, err := s.repo.GetIdentity(claims.Username)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	accessToken, err := s.tokens.GenerateAccessToken(identity)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken(identity)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout adds the presented refresh token to the revocation list. The paired
// access token stays valid until its own expiry; that is a documented
// limitation, not a bug.
func (s *Service) Logout(refreshToken string) error {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	if err := s.repo.RevokeToken(claims.ID, claims.Username, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("failed to revoke refresh token", "token_id", claims.ID, "error", err)
		return err
	}

	s.logger.Info("refresh token revoked", "username", claims.Username, "token_id", claims.ID)
	return nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *Service) GetIdentity(username string) (*Identity, error) {
	return s.repo.GetIdentity(username)
}
