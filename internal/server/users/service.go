package users

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/dmitrijs2005/feedline/internal/common"
	"github.com/dmitrijs2005/feedline/internal/server/auth"
)

type Service struct {
	repo   Repository
	hasher auth.Hasher
	tokens *auth.TokenService
}

func NewService(repo Repository, hasher auth.Hasher, tokens *auth.TokenService) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// CredentialSource adapts Repository to the token service's live credential
// lookup.
type CredentialSource struct {
	Repo Repository
}

func (s CredentialSource) CredentialByID(ctx context.Context, userID int64) (*auth.Credential, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &auth.Credential{
		UserID:       user.ID,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
		Salt:         user.HashSalt,
	}, nil
}

func validLogin(login string) bool {
	if login == "" {
		return false
	}
	for _, r := range login {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func validPassword(password string) bool {
	if password == "" {
		return false
	}
	for _, r := range password {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '!' && r != '.' && r != '?' {
			return false
		}
	}
	return true
}

// Register creates a credential for a new login and returns a bearer token.
// The login must consist of letters and digits, the password of letters,
// digits and "!.?". Duplicate logins are rejected before any write.
func (s *Service) Register(ctx context.Context, login, password string) (string, error) {

	if !validLogin(login) {
		return "", fmt.Errorf("%w: invalid login", common.ErrorValidation)
	}
	if !validPassword(password) {
		return "", fmt.Errorf("%w: invalid password", common.ErrorValidation)
	}

	exists, err := s.repo.LoginExists(ctx, login)
	if err != nil {
		return "", common.ErrorInternal
	}
	if exists {
		return "", fmt.Errorf("%w: user with this login already exists", common.ErrorConflict)
	}

	salt := common.GenerateRandByteArray(auth.SaltSize)
	hash := s.hasher.Hash(password, salt)

	user, err := s.repo.Create(ctx, &User{Login: login, PasswordHash: hash, HashSalt: salt})
	if err != nil {
		return "", common.ErrorInternal
	}

	token, err := s.tokens.Issue(&auth.Credential{
		UserID:       user.ID,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
		Salt:         user.HashSalt,
	})
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Login verifies the password against the stored credential and returns a
// fresh token. Unknown logins and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {

	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.HashSalt, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(&auth.Credential{
		UserID:       user.ID,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
		Salt:         user.HashSalt,
	})
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// GetUserInfo returns the public profile for a user id.
func (s *Service) GetUserInfo(ctx context.Context, userID int64) (*Info, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return &Info{Login: user.Login}, nil
}
