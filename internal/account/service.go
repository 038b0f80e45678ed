// Package account owns back-office credentials: login, account lifecycle
// and password changes.
package account

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Repository is the persistence the service needs.
type Repository interface {
	List(ctx context.Context, f query.Filter) (*query.Page[entity.Account], error)
	Get(ctx context.Context, id string, includeInactive bool) (*entity.Account, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Create(ctx context.Context, a *entity.Account) error
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	RecordLogin(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash, algo string) error
}

var ErrSelfDeactivate = errors.New("cannot deactivate your own account")

// Service orchestrates authentication and account lifecycle flows.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *zap.SugaredLogger
	newID  func() string

	dummyOnce sync.Once
	dummyHash string
}

func NewService(repo Repository, hasher PasswordHasher, logger *zap.SugaredLogger) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: DefaultCost}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, hasher: hasher, logger: logger, newID: utilities.NewSnowflakeID}
}

// Authenticate checks email and password. Unknown email, inactive account,
// missing hash and wrong password all return apperr.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// keep the failure path about as slow as a real comparison
			s.hasher.Verify(s.placeholderHash(), password)
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	// every existing account pays for one comparison, usable or not
	hash := a.PasswordHash
	if hash == "" {
		hash = s.placeholderHash()
	}
	matched := s.hasher.Verify(hash, password)
	if !matched || !a.IsActive || a.PasswordHash == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	if err := s.repo.RecordLogin(ctx, a.ID); err != nil {
		s.logger.Warnw("record login failed", "account", a.ID, "err", err)
	}
	if s.hasher.NeedsRehash(a.PasswordHash) {
		if hash, algo, err := s.hasher.Hash(password); err == nil {
			if err := s.repo.UpdatePassword(ctx, a.ID, hash, algo); err != nil {
				s.logger.Warnw("password rehash failed", "account", a.ID, "err", err)
			}
		}
	}
	return a, nil
}

func (s *Service) placeholderHash() string {
	s.dummyOnce.Do(func() {
		h, _, err := s.hasher.Hash("placeholder-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// CreateInput is the payload for a new account.
type CreateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Create validates input, hashes the password and stores the account.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperr.Required("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Invalid("email", "invalid email address")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = session.RoleAdmin
	}
	hash, algo, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		PasswordAlgo: algo,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ChangePassword replaces the password of an active account.
func (s *Service) ChangePassword(ctx context.Context, id, password string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Required("id")
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, algo, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash, algo)
}

// Deactivate soft-deletes an account. Nobody can lock themselves out.
func (s *Service) Deactivate(ctx context.Context, actorID, id string) error {
	if id == actorID {
		return apperr.Invalid("id", ErrSelfDeactivate.Error())
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) List(ctx context.Context, f query.Filter) (*query.Page[entity.Account], error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string, includeInactive bool) (*entity.Account, error) {
	return s.repo.Get(ctx, id, includeInactive)
}

// SoftDelete satisfies resource.Store; handlers use Deactivate.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) Restore(ctx context.Context, id string) error {
	return s.repo.Restore(ctx, id)
}

// Identity is the session subject for a.
func Identity(a *entity.Account) session.Identity {
	return session.Identity{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validatePassword(pw string) error {
	switch {
	case pw == "":
		return apperr.Required("password")
	case len(pw) < MinPasswordLength:
		return apperr.Invalid("password", "must be at least 8 characters")
	case len(pw) > MaxPasswordLength:
		return apperr.Invalid("password", "must be at most 72 bytes")
	}
	return nil
}
