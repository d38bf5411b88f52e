package service

//go:generate mockgen -source=../domain/interface.go -destination=../../mocks/mock_domain.go -package=mocks

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/umar-essayed/Courses-backend/config"
	"github.com/umar-essayed/Courses-backend/internal/auth/domain"
	"github.com/umar-essayed/Courses-backend/internal/auth/dto"
	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
	"github.com/umar-essayed/Courses-backend/pkg/constant"
)

// dummyHash is compared against when no user matches the email, so a failed
// login costs the same whether the account exists or not.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	users        domain.UserRepository
	tokens       domain.RefreshTokenRepository
	tokenService TokenGenerator
	hasher       domain.PasswordHasher
	throttle     domain.LoginThrottle
	cache        domain.IdentityCache
	cfg          *config.Config
	newID        func() string
	now          func() time.Time
}

type Option func(*UserService)

// WithIDGenerator overrides the record ID source, used by tests to pin IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *UserService) { s.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

func NewUserService(
	users domain.UserRepository,
	tokens domain.RefreshTokenRepository,
	tokenService TokenGenerator,
	hasher domain.PasswordHasher,
	throttle domain.LoginThrottle,
	cache domain.IdentityCache,
	cfg *config.Config,
	opts ...Option,
) *UserService {
	s := &UserService{
		users:        users,
		tokens:       tokens,
		tokenService: tokenService,
		hasher:       hasher,
		throttle:     throttle,
		cache:        cache,
		cfg:          cfg,
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	email := normalizeEmail(input.Email)
	if input.Name == "" || !validEmail(email) {
		return nil, autherror.ErrInvalidInput
	}

	// Self-registration never grants an elevated role. Admins promote users
	// through the admin surface afterwards.
	if input.Role != "" && input.Role != constant.DefaultRole {
		return nil, autherror.ErrInvalidInput
	}
	role := constant.DefaultRole

	if !strongPassword(input.Password) {
		return nil, autherror.ErrWeakPassword
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           s.newID(),
		Name:         input.Name,
		Email:        email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The pre-check above is a fast path only; the unique index behind
	// Create decides races between concurrent registrations.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:         toUserOutput(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	email := normalizeEmail(input.Email)

	locked, err := s.throttle.IsLockedOut(ctx, email)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, autherror.ErrTooManyLoginAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// Unknown email and wrong password take the same path: the hash
	// comparison always runs and both end in the same error.
	hash := dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	if !s.hasher.Verify(input.Password, hash) || user == nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			log.Printf("warn: failed to record login failure for %s: %v", email, err)
		}
		return nil, autherror.ErrInvalidCredentials
	}

	if user.Blocked {
		return nil, autherror.ErrAccountBlocked
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		log.Printf("warn: failed to reset login throttle for %s: %v", email, err)
	}

	pair, err := s.issueTokens(ctx, user, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:         toUserOutput(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, err
	}

	summary, err := s.resolveSummary(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if summary == nil || summary.DeletedAt != nil {
		return nil, autherror.ErrTokenInvalid
	}

	accessToken, newRefreshToken, expiresAt, err := s.tokenService.Generate(claims.UserID, claims.Email, summary.Role)
	if err != nil {
		return nil, err
	}

	newRecord := &domain.RefreshToken{
		ID:        s.newID(),
		UserID:    claims.UserID,
		Token:     newRefreshToken,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
		Revoked:   false,
	}

	// The store decides replay: a structurally valid value that was already
	// rotated or revoked fails here and no successor is minted.
	if err := s.tokens.Rotate(ctx, input.RefreshToken, newRecord); err != nil {
		return nil, err
	}

	// Accounts blocked after the token was issued must not keep minting
	// access tokens. The rotation above already consumed the old value;
	// take back the successor as well.
	if summary.Blocked {
		if err := s.tokens.Revoke(ctx, newRefreshToken); err != nil {
			log.Printf("warn: failed to revoke successor token for blocked user %s: %v", claims.UserID, err)
		}
		return nil, autherror.ErrAccountBlocked
	}

	s.trimActiveTokens(ctx, claims.UserID)

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the refresh token. Revoking an unknown or already-revoked
// value succeeds, so repeated logouts are harmless.
func (s *UserService) Logout(ctx context.Context, input dto.LogoutInput) error {
	return s.tokens.Revoke(ctx, input.RefreshToken)
}

// ResolveAccessToken turns a presented access token into an identity
// summary, rejecting blocked and soft-deleted accounts so they never reach
// a role check.
func (s *UserService) ResolveAccessToken(ctx context.Context, tokenString string) (*domain.IdentitySummary, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	summary, err := s.resolveSummary(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if summary == nil || !summary.Active() {
		return nil, autherror.ErrTokenInvalid
	}

	return summary, nil
}

// SetRole grants or revokes elevated roles. The cached identity summary
// carries the role, so the entry is invalidated in the same operation.
func (s *UserService) SetRole(ctx context.Context, id, role string) error {
	if !constant.ValidRole(role) {
		return autherror.ErrInvalidInput
	}
	if err := s.users.SetRole(ctx, id, role); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}

func (s *UserService) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if err := s.users.SetBlocked(ctx, id, blocked); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}

func (s *UserService) SoftDelete(ctx context.Context, id string) error {
	if err := s.users.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}

func (s *UserService) Restore(ctx context.Context, id string) error {
	if err := s.users.Restore(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}

// ForceLogout revokes every active refresh token the user holds.
func (s *UserService) ForceLogout(ctx context.Context, id string) error {
	return s.tokens.RevokeAllForUser(ctx, id)
}

func (s *UserService) GetUserSessions(ctx context.Context, id string) ([]dto.SessionOutput, error) {
	records, err := s.tokens.GetActiveByUserID(ctx, id)
	if err != nil {
		return nil, err
	}

	sessions := make([]dto.SessionOutput, 0, len(records))
	for _, rt := range records {
		sessions = append(sessions, dto.SessionOutput{
			ID:        rt.ID,
			IPAddress: rt.IPAddress,
			UserAgent: rt.UserAgent,
			CreatedAt: rt.CreatedAt,
			ExpiresAt: rt.ExpiresAt,
		})
	}

	return sessions, nil
}

// resolveSummary reads the identity summary cache-first, falling back to the
// store and refilling the cache on a miss. Cache failures degrade to store
// reads rather than failing the request.
func (s *UserService) resolveSummary(ctx context.Context, id string) (*domain.IdentitySummary, error) {
	summary, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Printf("warn: identity cache read for %s: %v", id, err)
	}
	if summary != nil {
		return summary, nil
	}

	user, err := s.users.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	summary = user.Summary()
	ttl := time.Duration(s.cfg.IdentityCacheTTLSec) * time.Second
	if ttl > 0 {
		if err := s.cache.Set(ctx, summary, ttl); err != nil {
			log.Printf("warn: identity cache write for %s: %v", id, err)
		}
	}

	return summary, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *domain.User, ip, userAgent string) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresAt, err := s.tokenService.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	record := &domain.RefreshToken{
		ID:        s.newID(),
		UserID:    user.ID,
		Token:     refreshToken,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
		Revoked:   false,
	}
	if err := s.tokens.Store(ctx, record); err != nil {
		return nil, err
	}

	s.trimActiveTokens(ctx, user.ID)

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// trimActiveTokens revokes a user's oldest tokens once the active set grows
// past the configured cap. Failures here degrade the cap, not the login.
func (s *UserService) trimActiveTokens(ctx context.Context, userID string) {
	activeCount, err := s.tokens.GetActiveCountByUserID(ctx, userID)
	if err != nil {
		log.Printf("warn: failed to count active refresh tokens for user %s: %v", userID, err)
		return
	}

	if activeCount > s.cfg.MaxActiveRefreshTokens {
		if err := s.tokens.DeleteOldestByUserID(ctx, userID, s.cfg.MaxActiveRefreshTokens); err != nil {
			log.Printf("warn: failed to trim refresh tokens for user %s: %v", userID, err)
		}
	}
}

func toUserOutput(user *domain.User) dto.UserOutput {
	return dto.UserOutput{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// strongPassword enforces the local policy: minimum length plus at least
// one letter and one digit.
func strongPassword(password string) bool {
	if len(password) < constant.MinPasswordLength {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}
