package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/BackofficeGo/internal/auth"
	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/internal/email"
	"github.com/utafrali/BackofficeGo/internal/event"
	"github.com/utafrali/BackofficeGo/internal/repository"
	"github.com/utafrali/BackofficeGo/internal/verification"
	apperrors "github.com/utafrali/BackofficeGo/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// GoogleVerifier validates a federated ID token and returns the identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.GoogleIdentity, error)
}

// AuthService implements the registration, verification, login and password
// flows. Per-user challenge state lives in the durable store; two concurrent
// reissues for the same user race benignly (last write wins).
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *auth.JWTManager
	google     GoogleVerifier
	sender     email.Sender
	producer   *event.Producer
	logger     *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *auth.JWTManager,
	google GoogleVerifier,
	sender email.Sender,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		google:     google,
		sender:     sender,
		producer:   producer,
		logger:     logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// --- Registration ---

// Register creates a new unverified user, issues a registration challenge,
// and emails the code. Delivery failure is logged but does not fail the
// registration; the user can request a resend.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.FirstName == "" {
		return nil, apperrors.InvalidInput("first name is required")
	}
	if input.LastName == "" {
		return nil, apperrors.InvalidInput("last name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.Conflict("an account with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	code, err := verification.Generate()
	if err != nil {
		return nil, err
	}
	user.SetChallenge(domain.ChallengeRegistration, code, now.Add(verification.TTL))

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendChallengeCode(ctx, user, email.TemplateRegistration)

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// VerifyRegistration confirms a pending registration with the emailed code.
// On success the user is marked verified, the challenge is cleared, and a
// token is issued.
func (s *AuthService) VerifyRegistration(ctx context.Context, emailAddr, code string) (*domain.User, *domain.AuthToken, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, nil, apperrors.NotFound("user", emailAddr)
	}

	if user.EmailVerified {
		return nil, nil, apperrors.InvalidInput("email is already verified")
	}

	if err := s.checkChallenge(user, domain.ChallengeRegistration, code); err != nil {
		return nil, nil, err
	}

	user.EmailVerified = true
	user.ClearChallenge()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("update user after verification: %w", err)
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.producer.PublishUserVerified(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.verified event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "registration verified",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// ResendVerification re-issues the registration challenge, unconditionally
// overwriting any previous code.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return apperrors.NotFound("user", emailAddr)
	}

	if user.EmailVerified {
		return apperrors.InvalidInput("email is already verified")
	}

	if err := s.issueChallenge(ctx, user, domain.ChallengeRegistration, email.TemplateRegistration); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "verification code resent",
		slog.String("user_id", user.ID),
	)

	return nil
}

// --- Login ---

// Login authenticates with email and password. Unknown users and wrong
// passwords surface the same generic message to avoid account enumeration;
// an unverified email is reported distinctly. When 2FA is enabled the result
// carries a challenge instead of a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.LoginResult, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if !user.EmailVerified {
		return nil, apperrors.Unauthorized("verify your email before signing in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	return s.finishLogin(ctx, user)
}

// CompleteLogin2FA consumes a pending login challenge and issues a token.
// It never alters the email-verified flag.
func (s *AuthService) CompleteLogin2FA(ctx context.Context, emailAddr, code string) (*domain.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, apperrors.NotFound("user", emailAddr)
	}

	if err := s.checkChallenge(user, domain.ChallengeLogin, code); err != nil {
		return nil, err
	}

	user.ClearChallenge()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user after 2fa: %w", err)
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "2fa login completed",
		slog.String("user_id", user.ID),
	)

	return &domain.LoginResult{Token: token}, nil
}

// GoogleLogin exchanges a Google ID token for a session. A user is created
// pre-verified on first sign-in, with an unusable random password
// placeholder. The 2FA branch applies exactly as in password login.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*domain.LoginResult, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.logger.WarnContext(ctx, "google token verification failed",
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Unauthorized("invalid identity token")
	}

	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		user, err = s.createFederatedUser(ctx, identity)
		if err != nil {
			return nil, err
		}
	}

	return s.finishLogin(ctx, user)
}

// --- Password change ---

// RequestPasswordChange verifies the current password and issues a
// password-change challenge.
func (s *AuthService) RequestPasswordChange(ctx context.Context, userID, currentPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	if err := s.issueChallenge(ctx, user, domain.ChallengePasswordChange, email.TemplatePasswordChange); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password change requested",
		slog.String("user_id", user.ID),
	)

	return nil
}

// CompletePasswordChange consumes the password-change challenge and replaces
// the password hash.
func (s *AuthService) CompletePasswordChange(ctx context.Context, userID, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if err := s.checkChallenge(user, domain.ChallengePasswordChange, code); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.ClearChallenge()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", user.ID),
	)

	return nil
}

// --- Account ---

// Toggle2FA flips the two-factor flag. No code is involved.
func (s *AuthService) Toggle2FA(ctx context.Context, userID string, enabled bool) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for 2fa toggle: %w", err)
	}

	user.TwoFactorEnabled = enabled
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user 2fa setting: %w", err)
	}

	s.logger.InfoContext(ctx, "two-factor setting updated",
		slog.String("user_id", user.ID),
		slog.Bool("enabled", enabled),
	)

	return user, nil
}

// Profile retrieves the authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

// UpdatePhone replaces the user's phone number.
func (s *AuthService) UpdatePhone(ctx context.Context, userID, phone string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for phone update: %w", err)
	}

	user.Phone = phone
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user phone: %w", err)
	}

	return user, nil
}

// --- Helpers ---

// finishLogin branches on the 2FA setting: either issue a login challenge or
// a token directly.
func (s *AuthService) finishLogin(ctx context.Context, user *domain.User) (*domain.LoginResult, error) {
	if user.TwoFactorEnabled {
		if err := s.issueChallenge(ctx, user, domain.ChallengeLogin, email.TemplateLogin2FA); err != nil {
			return nil, err
		}

		s.logger.InfoContext(ctx, "2fa challenge issued",
			slog.String("user_id", user.ID),
		)

		return &domain.LoginResult{Requires2FA: true, Email: user.Email}, nil
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return &domain.LoginResult{Token: token}, nil
}

// issueChallenge installs a fresh challenge of the given kind, persists it,
// and emails the code. An existing challenge of any kind is overwritten.
func (s *AuthService) issueChallenge(ctx context.Context, user *domain.User, kind domain.ChallengeKind, template email.TemplateKind) error {
	code, err := verification.Generate()
	if err != nil {
		return err
	}

	user.SetChallenge(kind, code, time.Now().UTC().Add(verification.TTL))
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}

	s.sendChallengeCode(ctx, user, template)
	return nil
}

// checkChallenge validates a submitted code against the user's pending
// challenge. The check order is fixed: pending-code-of-the-right-kind, then
// expiry, then the case-insensitive match.
func (s *AuthService) checkChallenge(user *domain.User, kind domain.ChallengeKind, code string) error {
	if !user.HasChallenge(kind) {
		return apperrors.InvalidInput("no pending verification code")
	}
	if time.Now().UTC().After(*user.ChallengeExpiresAt) {
		return apperrors.InvalidInput("verification code has expired")
	}
	if !verification.Matches(user.ChallengeCode, code) {
		return apperrors.InvalidInput("invalid verification code")
	}
	return nil
}

// sendChallengeCode delivers the pending code by email. Failures are logged
// and swallowed; the user can ask for a resend.
func (s *AuthService) sendChallengeCode(ctx context.Context, user *domain.User, template email.TemplateKind) {
	msg := email.Message{
		To:          user.Email,
		DisplayName: strings.TrimSpace(user.FirstName + " " + user.LastName),
		Code:        user.ChallengeCode,
		Template:    template,
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification email",
			slog.String("user_id", user.ID),
			slog.String("sender", s.sender.Name()),
			slog.String("error", err.Error()),
		)
	}
}

// createFederatedUser provisions a pre-verified account for a federated
// identity. The password placeholder is random and never disclosed, so
// password login stays impossible until the user sets one.
func (s *AuthService) createFederatedUser(ctx context.Context, identity *auth.GoogleIdentity) (*domain.User, error) {
	placeholder := make([]byte, 32)
	if _, err := rand.Read(placeholder); err != nil {
		return nil, fmt.Errorf("generate password placeholder: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(placeholder)), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password placeholder: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.New().String(),
		Email:         strings.ToLower(identity.Email),
		PasswordHash:  string(hashedPassword),
		FirstName:     identity.GivenName,
		LastName:      identity.FamilyName,
		Role:          domain.RoleUser,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create federated user: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "federated user created",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
