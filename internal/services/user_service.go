package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/auth"
	"github.com/head-marketing/backend/internal/config"
	"github.com/head-marketing/backend/internal/mailer"
	"github.com/head-marketing/backend/internal/models"
	"github.com/head-marketing/backend/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
)

// GoogleVerifier validates a Google ID token and returns the profile.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.GoogleProfile, error)
}

type UserService struct {
	userRepo *repositories.UserRepo
	rdb      *redis.Client
	mail     mailer.Mailer
	google   GoogleVerifier
	cfg      *config.Config
	log      *zap.Logger
}

func NewUserService(
	userRepo *repositories.UserRepo,
	rdb *redis.Client,
	mail mailer.Mailer,
	google GoogleVerifier,
	cfg *config.Config,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		rdb:      rdb,
		mail:     mail,
		google:   google,
		cfg:      cfg,
		log:      log,
	}
}

func verificationKey(email string) string {
	return "verify:" + email
}

func resetKey(email string) string {
	return "reset:" + email
}

// Register creates an unverified account and emails a verification code.
func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{Email: email, PasswordHash: &hash}
	if firstName != "" {
		u.FirstName = &firstName
	}
	if lastName != "" {
		u.LastName = &lastName
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.issueVerificationCode(ctx, email); err != nil {
		s.log.Warn("could not send verification code", zap.String("email", email), zap.Error(err))
	}
	return u, nil
}

func (s *UserService) issueVerificationCode(ctx context.Context, email string) error {
	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, verificationKey(email), code, s.cfg.VerificationCodeTTL).Err(); err != nil {
		return err
	}
	return s.mail.SendVerificationCode(ctx, email, code)
}

// ResendCode issues a fresh verification code for an unverified account.
func (s *UserService) ResendCode(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return ErrInvalidCredentials
	}
	if u.EmailVerified {
		return fmt.Errorf("email already verified")
	}
	return s.issueVerificationCode(ctx, email)
}

// VerifyEmail checks the code and marks the account verified.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) (*models.User, string, error) {
	stored, err := s.rdb.Get(ctx, verificationKey(email)).Result()
	if err != nil || stored != code {
		return nil, "", ErrInvalidCode
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCode
	}
	if err := s.userRepo.MarkEmailVerified(ctx, u.ID); err != nil {
		return nil, "", err
	}
	u.EmailVerified = true
	_ = s.rdb.Del(ctx, verificationKey(email)).Err()

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, u.ID, u.Email, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login checks credentials and issues a session token. Unverified accounts
// are rejected.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if u.PasswordHash == nil || !auth.CheckPassword(*u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !u.EmailVerified {
		return nil, "", fmt.Errorf("email not verified")
	}

	_ = s.userRepo.TouchLastActive(ctx, u.ID)

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, u.ID, u.Email, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// RequestPasswordReset issues a reset code for an existing account. Unknown
// emails succeed silently so the endpoint cannot be used to probe accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, resetKey(email), code, s.cfg.VerificationCodeTTL).Err(); err != nil {
		return err
	}
	return s.mail.SendPasswordResetCode(ctx, email, code)
}

// ResetPassword checks the reset code and replaces the password.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	stored, err := s.rdb.Get(ctx, resetKey(email)).Result()
	if err != nil || stored != code {
		return ErrInvalidCode
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return ErrInvalidCode
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	_ = s.rdb.Del(ctx, resetKey(email)).Err()
	return nil
}

// LoginWithGoogle verifies the ID token, creating or linking the account as
// needed. Google identities count as verified email.
func (s *UserService) LoginWithGoogle(ctx context.Context, idToken string) (*models.User, string, error) {
	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", err
	}

	u, err := s.userRepo.GetByGoogleID(ctx, profile.Sub)
	if errors.Is(err, repositories.ErrNotFound) {
		u, err = s.userRepo.GetByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			if err := s.userRepo.LinkGoogle(ctx, u.ID, profile.Sub); err != nil {
				return nil, "", err
			}
			u.EmailVerified = true
		case errors.Is(err, repositories.ErrNotFound):
			u = &models.User{
				Email:         profile.Email,
				EmailVerified: true,
				GoogleID:      &profile.Sub,
			}
			if profile.GivenName != "" {
				u.FirstName = &profile.GivenName
			}
			if profile.FamilyName != "" {
				u.LastName = &profile.FamilyName
			}
			if err := s.userRepo.Create(ctx, u); err != nil {
				return nil, "", err
			}
		default:
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}

	_ = s.userRepo.TouchLastActive(ctx, u.ID)

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, u.ID, u.Email, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
