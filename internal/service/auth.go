package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"invest_platform/internal/domain"
	"invest_platform/internal/repository"
	"invest_platform/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is counted in characters
const MinPasswordLength = 6

// referralAttempts bounds the retries when a fresh referral code collides
const referralAttempts = 5

// TokenRevoker remembers signed-out token ids
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SignUpRequest is the registration form
type SignUpRequest struct {
	Email        string
	Password     string
	DisplayName  string
	ReferralCode string // Inviter's code from /register?ref=
}

// Session is an issued bearer token
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
}

// Auth registers users and issues, checks and revokes session tokens
type Auth struct {
	users    UserStore
	profiles ProfileStore
	revoker  TokenRevoker
	secret   string
	ttl      time.Duration
}

// NewAuth creates an Auth
func NewAuth(users UserStore, profiles ProfileStore, revoker TokenRevoker, secret string, ttl time.Duration) *Auth {
	return &Auth{users: users, profiles: profiles, revoker: revoker, secret: secret, ttl: ttl}
}

// SignUp creates the user with its profile and signs it in
func (a *Auth) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return nil, ErrPasswordShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := a.issueReferralCode(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	profile := &domain.Profile{
		DisplayName:  name,
		Email:        email,
		ReferralCode: code,
		ReferredBy:   a.inviter(ctx, req.ReferralCode),
	}
	user := &domain.User{Email: email, Password: string(hash)}
	if err := a.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Error("Failed to register user")
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "referred": profile.ReferredBy != nil}).Info("User registered")
	return a.issue(user)
}

// SignIn checks the credentials and issues a session
func (a *Auth) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a.issue(user)
}

// SignOut revokes the token for the rest of its lifetime
func (a *Auth) SignOut(ctx context.Context, claims *utils.Claims) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := a.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	logrus.WithField("user_id", claims.UserID).Info("User signed out")
	return nil
}

// Authenticate validates a bearer token and rejects revoked ones
func (a *Auth) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ParseJWT(token, a.secret)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Fail closed when the denylist is unreachable
		logrus.WithField("error", err.Error()).Error("Token denylist lookup failed")
		return nil, ErrUnauthenticated
	}
	if revoked {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// CurrentUser returns the caller's profile
func (a *Auth) CurrentUser(ctx context.Context, user *Identity) (*domain.Profile, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return a.profiles.FindByUserID(ctx, user.UserID)
}

func (a *Auth) issue(user *domain.User) (*Session, error) {
	token, claims, err := utils.GenerateJWT(user.ID, user.Email, a.secret, a.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    user.ID,
		Email:     user.Email,
	}, nil
}

func (a *Auth) issueReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralAttempts; i++ {
		code := domain.NewReferralCode()
		taken, err := a.profiles.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not issue a unique referral code")
}

// inviter keeps the referral code only when it belongs to an existing profile
func (a *Auth) inviter(ctx context.Context, code string) *string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	ok, err := a.profiles.ReferralCodeExists(ctx, code)
	if err != nil || !ok {
		return nil
	}
	return &code
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
