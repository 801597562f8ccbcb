package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"urbik/internal/domain"
	"urbik/internal/redis"
	"urbik/internal/repository"
)

// Token roles embedded in issued credentials.
const (
	roleRider   = "user"
	roleCaptain = "captain"
)

// TokenTTL is the credential lifetime; the revoked-token store keeps revoked
// entries for exactly this long.
const TokenTTL = 24 * time.Hour

// AuthService handles registration, login, credential verification and
// logout for riders and captains.
type AuthService struct {
	riders   repository.RiderRepository
	captains repository.CaptainRepository
	tokens   redis.TokenStoreInterface
	secret   []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	riders repository.RiderRepository,
	captains repository.CaptainRepository,
	tokens redis.TokenStoreInterface,
	secret string,
) *AuthService {
	return &AuthService{riders: riders, captains: captains, tokens: tokens, secret: []byte(secret)}
}

// RegisterRiderRequest contains the parameters for rider signup.
type RegisterRiderRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterRider creates a rider account and issues a credential.
func (s *AuthService) RegisterRider(ctx context.Context, req RegisterRiderRequest) (*domain.Rider, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	rider := &domain.Rider{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.riders.Create(ctx, rider); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.issueToken(rider.ID, roleRider)
	if err != nil {
		return nil, "", err
	}
	return rider, token, nil
}

// LoginRider verifies rider credentials and issues a token.
func (s *AuthService) LoginRider(ctx context.Context, email, password string) (*domain.Rider, string, error) {
	rider, err := s.riders.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(rider.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(rider.ID, roleRider)
	if err != nil {
		return nil, "", err
	}
	return rider, token, nil
}

// RegisterCaptainRequest contains the parameters for captain signup.
type RegisterCaptainRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Vehicle   domain.Vehicle
}

// RegisterCaptain creates a captain account, inactive until it connects.
func (s *AuthService) RegisterCaptain(ctx context.Context, req RegisterCaptainRequest) (*domain.Captain, string, error) {
	if _, err := ValidateVehicleType(string(req.Vehicle.Type)); err != nil {
		return nil, "", err
	}
	if req.Vehicle.Capacity < 1 || req.Vehicle.Capacity > 50 {
		return nil, "", ErrInvalidCapacity
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	captain := &domain.Captain{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Vehicle: domain.Vehicle{
			Color:    strings.TrimSpace(req.Vehicle.Color),
			Plate:    strings.ToUpper(strings.TrimSpace(req.Vehicle.Plate)),
			Capacity: req.Vehicle.Capacity,
			Type:     req.Vehicle.Type,
		},
		Status:    domain.CaptainStatusInactive,
		CreatedAt: time.Now(),
	}

	if err := s.captains.Create(ctx, captain); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Email and plate are both unique; report the one that collided.
			if _, lookupErr := s.captains.GetByEmail(ctx, captain.Email); lookupErr == nil {
				return nil, "", ErrEmailTaken
			}
			return nil, "", ErrPlateTaken
		}
		return nil, "", err
	}

	token, err := s.issueToken(captain.ID, roleCaptain)
	if err != nil {
		return nil, "", err
	}
	return captain, token, nil
}

// LoginCaptain verifies captain credentials and issues a token.
func (s *AuthService) LoginCaptain(ctx context.Context, email, password string) (*domain.Captain, string, error) {
	captain, err := s.captains.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(captain.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(captain.ID, roleCaptain)
	if err != nil {
		return nil, "", err
	}
	return captain, token, nil
}

// AuthenticateRider resolves a bearer credential to a rider.
func (s *AuthService) AuthenticateRider(ctx context.Context, token string) (*domain.Rider, error) {
	sub, err := s.verify(ctx, token, roleRider)
	if err != nil {
		return nil, err
	}

	rider, err := s.riders.GetByID(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return rider, nil
}

// AuthenticateCaptain resolves a bearer credential to a captain.
func (s *AuthService) AuthenticateCaptain(ctx context.Context, token string) (*domain.Captain, error) {
	sub, err := s.verify(ctx, token, roleCaptain)
	if err != nil {
		return nil, err
	}

	captain, err := s.captains.GetByID(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return captain, nil
}

// Logout revokes the credential until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return s.tokens.Revoke(ctx, token)
}

// verify checks revocation, signature, expiry and role, returning the
// subject id.
func (s *AuthService) verify(ctx context.Context, token, wantRole string) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}

	revoked, err := s.tokens.IsRevoked(ctx, token)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role != wantRole {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func (s *AuthService) issueToken(subject, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
