package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/repository"
	"github.com/Govind-619/ShipSphere/utils"

	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAdminInactive is returned for disabled admin accounts
	ErrAdminInactive = errors.New("admin account is inactive")
	// ErrTokenRevoked is returned for tokens blacklisted by logout
	ErrTokenRevoked = errors.New("token has been revoked")
)

// AdminStore is the admin account storage used by AdminAuthService
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, admin *models.Admin, at time.Time) error
	Upsert(ctx context.Context, admin *models.Admin) error
}

// AdminSession is the result of a successful login
type AdminSession struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// AdminAuthService issues and checks admin tokens
type AdminAuthService struct {
	admins    AdminStore
	blacklist repository.TokenBlacklist
	secret    string
	now       func() time.Time
}

// NewAdminAuthService creates a new AdminAuthService
func NewAdminAuthService(admins AdminStore, blacklist repository.TokenBlacklist, secret string) *AdminAuthService {
	return &AdminAuthService{admins: admins, blacklist: blacklist, secret: secret, now: time.Now}
}

// Login checks email and password and issues a token
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*AdminSession, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if !admin.IsActive {
		return nil, ErrAdminInactive
	}
	if !utils.CheckPassword(password, admin.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, expiresAt, err := utils.GenerateAdminToken(admin.ID, s.secret, now)
	if err != nil {
		return nil, fmt.Errorf("sign admin token: %w", err)
	}
	if err := s.admins.TouchLastLogin(ctx, admin, now); err != nil {
		utils.LogError("Failed to update last login for admin %s: %v", admin.Email, err)
	}

	return &AdminSession{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// Authenticate resolves a token to an active admin
func (s *AdminAuthService) Authenticate(ctx context.Context, token string) (*models.Admin, error) {
	claims, err := utils.ParseAdminToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return nil, utils.ServiceUnavailableError("Token blacklist unavailable", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	admin, err := s.admins.GetByID(ctx, claims.AdminID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if !admin.IsActive {
		return nil, ErrAdminInactive
	}
	return admin, nil
}

// Logout revokes token until it would have expired
func (s *AdminAuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseAdminToken(token, s.secret)
	if err != nil {
		// Nothing to revoke for a token that no longer verifies.
		return nil
	}
	return s.blacklist.Revoke(ctx, token, claims.ExpiresAt)
}

// SeedAdmin creates or refreshes an admin account from startup settings
func (s *AdminAuthService) SeedAdmin(ctx context.Context, email, password, firstName, lastName string) (*models.Admin, error) {
	if ok, msg := utils.ValidateEmail(email); !ok {
		return nil, errors.New(msg)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.Admin{
		Email:     email,
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}
	if err := s.admins.Upsert(ctx, admin); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return admin, nil
}
