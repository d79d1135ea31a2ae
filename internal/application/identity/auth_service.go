// Package identity implements registration and token issuance.
package identity

import (
	"context"
	"errors"

	"github.com/erp/storefront/internal/domain/identity"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StaffPermissions are granted to every staff principal
var StaffPermissions = []string{"customer:read", "order:read"}

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrAccountInactive    = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	ErrUsernameTaken      = shared.NewFieldError("username", "A user with that username already exists")
	ErrInvalidRefresh     = shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
)

// NewUserInput describes an account to create
type NewUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsStaff   bool
}

// AuthService handles registration and authentication
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. events may be nil.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		events:     events,
		logger:     logger,
	}
}

// Register creates a regular account and announces it
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	user, err := s.CreateUser(ctx, NewUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// CreateUser creates an account, staff included, and publishes UserRegistered
func (s *AuthService) CreateUser(ctx context.Context, input NewUserInput) (*identity.User, error) {
	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	if err := user.SetName(input.FirstName, input.LastName); err != nil {
		return nil, err
	}
	if input.IsStaff {
		user.GrantStaff()
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Bool("is_staff", user.IsStaff),
	)

	// Notify subscribers, e.g. customer profile provisioning
	if events := user.PullDomainEvents(); s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Error("Failed to publish user events", zap.Error(err))
		}
	}
	return user, nil
}

// Login verifies the credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", req.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	tokens, err := s.jwtService.GenerateTokenPair(PrincipalFor(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	// A failed stamp must not fail the login
	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	return &TokenResponse{TokenPair: *tokens, User: ToUserResponse(user)}, nil
}

// Refresh exchanges a refresh token for a new pair. Privileges are re-read from the user.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	tokens, err := s.jwtService.GenerateTokenPair(PrincipalFor(user))
	if err != nil {
		return nil, err
	}
	return &TokenResponse{TokenPair: *tokens, User: ToUserResponse(user)}, nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// PrincipalFor builds the token principal of a user
func PrincipalFor(user *identity.User) identity.Principal {
	principal := user.Principal()
	if principal.IsStaff {
		principal.Permissions = append([]string(nil), StaffPermissions...)
	}
	return principal
}
