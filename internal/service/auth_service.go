package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/triageops/er-intake-api/internal/domain"
	"github.com/triageops/er-intake-api/internal/service/auth"
	"github.com/triageops/er-intake-api/internal/store"
)

// MinPasswordLength is the minimum allowed length for account passwords.
const MinPasswordLength = 6

// RegisterInput carries the data needed to create a new staff account.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Role     string
}

// LoginResult carries the outcome of a successful login.
type LoginResult struct {
	// Token is the signed bearer token to present on subsequent requests.
	Token string

	// Username, FullName and Role describe the authenticated account.
	Username string
	FullName string
	Role     domain.Role

	// ExpiresIn is the token validity window in seconds.
	ExpiresIn int64
}

// AuthService provides staff account and authentication operations.
type AuthService interface {
	// Login authenticates a username/password pair and issues a bearer token.
	// Returns ErrInvalidCredentials when the username is unknown or the
	// password does not match, without distinguishing the two cases.
	// Returns ErrAccountDeactivated when the account has been disabled,
	// regardless of the supplied password.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Register creates a new active staff account. Only accounts with the
	// ADMIN role may register others; actorRole is the role of the
	// authenticated caller.
	// Returns ErrAdminRequired, ErrUsernameTaken, ErrPasswordTooShort, or
	// domain validation errors, checked in that order.
	Register(ctx context.Context, actorRole domain.Role, input RegisterInput) (*domain.User, error)

	// GetUser retrieves an account by its ID.
	// Returns ErrUserNotFound if the account does not exist.
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// ListUsers retrieves all accounts, active and deactivated alike.
	// Only accounts with the ADMIN role may list; returns ErrAdminRequired
	// otherwise.
	ListUsers(ctx context.Context, actorRole domain.Role) ([]*domain.User, error)
}

// authServiceImpl implements the AuthService interface.
type authServiceImpl struct {
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	jwtService auth.JWTService
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing
	runTx      func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates a new AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	jwtService auth.JWTService,
	logger *slog.Logger,
) (AuthService, error) {
	if userStore == nil {
		return nil, NewServiceError("create_service", "userStore cannot be nil", nil)
	}
	if hasher == nil {
		return nil, NewServiceError("create_service", "hasher cannot be nil", nil)
	}
	if jwtService == nil {
		return nil, NewServiceError("create_service", "jwtService cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		userStore:  userStore,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger.With("component", "auth_service"),
		timeFunc:   time.Now,
		runTx:      store.RunInTransaction,
	}, nil
}

// Login authenticates a username/password pair and issues a bearer token.
func (s *authServiceImpl) Login(
	ctx context.Context,
	username, password string,
) (*LoginResult, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Unknown username and wrong password produce the same error
			// so callers cannot probe for existing accounts.
			s.logger.Info("login attempt for unknown username", "username", username)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up account for login",
			"error", err,
			"username", username)
		return nil, NewServiceError("login", "failed to look up account", err)
	}

	// A deactivated account is reported before the password is even
	// verified; the account's existence is already conceded by the
	// deactivation message.
	if !user.IsActive {
		s.logger.Info("login attempt against deactivated account",
			"username", username,
			"user_id", user.ID)
		return nil, ErrAccountDeactivated
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		s.logger.Info("login attempt with wrong password",
			"username", username,
			"user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user)
	if err != nil {
		s.logger.Error("failed to issue token",
			"error", err,
			"user_id", user.ID)
		return nil, NewServiceError("login", "failed to issue token", err)
	}

	s.logger.Info("login successful",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role)

	return &LoginResult{
		Token:     token,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		ExpiresIn: int64(s.jwtService.TokenLifetime().Seconds()),
	}, nil
}

// Register creates a new active staff account after validating the input
// and the caller's role.
func (s *authServiceImpl) Register(
	ctx context.Context,
	actorRole domain.Role,
	input RegisterInput,
) (*domain.User, error) {
	if actorRole != domain.RoleAdmin {
		s.logger.Info("registration attempt by non-admin",
			"actor_role", actorRole,
			"username", input.Username)
		return nil, ErrAdminRequired
	}

	if input.Username == "" {
		return nil, domain.ErrEmptyUsername
	}

	// The uniqueness pre-check and the insert run in one transaction so a
	// concurrent registration cannot slip between them. A taken username
	// is reported before any complaint about the password or role.
	var created *domain.User
	err := s.runTx(ctx, s.userStore.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		taken, err := txStore.UsernameExists(ctx, input.Username)
		if err != nil {
			s.logger.Error("failed to check username availability",
				"error", err,
				"username", input.Username)
			return NewServiceError("register", "failed to check username availability", err)
		}
		if taken {
			return ErrUsernameTaken
		}

		if len(input.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		role, err := domain.ParseRole(input.Role)
		if err != nil {
			return err
		}

		hashed, err := s.hasher.Hash(input.Password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err)
			return NewServiceError("register", "failed to hash password", err)
		}

		user := &domain.User{
			Username:       input.Username,
			HashedPassword: hashed,
			FullName:       input.FullName,
			Role:           role,
			CreatedAt:      s.timeFunc().UTC(),
			IsActive:       true,
		}
		if err := user.Validate(); err != nil {
			return err
		}

		created, err = txStore.Create(ctx, user)
		if err != nil {
			if errors.Is(err, store.ErrUsernameExists) {
				return ErrUsernameTaken
			}
			s.logger.Error("failed to create account",
				"error", err,
				"username", input.Username)
			return NewServiceError("register", "failed to create account", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		"user_id", created.ID,
		"username", created.Username,
		"role", created.Role)

	return created, nil
}

// GetUser retrieves an account by its ID.
func (s *authServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to retrieve account",
			"error", err,
			"user_id", id)
		return nil, NewServiceError("get_user", "failed to retrieve account", err)
	}
	return user, nil
}

// ListUsers retrieves all accounts. Only admins may list.
func (s *authServiceImpl) ListUsers(
	ctx context.Context,
	actorRole domain.Role,
) ([]*domain.User, error) {
	if actorRole != domain.RoleAdmin {
		return nil, ErrAdminRequired
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err)
		return nil, NewServiceError("list_users", "failed to list accounts", err)
	}
	return users, nil
}
