package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

type UserUsecase struct {
	repo   repository.UserRepository
	tokens *TokenIssuer
	cal    Calendar
}

func NewUserUsecase(repo repository.UserRepository, tokens *TokenIssuer, cal Calendar) *UserUsecase {
	return &UserUsecase{repo: repo, tokens: tokens, cal: cal}
}

func (u *UserUsecase) Register(ctx context.Context, name, email, username, password, role string) (*model.User, error) {
	if !model.IsValidRole(role) {
		return nil, NewValidationError("role", "must be partner, staff or article")
	}
	if len(password) < minPasswordLength {
		return nil, NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	// 1. Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 2. Save user
	user := model.User{
		Name:     name,
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := u.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("username or email already taken")
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserUsecase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, NewValidationError("username", "username and password are required")
	}

	// 1. Find the user by username
	user, err := u.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}

	// 2. Compare password against the stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	// 3. Sign the session token
	token, expires, err := u.tokens.Issue(SessionOf(user), u.cal.Time())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	logger.Info("auth.login", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: expires, User: *user}, nil
}

func (u *UserUsecase) Me(ctx context.Context, s model.Session) (*model.User, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := u.repo.GetByID(ctx, s.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user")
	}
	return user, err
}

func (u *UserUsecase) ChangePassword(ctx context.Context, s model.Session, current, next string) error {
	if s.UserID == 0 {
		return ErrUnauthorized
	}
	if len(next) < minPasswordLength {
		return NewValidationError("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	// 1. Verify current password
	user, err := u.repo.GetByID(ctx, s.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("user")
	}
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return fmt.Errorf("%w: incorrect current password", ErrUnauthorized)
	}

	// 2. Hash new password
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// 3. Update DB
	if err := u.repo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}
	logger.Info("auth.password_changed", "user_id", user.ID)
	return nil
}

// Refresh reissues a token for a still-valid session.
func (u *UserUsecase) Refresh(s model.Session) (string, time.Time, error) {
	return u.tokens.Issue(s, u.cal.Time())
}

func SessionOf(user *model.User) model.Session {
	return model.Session{UserID: user.ID, Name: user.Name, Role: user.Role}
}
