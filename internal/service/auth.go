package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oraclearcade/tictactoe-backend/internal/apperror"
	"github.com/oraclearcade/tictactoe-backend/internal/entity"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	VerifyToken(token string) (string, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type authService struct {
	secretKey string
	users     userRepo
}

func NewAuthService(secretKey string, users userRepo) AuthService {
	return &authService{
		secretKey: secretKey,
		users:     users,
	}
}

func (that *authService) Register(ctx context.Context, email, password, name string) (*entity.User, string, error) {
	_, err := that.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", fmt.Errorf("%w: %s", apperror.ErrEmailAlreadyTaken, email)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err = that.users.Save(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to save user: %w", err)
	}

	token, err := that.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (that *authService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := that.users.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, "", apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperror.ErrInvalidCredentials
	}

	token, err := that.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// VerifyToken checks the signature and expiry and returns the user id carried
// in the subject claim.
func (that *authService) VerifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(that.secretKey), nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %w", apperror.ErrUnauthorized, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: token carries no subject", apperror.ErrUnauthorized)
	}

	return subject, nil
}

func (that *authService) generateToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(that.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
