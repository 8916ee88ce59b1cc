package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/schedule"
)

const minPasswordLen = 6

// AuthService — учётки администраторов и выдача/проверка их токенов.
// Результат проверки — Capability, которую хендлеры передают
// в административные вызовы.
type AuthService struct {
	adminRepo repository.AdminRepository
	secret    []byte
	ttl       time.Duration
}

func NewAuthService(adminRepo repository.AdminRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		secret:    []byte(secret),
		ttl:       ttl,
	}
}

type adminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login проверяет пару логин/пароль и возвращает подписанный токен.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.AdminUser, error) {
	a, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", nil, schedule.ErrInvalidCredentials
	}

	claims := adminClaims{
		Username: a.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, a, nil
}

// Verify разбирает токен и строит Capability администратора.
func (s *AuthService) Verify(tokenStr string) (Capability, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &adminClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Capability{}, schedule.ErrForbidden
	}
	claims, ok := t.Claims.(*adminClaims)
	if !ok || !t.Valid {
		return Capability{}, schedule.ErrForbidden
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Capability{}, schedule.ErrForbidden
	}
	return Capability{AdminID: id, Username: claims.Username, IsAdmin: true}, nil
}

// ChangePassword меняет пароль администратора после проверки текущего.
func (s *AuthService) ChangePassword(ctx context.Context, cap Capability, current, next string) error {
	if !cap.IsAdmin {
		return schedule.ErrForbidden
	}
	a, err := s.adminRepo.GetByID(ctx, cap.AdminID.String())
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(current)) != nil {
		return schedule.ErrInvalidCredentials
	}
	if len(next) < minPasswordLen {
		return fmt.Errorf("%w: minimum %d characters", schedule.ErrWeakPassword, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.adminRepo.UpdatePasswordHash(ctx, a.ID.String(), string(hash))
}

// EnsureDefaultAdmin создаёт стартового администратора, если их ещё нет.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password, email string) error {
	n, err := s.adminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a := &model.AdminUser{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	// Гонка двух инстансов при старте: проигравший получает дубликат
	// по username и молча уступает.
	if err := s.adminRepo.Create(ctx, a); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
