package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kakao-login/internal/domain"
	"kakao-login/internal/repository"
)

// UserService coordina reglas de negocio para usuarios de Kakao.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	now    func() time.Time
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger: logger,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ResolveKakaoUser crea el usuario en su primer login y devuelve el
// existente en los siguientes. Email e imagen no se sobrescriben.
func (s *UserService) ResolveKakaoUser(ctx context.Context, profile domain.KakaoProfile) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, fmt.Errorf("%w: user service not configured", ErrStorage)
	}

	providerID := strings.TrimSpace(profile.ID)
	if providerID == "" {
		return domain.User{}, fmt.Errorf("%w: kakao profile without id", ErrUpstreamAuth)
	}

	email := normalizeEmail(profile.Email)
	if email == "" {
		// Sin email solo puede entrar un usuario que ya existe.
		existing, err := s.users.GetByProviderID(ctx, providerID)
		if err == nil {
			return existing, nil
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, fmt.Errorf("%w: kakao account email missing", ErrUpstreamAuth)
		}
		return domain.User{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	now := s.now()
	user, err := s.users.UpsertByProviderID(ctx, domain.User{
		ID:              uuid.NewString(),
		ProviderID:      providerID,
		Email:           email,
		ProfileImageURL: strings.TrimSpace(profile.ProfileImageURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		s.logger.Warn("upsert kakao user failed", zap.String("provider_id", providerID), zap.Error(err))
		return domain.User{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return user, nil
}

func (s *UserService) GetByProviderID(ctx context.Context, providerID string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, fmt.Errorf("%w: user service not configured", ErrStorage)
	}
	user, err := s.users.GetByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return user, nil
}

// Ping verifica conectividad con el almacén de usuarios.
func (s *UserService) Ping(ctx context.Context) error {
	if s.users == nil {
		return fmt.Errorf("%w: user service not configured", ErrStorage)
	}
	if err := s.users.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
