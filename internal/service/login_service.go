package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"kakao-login/internal/domain"
	"kakao-login/internal/kakao"
)

const defaultStepTimeout = 5 * time.Second

// LoginState es el paso alcanzado por un callback de Kakao.
type LoginState string

const (
	StateReceived       LoginState = "received"
	StateCodeExchanged  LoginState = "code_exchanged"
	StateProfileFetched LoginState = "profile_fetched"
	StateUserResolved   LoginState = "user_resolved"
	StateTokenIssued    LoginState = "token_issued"
	StateResponded      LoginState = "responded"
	StateFailed         LoginState = "failed"
)

// Provider abstrae las dos llamadas a Kakao que hace el callback.
type Provider interface {
	ExchangeCode(ctx context.Context, code string) (kakao.Token, error)
	FetchProfile(ctx context.Context, accessToken string) (domain.KakaoProfile, error)
}

type LoginResult struct {
	User    domain.User
	Profile domain.KakaoProfile
	Session SessionToken
}

// LoginError indica en qué estado se cortó el flujo.
type LoginError struct {
	State LoginState
	Err   error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("kakao login failed after %s: %v", e.State, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// LoginService ejecuta el canje del código, el perfil, el upsert y la emisión
// del token, en ese orden y sin reintentos: el código de Kakao es de un solo uso.
type LoginService struct {
	logger      *zap.Logger
	provider    Provider
	users       *UserService
	sessions    *JWTService
	stepTimeout time.Duration
}

func NewLoginService(logger *zap.Logger, provider Provider, users *UserService, sessions *JWTService, stepTimeout time.Duration) *LoginService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stepTimeout <= 0 {
		stepTimeout = defaultStepTimeout
	}
	return &LoginService{
		logger:      logger,
		provider:    provider,
		users:       users,
		sessions:    sessions,
		stepTimeout: stepTimeout,
	}
}

func (s *LoginService) CompleteLogin(ctx context.Context, code string) (LoginResult, error) {
	state := StateReceived
	fail := func(err error) (LoginResult, error) {
		return LoginResult{}, &LoginError{State: state, Err: err}
	}
	advance := func(next LoginState) {
		state = next
		s.logger.Debug("kakao login state", zap.String("state", string(state)))
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return fail(fmt.Errorf("%w: missing authorization code", ErrInput))
	}
	if s.provider == nil || s.users == nil || s.sessions == nil {
		return fail(fmt.Errorf("%w: login service not configured", ErrConfig))
	}

	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	token, err := s.provider.ExchangeCode(stepCtx, code)
	cancel()
	if err != nil {
		return fail(fmt.Errorf("%w: exchange code: %w", ErrUpstreamAuth, err))
	}
	advance(StateCodeExchanged)

	stepCtx, cancel = context.WithTimeout(ctx, s.stepTimeout)
	profile, err := s.provider.FetchProfile(stepCtx, token.AccessToken)
	cancel()
	if err != nil {
		return fail(fmt.Errorf("%w: fetch profile: %w", ErrUpstreamAuth, err))
	}
	if strings.TrimSpace(profile.ID) == "" {
		return fail(fmt.Errorf("%w: fetch profile: missing id", ErrUpstreamAuth))
	}
	advance(StateProfileFetched)

	stepCtx, cancel = context.WithTimeout(ctx, s.stepTimeout)
	user, err := s.users.ResolveKakaoUser(stepCtx, profile)
	cancel()
	if err != nil {
		return fail(err)
	}
	advance(StateUserResolved)

	session, err := s.sessions.Issue(user.ProviderID)
	if err != nil {
		return fail(fmt.Errorf("issue session token: %w", err))
	}
	advance(StateTokenIssued)

	return LoginResult{
		User:    user,
		Profile: profile,
		Session: session,
	}, nil
}
