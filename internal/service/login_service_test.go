package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"kakao-login/internal/domain"
	"kakao-login/internal/kakao"
)

type fakeProvider struct {
	exchangeErr   error
	profileErr    error
	profile       domain.KakaoProfile
	block         bool
	exchangeCalls int
	profileCalls  int
	lastCode      string
	lastToken     string
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, code string) (kakao.Token, error) {
	f.exchangeCalls++
	f.lastCode = code
	if f.block {
		<-ctx.Done()
		return kakao.Token{}, ctx.Err()
	}
	if f.exchangeErr != nil {
		return kakao.Token{}, f.exchangeErr
	}
	return kakao.Token{AccessToken: "tok1", TokenType: "bearer"}, nil
}

func (f *fakeProvider) FetchProfile(_ context.Context, accessToken string) (domain.KakaoProfile, error) {
	f.profileCalls++
	f.lastToken = accessToken
	if f.profileErr != nil {
		return domain.KakaoProfile{}, f.profileErr
	}
	return f.profile, nil
}

func newTestLoginService(t *testing.T, provider Provider, repo *mockUserRepo) *LoginService {
	t.Helper()
	sessions, err := NewJWTService("secret", time.Hour)
	if err != nil {
		t.Fatalf("new jwt service: %v", err)
	}
	return NewLoginService(zap.NewNop(), provider, NewUserService(zap.NewNop(), repo), sessions, 50*time.Millisecond)
}

func assertFailedAt(t *testing.T, err error, state LoginState, kind error) {
	t.Helper()
	var loginErr *LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("expected *LoginError, got %v", err)
	}
	if loginErr.State != state {
		t.Fatalf("expected failure after %s, got %s", state, loginErr.State)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func TestLoginServiceCompleteLogin_Success(t *testing.T) {
	provider := &fakeProvider{profile: domain.KakaoProfile{ID: "999", Email: "a@b.com"}}
	repo := newMockUserRepo()
	svc := newTestLoginService(t, provider, repo)

	result, err := svc.CompleteLogin(context.Background(), " abc123 ")
	if err != nil {
		t.Fatalf("complete login: %v", err)
	}
	if provider.lastCode != "abc123" || provider.lastToken != "tok1" {
		t.Fatalf("unexpected provider calls: code=%q token=%q", provider.lastCode, provider.lastToken)
	}
	if result.User.ProviderID != "999" || result.Session.Value == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	claims, err := svc.sessions.Parse(result.Session.Value)
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}
	if claims.KakaoID != "999" {
		t.Fatalf("expected identity key 999 in token, got %q", claims.KakaoID)
	}
	if repo.count() != 1 {
		t.Fatalf("expected 1 user, got %d", repo.count())
	}
}

func TestLoginServiceCompleteLogin_MissingCode(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestLoginService(t, provider, newMockUserRepo())

	_, err := svc.CompleteLogin(context.Background(), "  ")
	assertFailedAt(t, err, StateReceived, ErrInput)
	if provider.exchangeCalls != 0 {
		t.Fatalf("expected no exchange call")
	}
}

func TestLoginServiceCompleteLogin_ExchangeRejected(t *testing.T) {
	provider := &fakeProvider{exchangeErr: kakao.ErrTokenExchange}
	repo := newMockUserRepo()
	svc := newTestLoginService(t, provider, repo)

	_, err := svc.CompleteLogin(context.Background(), "abc123")
	assertFailedAt(t, err, StateReceived, ErrUpstreamAuth)
	if provider.profileCalls != 0 {
		t.Fatalf("expected no profile call")
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no store write, got %d", repo.upserts)
	}
}

func TestLoginServiceCompleteLogin_ExchangeTimeout(t *testing.T) {
	provider := &fakeProvider{block: true}
	repo := newMockUserRepo()
	svc := newTestLoginService(t, provider, repo)

	_, err := svc.CompleteLogin(context.Background(), "abc123")
	assertFailedAt(t, err, StateReceived, ErrUpstreamAuth)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no store write")
	}
}

func TestLoginServiceCompleteLogin_MalformedProfile(t *testing.T) {
	provider := &fakeProvider{profileErr: kakao.ErrMalformedProfile}
	repo := newMockUserRepo()
	svc := newTestLoginService(t, provider, repo)

	_, err := svc.CompleteLogin(context.Background(), "abc123")
	assertFailedAt(t, err, StateCodeExchanged, ErrUpstreamAuth)
	if repo.upserts != 0 {
		t.Fatalf("expected no store write, got %d", repo.upserts)
	}
}

func TestLoginServiceCompleteLogin_ProfileWithoutID(t *testing.T) {
	provider := &fakeProvider{profile: domain.KakaoProfile{Email: "a@b.com"}}
	repo := newMockUserRepo()
	svc := newTestLoginService(t, provider, repo)

	_, err := svc.CompleteLogin(context.Background(), "abc123")
	assertFailedAt(t, err, StateCodeExchanged, ErrUpstreamAuth)
	if repo.upserts != 0 {
		t.Fatalf("expected no store write, got %d", repo.upserts)
	}
}

func TestLoginServiceCompleteLogin_StorageFailure(t *testing.T) {
	provider := &fakeProvider{profile: domain.KakaoProfile{ID: "999", Email: "a@b.com"}}
	repo := newMockUserRepo()
	repo.err = errors.New("no reachable servers")
	svc := newTestLoginService(t, provider, repo)

	_, err := svc.CompleteLogin(context.Background(), "abc123")
	assertFailedAt(t, err, StateProfileFetched, ErrStorage)
}
