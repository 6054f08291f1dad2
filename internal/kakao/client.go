package kakao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"

	"kakao-login/internal/domain"
)

const (
	DefaultAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	DefaultTokenURL    = "https://kauth.kakao.com/oauth/token"
	DefaultUserInfoURL = "https://kapi.kakao.com/v2/user/me"

	maxProfileBytes = 1 << 20
)

var (
	ErrTokenExchange    = errors.New("kakao token exchange failed")
	ErrProfileFetch     = errors.New("kakao profile fetch failed")
	ErrMalformedProfile = errors.New("kakao profile malformed")
)

// Config agrupa los datos estáticos de la app registrada en Kakao.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
}

// Token es el resultado del canje del código. Solo AccessToken se usa aguas abajo.
type Token struct {
	AccessToken string
	TokenType   string
	Expiry      time.Time
}

// Client habla con kauth.kakao.com y kapi.kakao.com.
type Client struct {
	oauth       oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewClient construye el cliente; si httpClient es nil usa un cliente pooled de cleanhttp.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}
	authURL := strings.TrimSpace(cfg.AuthURL)
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	userInfoURL := strings.TrimSpace(cfg.UserInfoURL)
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}
	return &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: userInfoURL,
		httpClient:  httpClient,
	}
}

// AuthCodeURL arma la URL de autorización con client_id, redirect_uri,
// response_type=code y scope.
func (c *Client) AuthCodeURL() string {
	return c.oauth.AuthCodeURL("")
}

// ExchangeCode canjea el código de autorización por un access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.Response != nil {
			return Token{}, fmt.Errorf("%w: status=%d error=%s", ErrTokenExchange, rErr.Response.StatusCode, rErr.ErrorCode)
		}
		return Token{}, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return Token{}, fmt.Errorf("%w: empty access token", ErrTokenExchange)
	}
	return Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
	}, nil
}

// FetchProfile consulta /v2/user/me con el access token como bearer.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (domain.KakaoProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return domain.KakaoProfile{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.KakaoProfile{}, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return domain.KakaoProfile{}, fmt.Errorf("%w: read response: %w", ErrProfileFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.KakaoProfile{}, fmt.Errorf("%w: status=%d", ErrProfileFetch, resp.StatusCode)
	}

	return ParseProfile(body)
}
