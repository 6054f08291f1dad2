package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// ErrInvalidConfig se devuelve cuando falta configuración obligatoria.
var ErrInvalidConfig = errors.New("invalid config")

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"PORT" envDefault:"3000"`

	KakaoClientID     string   `env:"KAKAO_CLIENT_ID,required,notEmpty"`
	KakaoClientSecret string   `env:"KAKAO_CLIENT_SECRET"`
	RedirectURI       string   `env:"REDIRECT_URI,required,notEmpty"`
	KakaoAuthURL      string   `env:"KAKAO_AUTH_URL" envDefault:"https://kauth.kakao.com/oauth/authorize"`
	KakaoTokenURL     string   `env:"KAKAO_TOKEN_URL" envDefault:"https://kauth.kakao.com/oauth/token"`
	KakaoUserInfoURL  string   `env:"KAKAO_USER_INFO_URL" envDefault:"https://kapi.kakao.com/v2/user/me"`
	KakaoScopes       []string `env:"KAKAO_SCOPES" envSeparator:"," envDefault:"account_email"`

	UserStore   string `env:"USER_STORE" envDefault:"mongo"`
	MongoURI    string `env:"MONGODB_URI"`
	MongoDBName string `env:"MONGODB_DATABASE" envDefault:"kakao_login"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret     string `env:"JWT_SECRET,required,notEmpty"`
	JWTTTLMinutes int    `env:"JWT_TTL_MINUTES" envDefault:"60"`

	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa las combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	c.UserStore = strings.ToLower(strings.TrimSpace(c.UserStore))
	switch c.UserStore {
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("%w: MONGODB_URI is required for user store %q", ErrInvalidConfig, c.UserStore)
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for user store %q", ErrInvalidConfig, c.UserStore)
		}
	default:
		return fmt.Errorf("%w: unknown user store %q", ErrInvalidConfig, c.UserStore)
	}
	if c.JWTTTLMinutes <= 0 {
		return fmt.Errorf("%w: JWT_TTL_MINUTES must be positive", ErrInvalidConfig)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("%w: UPSTREAM_TIMEOUT must be positive", ErrInvalidConfig)
	}
	return nil
}

// SessionTTL devuelve la vigencia del token de sesión.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}
