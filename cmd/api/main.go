package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kakao-login/internal/config"
	"kakao-login/internal/db"
	apihttp "kakao-login/internal/http"
	"kakao-login/internal/kakao"
	"kakao-login/internal/repository"
	"kakao-login/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	users, closeStore, err := openUserStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("user store", zap.String("store", cfg.UserStore), zap.Error(err))
	}
	defer closeStore()

	jwtSvc, err := service.NewJWTService(cfg.JWTSecret, cfg.SessionTTL())
	if err != nil {
		logger.Fatal("session signer", zap.Error(err))
	}

	kakaoClient := kakao.NewClient(kakao.Config{
		ClientID:     cfg.KakaoClientID,
		ClientSecret: cfg.KakaoClientSecret,
		RedirectURI:  cfg.RedirectURI,
		AuthURL:      cfg.KakaoAuthURL,
		TokenURL:     cfg.KakaoTokenURL,
		UserInfoURL:  cfg.KakaoUserInfoURL,
		Scopes:       cfg.KakaoScopes,
	}, nil)

	userSvc := service.NewUserService(logger, users)
	loginSvc := service.NewLoginService(logger, kakaoClient, userSvc, jwtSvc, cfg.UpstreamTimeout)
	authHandler := apihttp.NewAuthHandler(logger, kakaoClient, loginSvc, userSvc, apihttp.CookieConfig{
		Name:   apihttp.DefaultSessionCookie,
		Secure: cfg.CookieSecure,
	})
	router := apihttp.NewRouter(logger, authHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.UserStore))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openUserStore abre el almacén configurado y asegura su índice/esquema único.
func openUserStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.UserRepository, func(), error) {
	switch cfg.UserStore {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPgUserRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	default:
		client, err := db.NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMongoUserRepository(client.Database(cfg.MongoDBName))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("mongo disconnect", zap.Error(err))
			}
		}
		return repo, closeFn, nil
	}
}
