package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/umar-essayed/Courses-backend/config"
	"github.com/umar-essayed/Courses-backend/db"
	"github.com/umar-essayed/Courses-backend/internal/auth/cache"
	"github.com/umar-essayed/Courses-backend/internal/auth/handler"
	"github.com/umar-essayed/Courses-backend/internal/auth/password"
	repo "github.com/umar-essayed/Courses-backend/internal/auth/repository/postgres"
	"github.com/umar-essayed/Courses-backend/internal/auth/service"
	"github.com/umar-essayed/Courses-backend/internal/auth/throttle"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	userRepo := repo.NewUserRepository(dbPool)
	tokenRepo := repo.NewRefreshTokenRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	hasher := password.NewHasher(cfg.BcryptCost)
	loginThrottle := throttle.NewLoginThrottle(redisClient, cfg.LoginMaxAttempts, time.Duration(cfg.LockoutWindowMin)*time.Minute)
	identityCache := cache.NewIdentityCache(redisClient)
	userService := service.NewUserService(userRepo, tokenRepo, tokenService, hasher, loginThrottle, identityCache, cfg)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
