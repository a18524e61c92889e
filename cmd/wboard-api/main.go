package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ermnvldmr/wboard/internal/config"
	"github.com/ermnvldmr/wboard/internal/handler"
	"github.com/ermnvldmr/wboard/internal/logger"
	"github.com/ermnvldmr/wboard/internal/markdown"
	"github.com/ermnvldmr/wboard/internal/middleware"
	"github.com/ermnvldmr/wboard/internal/router"
	"github.com/ermnvldmr/wboard/internal/service"
	"github.com/ermnvldmr/wboard/internal/storage/fs"
	"github.com/ermnvldmr/wboard/internal/storage/pg"
	"github.com/ermnvldmr/wboard/internal/utils/jwt"
	"github.com/ermnvldmr/wboard/internal/viewcache"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := pg.New(cfg)
	if err != nil {
		logger.Log.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer storage.Cleanup()

	media, err := fs.New(cfg.Public.MediaDir)
	if err != nil {
		logger.Log.Error("failed to init media storage", "error", err)
		os.Exit(1)
	}

	views := viewcache.New(cfg.Public.ViewCooldown.Std())
	views.StartBackgroundSweep(ctx, cfg.Public.ViewSweepInterval.Std())

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	renderer := markdown.New()

	auth := service.NewAuth(storage, jwtService)
	posts := service.NewPost(storage, media, views, renderer)
	discussions := service.NewDiscussion(storage, storage, renderer)
	votes := service.NewVote(storage)

	h := handler.New(auth, posts, discussions, votes, media, storage, cfg)
	authMw := middleware.NewAuth(jwtService, cfg.Public.SecureCookies)
	r := router.New(h, authMw, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Public.HttpPort),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Log.Info("server started", "port", cfg.Public.HttpPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("server stopped")
}
