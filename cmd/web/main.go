// /cmd/web/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/config"
	"github.com/freit4sdev/urbanfood/internal/database"
	"github.com/freit4sdev/urbanfood/internal/handler"
	"github.com/freit4sdev/urbanfood/internal/logger"
	"github.com/freit4sdev/urbanfood/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Erro ao iniciar o logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if !cfg.EnvFileLoaded {
		zlog.Warn("Arquivo .env não encontrado, usando apenas variáveis de ambiente.")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("Falha ao conectar ao banco de dados", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if err := database.SeedAdmin(db, zlog); err != nil {
		zlog.Fatal("Falha ao criar administrador padrão", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	carts := cart.NewRegistry()
	go carts.Run(ctx, time.Hour, handler.SessionMaxAge, func(n int) {
		if n > 0 {
			zlog.Info("Carrinhos expirados descartados", zap.Int("count", n))
		}
	})

	deps := handler.Deps{
		DB:              db,
		Log:             zlog,
		Metrics:         metrics.New(),
		Store:           handler.NewSessionStore(cfg.SessionSecret, cfg.IsProduction()),
		Carts:           carts,
		FreeTransitions: cfg.FreeStatusTransitions,
		PixKey:          cfg.PixKey,
		CORSOrigins:     cfg.CORSOrigins,
	}
	router := handler.NewRouter(deps, handler.NewHandlers(deps))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Servidor rodando", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Erro no servidor HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Encerrando o servidor...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Erro ao encerrar o servidor", zap.Error(err))
	}
}
