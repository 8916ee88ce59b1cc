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

	"github.com/joho/godotenv"

	"github.com/shermerautomation/hems-scheduler/internal/config"
	"github.com/shermerautomation/hems-scheduler/internal/db"
	"github.com/shermerautomation/hems-scheduler/internal/handler"
	"github.com/shermerautomation/hems-scheduler/internal/model"
	"github.com/shermerautomation/hems-scheduler/internal/repository"
	"github.com/shermerautomation/hems-scheduler/internal/service"
)

func main() {
	// 1. Загружаем .env (если есть) и конфиг из окружения.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	quarterRepo := repository.NewGormQuarterRepository(gormDB)
	slotRepo := repository.NewGormSlotRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	adminRepo := repository.NewGormAdminRepository(gormDB)

	// 5. Сервисы.
	ledgerSvc := service.NewLedgerService(gormDB)
	catalogSvc := service.NewCatalogService(gormDB, quarterRepo, slotRepo)
	registrationSvc := service.NewRegistrationService(quarterRepo, slotRepo, bookingRepo, ledgerSvc)
	adminSvc := service.NewAdminService(ledgerSvc, bookingRepo, quarterRepo)
	exportSvc := service.NewExportService(ledgerSvc)
	authSvc := service.NewAuthService(adminRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLMin)*time.Minute)

	// 6. Стартовый администратор, если базу подняли впервые.
	if err := authSvc.EnsureDefaultAdmin(context.Background(), cfg.AdminUser, cfg.AdminPass, cfg.AdminEmail); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// 7. HTTP-сервер.
	h := handler.NewHandler(catalogSvc, registrationSvc, adminSvc, exportSvc, authSvc)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Router(),
	}

	log.Printf("scheduler HTTP server listening on %s", cfg.HTTPAddr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
