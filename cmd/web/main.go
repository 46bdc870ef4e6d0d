package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/dayhom/profit-dashboard/docs"
	"github.com/dayhom/profit-dashboard/internal/app"
	httpRouter "github.com/dayhom/profit-dashboard/internal/interfaces/http"
	"github.com/dayhom/profit-dashboard/pkg/config"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

// @title        Profit Dashboard API
// @version      1.0
// @description  API local del panel de rentabilidad para vendedores de Amazon.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando aplicación")

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}

	// Recupera el último reporte para que un reinicio no lo pierda.
	if st := a.Wizard.Resume(); st.Report != nil {
		log.Info().Str("step", st.Step.String()).Msg("reporte anterior recuperado")
	}

	// Las subidas viajan en el cuerpo del formulario; se deja margen para los campos multipart.
	bodyLimit := int(cfg.Upload.MaxBytes()) + 1<<20
	srv := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: cfg.API.Timeout + time.Second*30,
		IdleTimeout:  time.Second * 60,
	})
	srv.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	srv.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Profit Dashboard API",
	}))

	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if err := httpRouter.Router(srv, httpRouter.RouterDeps{
		AuthUC:         a.Auth,
		Sessions:       a.Sessions,
		Wizard:         a.Wizard,
		Profit:         a.Profit,
		SkuCost:        a.SkuCost,
		MaxUploadBytes: cfg.Upload.MaxBytes(),
		Logger:         log,
	}); err != nil {
		log.Fatal().Err(err).Msg("registrar rutas")
	}

	go func() {
		if err := srv.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
