// Package app arma el grafo de dependencias compartido por el servidor web y la CLI.
package app

import (
	"fmt"

	"github.com/dayhom/profit-dashboard/internal/application/auth"
	"github.com/dayhom/profit-dashboard/internal/application/profit"
	"github.com/dayhom/profit-dashboard/internal/application/skucost"
	"github.com/dayhom/profit-dashboard/internal/application/wizard"
	"github.com/dayhom/profit-dashboard/internal/infrastructure/backend"
	infrapdf "github.com/dayhom/profit-dashboard/internal/infrastructure/pdf"
	"github.com/dayhom/profit-dashboard/internal/infrastructure/storage"
	"github.com/dayhom/profit-dashboard/pkg/config"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

// App casos de uso listos para usar, todos sobre el mismo Token Store.
type App struct {
	Sessions *storage.SessionStore
	Auth     *auth.AuthUseCase
	Wizard   *wizard.Controller
	Profit   *profit.UseCase
	SkuCost  *skucost.UseCase
}

// New abre el almacenamiento local y conecta los clientes del backend. Un 401/403 en
// cualquier endpoint protegido cierra la sesión en un único lugar.
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	fs, err := storage.NewFileStore(cfg.Store.Path, cfg.Store.Secret)
	if err != nil {
		return nil, fmt.Errorf("app: abrir almacenamiento: %w", err)
	}
	sessions := storage.NewSessionStore(fs)
	reports := storage.NewReportStore(fs)

	client := backend.NewClient(backend.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Tokens:  sessions,
		Logger:  log,
	})

	authClient := backend.NewAuthClient(client, cfg.API.HealthTimeout)
	uploads := backend.NewUploadClient(client)
	skus := backend.NewSkuClient(client)
	profits := backend.NewProfitClient(client)

	wiz := wizard.NewController(wizard.Deps{
		Uploads:           uploads,
		SKUs:              skus,
		Profit:            profits,
		Reports:           reports,
		Logger:            log,
		UpsertConcurrency: cfg.Wizard.UpsertConcurrency,
	})

	authUC := auth.NewAuthUseCase(authClient, sessions, log)
	// Cerrar sesión, a mano o por un 401/403, descarta el asistente y el último reporte.
	authUC.OnLogout(wiz.Reset)
	client.SetOnUnauthorized(func() {
		log.Warn().Msg("el backend rechazó el token, se cierra la sesión")
		if err := authUC.Logout(); err != nil {
			log.Error().Err(err).Msg("no se pudo cerrar la sesión")
		}
	})

	return &App{
		Sessions: sessions,
		Auth:     authUC,
		Wizard:   wiz,
		Profit:   profit.NewUseCase(profits, infrapdf.NewReportPDFGenerator()),
		SkuCost:  skucost.NewUseCase(skus),
	}, nil
}
