package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/auth"
	"github.com/dayhom/profit-dashboard/internal/application/profit"
	"github.com/dayhom/profit-dashboard/internal/application/skucost"
	"github.com/dayhom/profit-dashboard/internal/application/wizard"
	"github.com/dayhom/profit-dashboard/internal/domain/repository"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	Sessions       repository.SessionRepository
	Wizard         *wizard.Controller
	Profit         *profit.UseCase
	SkuCost        *skucost.UseCase
	MaxUploadBytes int64
	Logger         *logger.Logger
}

// Router registra páginas y API local. Todo lo que se registra después del guard
// exige sesión.
func Router(app *fiber.App, deps RouterDeps) error {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	view, err := newRenderer()
	if err != nil {
		return fmt.Errorf("http: router: %w", err)
	}

	authHandler := newAuthHandler(deps.AuthUC, view)
	wizardHandler := newWizardHandler(deps, view)
	profitHandler := newProfitHandler(deps.Profit, deps.AuthUC, view)
	skuCostHandler := newSkuCostHandler(deps.SkuCost, deps.AuthUC, view)

	// Públicas
	guest := RedirectIfLoggedIn(deps.Sessions)
	app.Get("/login", guest, authHandler.LoginPage)
	app.Post("/login", guest, authHandler.Login)
	app.Get("/register", guest, authHandler.RegisterPage)
	app.Post("/register", guest, authHandler.Register)
	app.Get("/api/backend/health", authHandler.BackendHealth)

	// Protegidas (token en el Token Store)
	protected := app.Group("/", RequireSession(deps.Sessions))
	protected.Post("/logout", authHandler.Logout)

	protected.Get("/", wizardHandler.Dashboard)
	w := protected.Group("/wizard")
	w.Post("/start", wizardHandler.Start)
	w.Post("/orders", wizardHandler.Orders)
	w.Post("/settlement", wizardHandler.Settlement)
	w.Post("/costs", wizardHandler.Costs)
	w.Post("/reset", wizardHandler.Reset)

	rep := protected.Group("/report")
	rep.Get("/sku.csv", wizardHandler.SKUCSV)
	rep.Get("/sku-detailed.csv", wizardHandler.DetailedCSV)
	rep.Get("/print.pdf", wizardHandler.PrintPDF)

	protected.Get("/profit", profitHandler.Page)
	protected.Get("/profit/sku.csv", profitHandler.SKUCSV)
	protected.Get("/sku-cost", skuCostHandler.Page)
	protected.Post("/sku-cost", skuCostHandler.Save)

	api := protected.Group("/api")
	api.Get("/session", authHandler.Session)
	api.Get("/wizard", wizardHandler.State)
	api.Get("/profit", profitHandler.Summary)
	api.Get("/sku-costs", skuCostHandler.List)
	api.Put("/sku-costs", skuCostHandler.Upsert)

	return nil
}
