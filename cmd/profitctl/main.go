// profitctl ejecuta el flujo del panel de rentabilidad desde la terminal, sobre el mismo
// almacenamiento local y el mismo backend que el servidor web.
//
// Uso:
//
//	profitctl login --email ana@tienda.in --password ****
//	profitctl run --orders orders.csv --settlement settlement.csv --costs costs.yaml [--csv out.csv] [--pdf out.pdf]
//	profitctl report [--csv out.csv] [--detailed-csv out.csv] [--pdf out.pdf]
//	profitctl summary [--csv out.csv]
//	profitctl sku-cost [--sku A1 --price 120.50]
//	profitctl register | logout | health
//
// La contraseña también puede venir de PROFIT_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dayhom/profit-dashboard/internal/app"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/pkg/config"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

var commands = []command{
	{"register", "crea una cuenta en el backend", runRegister},
	{"login", "inicia sesión y guarda el token", runLogin},
	{"logout", "borra la sesión local", runLogout},
	{"health", "consulta /health del backend", runHealth},
	{"run", "sube órdenes y liquidación, guarda costos y muestra el reporte", runWizard},
	{"report", "muestra o exporta el último reporte guardado", runReport},
	{"summary", "resumen de rentabilidad del backend", runSummary},
	{"sku-cost", "lista costos o guarda uno", runSkuCost},
}

type cliEnv struct {
	cfg *config.Config
	log *logger.Logger
	app *app.App
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := lookup(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "Comando desconocido: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	// Los logs van a stderr para no mezclarse con el reporte.
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.LogLevel, Output: os.Stderr})

	a, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inicializar: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = cmd.run(ctx, &cliEnv{cfg: cfg, log: log, app: a}, os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		if domain.IsAuth(err) {
			fmt.Fprintln(os.Stderr, "Ejecuta `profitctl login` para iniciar sesión.")
		}
		os.Exit(1)
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage() {
	fmt.Fprintln(os.Stderr, "Uso: profitctl <comando> [opciones]")
	fmt.Fprintln(os.Stderr)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
	}
}

// describe mensaje para el usuario; los errores sin clasificar muestran su texto completo.
func describe(err error) string {
	if _, ok := domain.KindOf(err); ok {
		return domain.UserMessage(err)
	}
	for _, sentinel := range []error{domain.ErrBusy, domain.ErrStale, domain.ErrNoReport} {
		if errors.Is(err, sentinel) {
			return domain.UserMessage(err)
		}
	}
	return err.Error()
}
