package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
	"github.com/dayhom/profit-dashboard/internal/infrastructure/csvfile"
)

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func password(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("PROFIT_PASSWORD")
}

func runRegister(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlags("register")
	email := fs.String("email", "", "email de la cuenta")
	pass := fs.String("password", "", "contraseña (o PROFIT_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p := password(*pass)
	if err := env.app.Auth.Register(ctx, dto.RegisterRequest{Email: *email, Password: p, ConfirmPassword: p}); err != nil {
		return err
	}
	fmt.Println("Cuenta creada. Ya puedes iniciar sesión.")
	return nil
}

func runLogin(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email de la cuenta")
	pass := fs.String("password", "", "contraseña (o PROFIT_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := env.app.Auth.Login(ctx, dto.LoginRequest{Email: *email, Password: password(*pass)}); err != nil {
		return err
	}
	fmt.Printf("Sesión iniciada como %s.\n", env.app.Auth.Session().DisplayName)
	return nil
}

func runLogout(_ context.Context, env *cliEnv, _ []string) error {
	if err := env.app.Auth.Logout(); err != nil {
		return err
	}
	fmt.Println("Sesión cerrada.")
	return nil
}

func runHealth(ctx context.Context, env *cliEnv, _ []string) error {
	hs, err := env.app.Auth.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Backend %s: %s\n", env.cfg.API.BaseURL, hs.Status)
	keys := make([]string, 0, len(hs.Details))
	for k := range hs.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, hs.Details[k])
	}
	return nil
}

// runWizard recorre el asistente completo en una sola invocación.
func runWizard(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlags("run")
	orders := fs.String("orders", "", "CSV de órdenes de Amazon")
	settlement := fs.String("settlement", "", "CSV de liquidación")
	costsPath := fs.String("costs", "", "YAML con el costo por SKU (SKU: costo)")
	out := exportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *orders == "" || *settlement == "" {
		return domain.NewValidationError("--orders y --settlement son obligatorios")
	}
	if !env.app.Auth.IsLoggedIn() {
		return domain.ErrNoSession
	}

	costs := map[string]string{}
	if *costsPath != "" {
		var err error
		if costs, err = readCosts(*costsPath); err != nil {
			return err
		}
	}

	maxBytes := env.cfg.Upload.MaxBytes()
	ordersFile, err := csvfile.FromPath(*orders, maxBytes)
	if err != nil {
		return err
	}
	settlementFile, err := csvfile.FromPath(*settlement, maxBytes)
	if err != nil {
		return err
	}

	wiz := env.app.Wizard
	if err := wiz.Reset(); err != nil {
		return err
	}
	if err := wiz.Start(); err != nil {
		return err
	}
	if err := wiz.UploadOrders(ctx, ordersFile); err != nil {
		return err
	}
	if s := wiz.State().OrderSummary; s != nil {
		fmt.Printf("Órdenes: %d · Ventas: %s · SKUs: %d · %s – %s\n",
			s.TotalOrders, report.FormatCurrency(s.TotalSales), s.UniqueSKUs,
			report.FormatDate(s.DateFrom), report.FormatDate(s.DateTo))
	}
	if err := wiz.UploadSettlement(ctx, settlementFile); err != nil {
		return err
	}

	st := wiz.State()
	known := make(map[string]string, len(costs))
	for sku, v := range costs {
		key := entity.NormalizeSKU(sku)
		if _, ok := st.SKUCosts[key]; !ok {
			env.log.Warn().Str("sku", sku).Msg("SKU del archivo de costos no aparece en las cargas, se ignora")
			continue
		}
		known[key] = v
	}
	if err := wiz.SetCosts(known); err != nil {
		return err
	}
	if err := wiz.SubmitCosts(ctx); err != nil {
		return err
	}

	r, skus, err := wiz.Report()
	if err != nil {
		return err
	}
	printReport(os.Stdout, report.BuildView(r, skus))
	return out.write(ctx, env, r, skus)
}

func runReport(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlags("report")
	out := exportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	env.app.Wizard.Resume()
	r, skus, err := env.app.Wizard.Report()
	if err != nil {
		return err
	}
	printReport(os.Stdout, report.BuildView(r, skus))
	return out.write(ctx, env, r, skus)
}

func runSummary(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlags("summary")
	csvPath := fs.String("csv", "", "exportar la rentabilidad por SKU a CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := env.app.Profit.Summary(ctx)
	if err != nil {
		return err
	}
	v := report.BuildSummaryView(s)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Ingresos\t%s\n", v.TotalRevenue)
	fmt.Fprintf(tw, "Costo\t%s\n", v.TotalCost)
	fmt.Fprintf(tw, "Liquidación\t%s\n", v.TotalSettlement)
	fmt.Fprintf(tw, "Ganancia\t%s (%s)\n\n", v.TotalProfit, v.Margin)
	fmt.Fprintln(tw, "SKU\tIngresos\tCosto\tGanancia\tMargen")
	for _, row := range v.SKURows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.SKU, row.Revenue, row.Cost, row.Profit, row.Margin)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if *csvPath == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := report.ExportSKUCSV(s.SkuProfits, &buf); err != nil {
		return err
	}
	return writeFile(*csvPath, buf.Bytes())
}

func runSkuCost(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlags("sku-cost")
	sku := fs.String("sku", "", "SKU a guardar")
	price := fs.String("price", "", "costo de compra")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sku != "" || *price != "" {
		entry, err := env.app.SkuCost.Save(ctx, *sku, *price)
		if err != nil {
			return err
		}
		fmt.Printf("Costo guardado: %s = %s\n", entry.SKU, report.FormatCurrency(entry.CostPrice))
		return nil
	}
	entries, err := env.app.SkuCost.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU\tCosto")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.SKU, report.FormatCurrency(e.CostPrice))
	}
	return tw.Flush()
}

// readCosts lee un YAML plano SKU → costo. Se conserva el texto literal de cada valor
// para no pasar por float.
func readCosts(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &nodes); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("%s no es un YAML válido: %v", path, err))
	}
	out := make(map[string]string, len(nodes))
	for sku, n := range nodes {
		if n.Kind != yaml.ScalarNode {
			return nil, domain.NewValidationError(fmt.Sprintf("el costo de %s debe ser un número", sku))
		}
		out[sku] = n.Value
	}
	return out, nil
}

type exportOpts struct {
	csv, detailed, pdf *string
}

func exportFlags(fs *flag.FlagSet) exportOpts {
	return exportOpts{
		csv:      fs.String("csv", "", "exportar la rentabilidad por SKU a CSV"),
		detailed: fs.String("detailed-csv", "", "exportar el detalle por SKU a CSV"),
		pdf:      fs.String("pdf", "", "exportar la versión imprimible a PDF"),
	}
}

func (o exportOpts) write(ctx context.Context, env *cliEnv, r *entity.ProfitReport, skus []string) error {
	if *o.csv != "" {
		var buf bytes.Buffer
		if err := report.ExportSKUCSV(r.SkuWiseDetails, &buf); err != nil {
			return err
		}
		if err := writeFile(*o.csv, buf.Bytes()); err != nil {
			return err
		}
	}
	if *o.detailed != "" {
		var buf bytes.Buffer
		if err := report.ExportDetailedSKUCSV(r.SkuWiseDetails, &buf); err != nil {
			return err
		}
		if err := writeFile(*o.detailed, buf.Bytes()); err != nil {
			return err
		}
	}
	if *o.pdf != "" {
		doc, _, err := env.app.Profit.PrintablePDF(ctx, r, skus)
		if err != nil {
			return err
		}
		if err := writeFile(*o.pdf, doc); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Escrito %s\n", path)
	return nil
}

func printReport(w io.Writer, v report.View) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Reporte %s – %s\n\n", v.DateFrom, v.DateTo)
	for _, m := range v.Summary {
		if m.Share != "" {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Label, m.Value, m.Share)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", m.Label, m.Value)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "SKU\tVendidas\tDevoluciones\tCosto\tLiquidación\tGanancia")
	for _, row := range v.SKURows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.SKU, row.UnitsSold, row.ReturnCount, row.CostPrice, row.Settlement, row.Profit)
	}
	_ = tw.Flush()
	if len(v.MissingSKUs) > 0 {
		fmt.Fprintf(w, "\nSin datos en el reporte: %s\n", strings.Join(v.MissingSKUs, ", "))
	}
}
