package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login", "register", "dashboard", "profit", "sku_cost"}

// pageData datos comunes del layout más los de cada página.
type pageData struct {
	Title   string
	Session entity.SessionInfo
	Error   string
	Notice  string
	Form    map[string]string

	Wizard  *wizardView
	Summary *report.SummaryView
	Costs   []entity.SkuCostEntry
}

// renderer conjuntos de plantillas (layout + página) ya parseados.
type renderer struct {
	sets map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"currency": report.FormatCurrency,
	}
	r := &renderer{sets: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New(p).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("http: parsear plantilla %s: %w", p, err)
		}
		r.sets[p] = t
	}
	return r, nil
}

func (r *renderer) render(c *fiber.Ctx, status int, page string, data pageData) error {
	t, ok := r.sets[page]
	if !ok {
		return fmt.Errorf("http: plantilla desconocida %s", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("http: renderizar %s: %w", page, err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
