package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	API      APIConfig
	HTTP     HTTPConfig
	Store    StoreConfig
	Upload   UploadConfig
	Wizard   WizardConfig
	LogLevel string
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig configuración del backend de rentabilidad (servicio externo).
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration // peticiones normales
	HealthTimeout time.Duration // /health debe fallar rápido
}

// HTTPConfig configuración del servidor web local.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig almacenamiento local durable (token, email, último reporte).
// Si Secret no está vacío los valores se cifran en disco.
type StoreConfig struct {
	Path   string
	Secret string
}

// UploadConfig límites para los CSV de órdenes y liquidaciones.
type UploadConfig struct {
	MaxMB int
}

// MaxBytes devuelve el límite en bytes.
func (c UploadConfig) MaxBytes() int64 {
	return int64(c.MaxMB) << 20
}

// WizardConfig parámetros del asistente de carga.
type WizardConfig struct {
	UpsertConcurrency int // guardados de costo por SKU en paralelo
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, HTTP_PORT, STORE_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// VITE_API_BASE_URL es el nombre heredado del cliente web anterior.
	baseURL := getString(v, "API_BASE_URL", "")
	if baseURL == "" {
		baseURL = getString(v, "VITE_API_BASE_URL", "http://localhost:8080")
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "profit-dashboard"),
		},
		API: APIConfig{
			BaseURL:       strings.TrimRight(baseURL, "/"),
			Timeout:       time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 10)) * time.Second,
			HealthTimeout: time.Duration(getInt(v, "API_HEALTH_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 5173),
		},
		Store: StoreConfig{
			Path:   getString(v, "STORE_PATH", "./data/state.json"),
			Secret: getString(v, "STORE_SECRET", ""),
		},
		Upload: UploadConfig{
			MaxMB: getInt(v, "UPLOAD_MAX_MB", 10),
		},
		Wizard: WizardConfig{
			UpsertConcurrency: getInt(v, "COST_UPSERT_CONCURRENCY", 8),
		},
		LogLevel: getString(v, "LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate comprueba los valores que harían fallar al cliente en tiempo de ejecución.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: API_BASE_URL inválida %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 || c.API.HealthTimeout <= 0 {
		return fmt.Errorf("config: los timeouts deben ser positivos")
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("config: HTTP_PORT inválido %d", c.HTTP.Port)
	}
	if c.Upload.MaxMB <= 0 {
		return fmt.Errorf("config: UPLOAD_MAX_MB debe ser positivo")
	}
	if c.Wizard.UpsertConcurrency <= 0 {
		c.Wizard.UpsertConcurrency = 1
	}
	if c.Store.Path == "" {
		return fmt.Errorf("config: STORE_PATH requerido")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
