package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env         string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Permissions PermissionsConfig
	Audit       AuditConfig
	Logging     LoggingConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807
	SPADir  string // diretório do build do front end; vazio desativa o shell
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	Debug       bool
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// AuthConfig contém os destinos de redirecionamento dos guards
type AuthConfig struct {
	LoginPath        string `validate:"required,startswith=/"`
	AccessDeniedPath string `validate:"required,startswith=/"`
	TenantSelectPath string `validate:"required,startswith=/"`
	CookieName       string // cookie com o token para navegações de página (sem header Authorization)
}

// PermissionsConfig aponta para o arquivo da tabela de permissões.
// Vazio usa a tabela embutida.
type PermissionsConfig struct {
	File string
}

type AuditConfig struct {
	Enabled       bool
	RetentionDays int `validate:"gte=0"`
}

type LoggingConfig struct {
	Level string `validate:"omitempty,oneof=debug info warn error"`
}

type CORSConfig struct {
	AllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("AUTH_LOGIN_PATH", "/login")
	v.SetDefault("AUTH_ACCESS_DENIED_PATH", "/access-denied")
	v.SetDefault("AUTH_TENANT_SELECT_PATH", "/select-pharmacy")
	v.SetDefault("AUTH_COOKIE_NAME", "access_token")
	v.SetDefault("AUDIT_ENABLED", false)
	v.SetDefault("AUDIT_RETENTION_DAYS", 90)
}

// Load carrega as configurações do ambiente (e do arquivo .env, se existir)
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
			SPADir:  v.GetString("SPA_DIR"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			Debug:       v.GetBool("DB_DEBUG"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
		Auth: AuthConfig{
			LoginPath:        v.GetString("AUTH_LOGIN_PATH"),
			AccessDeniedPath: v.GetString("AUTH_ACCESS_DENIED_PATH"),
			TenantSelectPath: v.GetString("AUTH_TENANT_SELECT_PATH"),
			CookieName:       v.GetString("AUTH_COOKIE_NAME"),
		},
		Permissions: PermissionsConfig{
			File: v.GetString("PERMISSIONS_FILE"),
		},
		Audit: AuditConfig{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// IsProduction verifica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
