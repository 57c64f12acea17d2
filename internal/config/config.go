package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverSheets   = "sheets"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	App         AppConfig
	Store       StoreConfig
	Spreadsheet SpreadsheetConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Leave       LeaveConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

type StoreConfig struct {
	Driver string
}

// SpreadsheetConfig locates the workbook and names its header cells.
type SpreadsheetConfig struct {
	CredentialsFile string
	CredentialsJSON string
	SpreadsheetID   string
	SpreadsheetName string
	UsageWorksheet  string
	LogWorksheet    string

	ColumnEmployeeID   string
	ColumnEmployeeName string
	ColumnPosition     string
	ColumnLeaveDate    string
	ColumnLeaveType    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	// AutoMigrate applies the embedded schema migrations on startup.
	AutoMigrate bool
}

// JWTConfig holds JWT configuration. An empty secret leaves the write
// endpoints open.
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type LeaveConfig struct {
	Types                []string
	IdentifierResolution string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Local"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.Store = StoreConfig{
		Driver: getEnv("STORE_DRIVER", StoreDriverSheets),
	}

	// Spreadsheet configuration
	config.Spreadsheet = SpreadsheetConfig{
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		SpreadsheetName: getEnv("SPREADSHEET_NAME", ""),
		UsageWorksheet:  getEnv("USAGE_WORKSHEET", "usage"),
		LogWorksheet:    getEnv("LOG_WORKSHEET", "leave_log"),

		ColumnEmployeeID:   getEnv("COLUMN_EMPLOYEE_ID", "employee_id"),
		ColumnEmployeeName: getEnv("COLUMN_EMPLOYEE_NAME", "employee_name"),
		ColumnPosition:     getEnv("COLUMN_POSITION", "position"),
		ColumnLeaveDate:    getEnv("COLUMN_LEAVE_DATE", "leave_date"),
		ColumnLeaveType:    getEnv("COLUMN_LEAVE_TYPE", "leave_type"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "leave_dashboard"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,

		AutoMigrate: autoMigrate,
	}

	// JWT configuration
	config.JWT = jwtFromEnv()

	// Leave configuration
	config.Leave = LeaveConfig{
		Types:                getEnvSlice("LEAVE_TYPES", []string{"full-day", "half-day"}),
		IdentifierResolution: getEnv("IDENTIFIER_RESOLUTION", "first"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadJWT reads only the JWT settings, for tools that sign tokens without
// touching the leave store.
func LoadJWT() (*JWTConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	config := jwtFromEnv()
	if config.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(config.AccessExpiration); err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	return &config, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

func jwtFromEnv() JWTConfig {
	return JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverSheets:
		if c.Spreadsheet.CredentialsFile == "" && c.Spreadsheet.CredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON is required")
		}
		if c.Spreadsheet.SpreadsheetID == "" && c.Spreadsheet.SpreadsheetName == "" {
			return fmt.Errorf("SPREADSHEET_ID or SPREADSHEET_NAME is required")
		}
		if c.Spreadsheet.UsageWorksheet == c.Spreadsheet.LogWorksheet {
			return fmt.Errorf("USAGE_WORKSHEET and LOG_WORKSHEET must differ")
		}
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if len(c.Leave.Types) == 0 {
		return fmt.Errorf("LEAVE_TYPES is required")
	}
	if c.Leave.IdentifierResolution != "first" && c.Leave.IdentifierResolution != "unique" {
		return fmt.Errorf("IDENTIFIER_RESOLUTION must be first or unique")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location is the time zone used for "today".
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
