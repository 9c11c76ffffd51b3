package api

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/ticklist/ticklist/internal/repository"
)

type APIConfig struct {
	db         *gorm.DB
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	tasks      *repository.TaskRepository

	port     string
	dbPath   string
	platform string
	secret   string

	emailValidator EmailValidator
	logger         *slog.Logger
}

// LoadEnvConfig reads configuration from an optional .env file and the
// environment. The database is not opened here; call ConnectDB (or UseDB in
// tests) before serving.
func LoadEnvConfig(envPath string) *APIConfig {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &APIConfig{
		port:     envOrDefault("PORT", "8080"),
		dbPath:   envOrDefault("DATABASE_PATH", "ticklist.db"),
		platform: os.Getenv("PLATFORM"),
		secret:   os.Getenv("SECRET"),
	}

	switch os.Getenv("EMAIL_VALIDATOR") {
	case "abstract":
		cfg.emailValidator = NewAbstractEmailValidator(os.Getenv("ABSTRACT_EMAIL_API_KEY"), nil)
	default:
		cfg.emailValidator = RegexEmailValidator{}
	}

	switch os.Getenv("SLOG_LEVEL") {
	case "DEBUG":
		cfg.NewLogger(slog.LevelDebug)
	case "WARN":
		cfg.NewLogger(slog.LevelWarn)
	case "ERROR":
		cfg.NewLogger(slog.LevelError)
	default:
		cfg.NewLogger(slog.LevelInfo)
	}

	return cfg
}

func (cfg *APIConfig) NewLogger(level slog.Level) {
	cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout,
		&slog.HandlerOptions{Level: level}))
	slog.SetDefault(cfg.logger)
}

// ConnectDB opens the configured SQLite database and runs migrations.
func (cfg *APIConfig) ConnectDB() error {
	db, err := repository.NewDB(cfg.dbPath)
	if err != nil {
		return err
	}
	cfg.UseDB(db)
	return nil
}

// UseDB wires an already-open database into the config. Tests use this with
// an in-memory SQLite handle.
func (cfg *APIConfig) UseDB(db *gorm.DB) {
	cfg.db = db
	cfg.users = repository.NewUserRepository(db)
	cfg.categories = repository.NewCategoryRepository(db)
	cfg.tasks = repository.NewTaskRepository(db)
}

// Addr is the listen address for the HTTP server.
func (cfg *APIConfig) Addr() string {
	return ":" + cfg.port
}

// devMode reports whether technical error detail may leak into responses.
func (cfg *APIConfig) devMode() bool {
	return cfg.platform == "dev"
}

func envOrDefault(envVar string, defaultVal string) string {
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}
