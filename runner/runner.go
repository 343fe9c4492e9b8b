package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Vector/usuarios-api/tlmt"
	"github.com/Vector/usuarios-api/tlmt/gonoop"
	"github.com/Vector/usuarios-api/tlmt/goposthog"
)

const (
	RunModeWeb = iota + 1
	RunModeSchema
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const (
	Version = "v1.0.0"

	defaultPosthogEndpoint = "https://eu.i.posthog.com"
)

var (
	ErrInvalidRunMode = errors.New("invalid run mode")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type Config struct {
	Addr             string
	DataFolder       string
	Storage          string
	Dsn              string
	Debug            bool
	DisableTelemetry bool
	ShutdownTimeout  time.Duration
	CORSOrigins      []string
	PosthogKey       string
	PosthogEndpoint  string
	RedisURL         string
	CacheTTL         time.Duration
	SchemaOnly       bool
	RunMode          int
}

// ParseConfig parses command line arguments (without the program name).
// Environment variables fill in values the flags left empty.
func ParseConfig(args []string) (*Config, error) {
	cfg := Config{}

	var corsOrigins string

	fs := flag.NewFlagSet("usuarios-api", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "addr", ":8080", "address to listen on for web server")
	fs.StringVar(&cfg.DataFolder, "data-folder", "webdata", "data folder for the sqlite database")
	fs.StringVar(&cfg.Storage, "storage", "", "storage backend: sqlite, postgres or memory [default: postgres when -dsn is set, sqlite otherwise]")
	fs.StringVar(&cfg.Dsn, "dsn", "", "postgres connection string [env: DATABASE_URL]")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable development logging")
	fs.BoolVar(&cfg.DisableTelemetry, "disable-telemetry", false, "disable anonymous usage telemetry [env: DISABLE_TELEMETRY=1]")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	fs.StringVar(&corsOrigins, "cors-origins", "*", "comma separated list of allowed CORS origins [env: CORS_ORIGINS]")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "redis:// URL enabling the record cache [env: REDIS_URL]")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", time.Minute, "lifetime of cached records")
	fs.BoolVar(&cfg.SchemaOnly, "schema-only", false, "create the database schema and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.Dsn == "" {
		cfg.Dsn = os.Getenv("DATABASE_URL")
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	if os.Getenv("DISABLE_TELEMETRY") == "1" {
		cfg.DisableTelemetry = true
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" && !set["cors-origins"] {
		corsOrigins = v
	}

	cfg.PosthogKey = os.Getenv("POSTHOG_API_KEY")

	cfg.PosthogEndpoint = os.Getenv("POSTHOG_ENDPOINT")
	if cfg.PosthogEndpoint == "" {
		cfg.PosthogEndpoint = defaultPosthogEndpoint
	}

	for _, o := range strings.Split(corsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if cfg.Storage == "" {
		if cfg.Dsn != "" {
			cfg.Storage = StoragePostgres
		} else {
			cfg.Storage = StorageSQLite
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.SchemaOnly {
		cfg.RunMode = RunModeSchema
	} else {
		cfg.RunMode = RunModeWeb
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageSQLite:
		if c.DataFolder == "" {
			return fmt.Errorf("%w: data folder is required for sqlite storage", ErrInvalidConfig)
		}
	case StoragePostgres:
		if c.Dsn == "" {
			return fmt.Errorf("%w: dsn must be provided for postgres storage", ErrInvalidConfig)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}

	if c.RedisURL != "" && c.CacheTTL <= 0 {
		return fmt.Errorf("%w: cache ttl must be positive", ErrInvalidConfig)
	}

	if c.Addr == "" && !c.SchemaOnly {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}

	return nil
}

// NewLogger returns a production zap logger, or a development one when debug is set.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

var (
	telemetryOnce sync.Once
	telemetry     tlmt.Telemetry
)

// SetupTelemetry picks the telemetry backend once per process. Without an api
// key, or when disabled, events are dropped.
func SetupTelemetry(cfg *Config) tlmt.Telemetry {
	telemetryOnce.Do(func() {
		if cfg == nil || cfg.DisableTelemetry || cfg.PosthogKey == "" {
			telemetry = gonoop.New()

			return
		}

		val, err := goposthog.New(cfg.PosthogKey, cfg.PosthogEndpoint)
		if err != nil || val == nil {
			telemetry = gonoop.New()

			return
		}

		telemetry = val
	})

	return telemetry
}

// Telemetry returns the process telemetry, a no-op until SetupTelemetry ran.
func Telemetry() tlmt.Telemetry {
	return SetupTelemetry(nil)
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = runeWidth
		} else {
			currentLine += string(r)
			currentWidth += runeWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(int(os.Stderr.Fd()))
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrappedLines []string
	for _, message := range messages {
		wrappedLines = append(wrappedLines, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrappedLines {
		paddingRight := max(contentWidth-runewidth.StringWidth(line), 0)

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", paddingRight)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

// Banner prints the start-up box to w.
func Banner(w io.Writer, cfg *Config) {
	messages := []string{
		"👥 API de Usuários " + Version,
		"📚 Documentação: http://" + displayAddr(cfg.Addr) + "/swagger/",
		"💾 Armazenamento: " + cfg.Storage,
	}

	if cfg.Debug {
		messages = append(messages, "🐞 Modo debug ativo")
	}

	fmt.Fprintln(w, banner(messages, 0))
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}

	return addr
}
