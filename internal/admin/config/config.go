package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultBasePath         = "/admin"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 120 * time.Second
	defaultEnvironment      = "local"
	defaultSessionCookie    = "showfolio_session"
	defaultSessionTTL       = 12 * time.Hour
	defaultCollection       = "active-display"
	defaultGitHubPageSize   = 100
	defaultGitHubCacheTTL   = 5 * time.Minute
	defaultShowcasePageSize = 9
	defaultPollInterval     = 5 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Session   SessionConfig
	Firebase  FirebaseConfig
	Firestore FirestoreConfig
	GitHub    GitHubConfig
	Showcase  ShowcaseConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	BasePath     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// SessionConfig holds the cookie-session signing material and lifetime.
type SessionConfig struct {
	CookieName string
	HashKey    string
	BlockKey   string
	TTL        time.Duration
	Secure     bool
}

// FirebaseConfig stores identity-provider project settings.
type FirebaseConfig struct {
	ProjectID        string
	WebAPIKey        string
	CredentialsFile  string
	AuthEmulatorHost string
}

// FirestoreConfig stores document-store parameters.
type FirestoreConfig struct {
	ProjectID    string
	Collection   string
	EmulatorHost string
}

// GitHubConfig configures the repository source client.
type GitHubConfig struct {
	Token    string
	BaseURL  string
	PageSize int
	CacheTTL time.Duration
}

// ShowcaseConfig controls the admin grid presentation.
type ShowcaseConfig struct {
	PageSize     int
	PollInterval time.Duration
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "ADMIN_SERVER_PORT", defaultPort),
			BasePath:     stringWithDefault(lookup, "ADMIN_SERVER_BASE_PATH", defaultBasePath),
			ReadTimeout:  durationWithDefault(lookup, "ADMIN_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "ADMIN_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "ADMIN_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			Environment:  strings.ToLower(stringWithDefault(lookup, "ADMIN_ENVIRONMENT", defaultEnvironment)),
		},
		Session: SessionConfig{
			CookieName: stringWithDefault(lookup, "ADMIN_SESSION_COOKIE_NAME", defaultSessionCookie),
			HashKey:    stringWithDefault(lookup, "ADMIN_SESSION_HASH_KEY", ""),
			BlockKey:   stringWithDefault(lookup, "ADMIN_SESSION_BLOCK_KEY", ""),
			TTL:        durationWithDefault(lookup, "ADMIN_SESSION_TTL", defaultSessionTTL),
			Secure:     boolWithDefault(lookup, "ADMIN_SESSION_SECURE", true),
		},
		Firebase: FirebaseConfig{
			ProjectID:        stringWithDefault(lookup, "ADMIN_FIREBASE_PROJECT_ID", ""),
			WebAPIKey:        stringWithDefault(lookup, "ADMIN_FIREBASE_WEB_API_KEY", ""),
			CredentialsFile:  stringWithDefault(lookup, "ADMIN_FIREBASE_CREDENTIALS_FILE", ""),
			AuthEmulatorHost: stringWithDefault(lookup, "ADMIN_FIREBASE_AUTH_EMULATOR_HOST", ""),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "ADMIN_FIRESTORE_PROJECT_ID", ""),
			Collection:   stringWithDefault(lookup, "ADMIN_FIRESTORE_COLLECTION", defaultCollection),
			EmulatorHost: stringWithDefault(lookup, "ADMIN_FIRESTORE_EMULATOR_HOST", ""),
		},
		GitHub: GitHubConfig{
			Token:    stringWithDefault(lookup, "ADMIN_GITHUB_TOKEN", ""),
			BaseURL:  stringWithDefault(lookup, "ADMIN_GITHUB_BASE_URL", ""),
			PageSize: intWithDefault(lookup, "ADMIN_GITHUB_PAGE_SIZE", defaultGitHubPageSize),
			CacheTTL: durationWithDefault(lookup, "ADMIN_GITHUB_CACHE_TTL", defaultGitHubCacheTTL),
		},
		Showcase: ShowcaseConfig{
			PageSize:     intWithDefault(lookup, "ADMIN_SHOWCASE_PAGE_SIZE", defaultShowcasePageSize),
			PollInterval: durationWithDefault(lookup, "ADMIN_SHOWCASE_POLL_INTERVAL", defaultPollInterval),
		},
	}

	// Firestore project defaults to Firebase project when unspecified.
	if cfg.Firestore.ProjectID == "" {
		cfg.Firestore.ProjectID = cfg.Firebase.ProjectID
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Firebase.ProjectID == "" {
		missing = append(missing, "Firebase.ProjectID")
	}
	if cfg.Firestore.ProjectID == "" {
		missing = append(missing, "Firestore.ProjectID")
	}
	if strings.TrimSpace(cfg.Firestore.Collection) == "" {
		missing = append(missing, "Firestore.Collection")
	}
	if strings.TrimSpace(cfg.Session.HashKey) == "" {
		missing = append(missing, "Session.HashKey")
	}
	if cfg.Session.TTL <= 0 {
		missing = append(missing, "Session.TTL")
	}
	if cfg.GitHub.PageSize <= 0 {
		missing = append(missing, "GitHub.PageSize")
	}
	if cfg.Showcase.PageSize <= 0 {
		missing = append(missing, "Showcase.PageSize")
	}
	if cfg.Showcase.PollInterval <= 0 {
		missing = append(missing, "Showcase.PollInterval")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
