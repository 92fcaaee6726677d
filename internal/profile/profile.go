package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the joebot server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory for the local sqlite database
	Data string
	// DSN points to where the local sqlite database lives
	DSN string
	// Version is the current version of server
	Version string

	// TursoDatabaseURL is the remote database URL (libsql:// or https://).
	// When unset the embedded sqlite backend is used.
	TursoDatabaseURL string // TURSO_DATABASE_URL
	// TursoAuthToken is the bearer token for the remote backend.
	TursoAuthToken string // TURSO_AUTH_TOKEN

	// OpenAIAPIKey authenticates the chat completion proxy.
	OpenAIAPIKey string // OPENAI_API_KEY

	// Serverless is true on the serverless hosting platform (VERCEL=1).
	Serverless bool
	// CI is true in CI runs; the chat endpoint echoes instead of calling
	// the upstream LLM.
	CI bool
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// RemoteBaseURL normalizes the configured database URL to an https base,
// or returns "" when the URL does not point at a remote database.
func (p *Profile) RemoteBaseURL() string {
	url := trimQuotes(p.TursoDatabaseURL)
	switch {
	case strings.HasPrefix(url, "https://"):
		return url
	case strings.HasPrefix(url, "libsql://"):
		return "https://" + strings.TrimPrefix(url, "libsql://")
	default:
		return ""
	}
}

// UseRemoteHTTP reports whether persistence should go through the remote
// HTTP SQL backend instead of the embedded sqlite engine. True only when
// running serverless with a remote URL and an auth token configured.
func (p *Profile) UseRemoteHTTP() bool {
	return p.Serverless && p.RemoteBaseURL() != "" && trimQuotes(p.TursoAuthToken) != ""
}

// trimQuotes strips surrounding quotes that sneak in via copy-pasted env
// values on the hosting dashboard.
func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.TursoDatabaseURL = os.Getenv("TURSO_DATABASE_URL")
	p.TursoAuthToken = os.Getenv("TURSO_AUTH_TOKEN")
	p.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	p.Serverless = os.Getenv("VERCEL") == "1"
	p.CI = os.Getenv("CI") == "true"

	if p.Mode == "" {
		p.Mode = getEnvOrDefault("JOEBOT_MODE", "dev")
	}
	if p.Data == "" {
		p.Data = os.Getenv("JOEBOT_DATA")
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if err := os.MkdirAll(dataDir, 0770); err != nil {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Data == "" {
		p.Data = "data"
	}

	// The remote backend needs no local data directory.
	if p.UseRemoteHTTP() {
		return nil
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrap(err, "failed to check data dir")
	}
	p.Data = dataDir

	if p.DSN == "" {
		dbFile := fmt.Sprintf("joebot_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	return nil
}
