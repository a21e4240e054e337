// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	MailLog   = "log"
	MailGmail = "gmail"
)

// SSOCallbackPath is appended to PublicBaseURL when no OIDC redirect URL
// is configured.
const SSOCallbackPath = "/api/auth/sso/callback"

// MinSessionSecret is the shortest accepted cookie signing secret.
const MinSessionSecret = 32

// Config holds the application configuration.
type Config struct {
	Addr          string        `mapstructure:"addr"`
	WebDir        string        `mapstructure:"web_dir"`
	Store         string        `mapstructure:"store"` // memory, postgres
	DatabaseURL   string        `mapstructure:"database_url"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	AdminBaseURL  string        `mapstructure:"admin_base_url"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`

	// Single sign-on. Disabled when OIDCIssuer is empty.
	OIDCIssuer        string `mapstructure:"oidc_issuer"`
	OIDCClientID      string `mapstructure:"oidc_client_id"`
	OIDCClientSecret  string `mapstructure:"oidc_client_secret"`
	OIDCRedirectURL   string `mapstructure:"oidc_redirect_url"`
	OIDCAutoProvision bool   `mapstructure:"oidc_auto_provision"`

	MailTransport        string `mapstructure:"mail_transport"` // log, gmail
	MailFrom             string `mapstructure:"mail_from"`
	GmailCredentialsFile string `mapstructure:"gmail_credentials_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("web_dir", "web")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("database_url", "")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("admin_base_url", "/admin")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("oidc_issuer", "")
	v.SetDefault("oidc_client_id", "")
	v.SetDefault("oidc_client_secret", "")
	v.SetDefault("oidc_redirect_url", "")
	v.SetDefault("oidc_auto_provision", false)
	v.SetDefault("mail_transport", MailLog)
	v.SetDefault("mail_from", "careers@localhost")
	v.SetDefault("gmail_credentials_file", "")
}

// Load reads the configuration. path names an optional YAML file; an empty
// path skips it. A .env file in the working directory is loaded when
// present and never overrides variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: .env: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.MailTransport = strings.ToLower(strings.TrimSpace(c.MailTransport))
	if c.OIDCRedirectURL == "" && c.PublicBaseURL != "" {
		c.OIDCRedirectURL = strings.TrimRight(c.PublicBaseURL, "/") + SSOCallbackPath
	}
	return c, nil
}

// SSOEnabled reports whether an OIDC issuer is configured.
func (c *Config) SSOEnabled() bool {
	return c.OIDCIssuer != ""
}

// ValidateStore checks the settings every command needs.
func (c *Config) ValidateStore() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMemory, StorePostgres)
	}
	return nil
}

// Validate checks everything serve needs.
func (c *Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	switch c.MailTransport {
	case MailLog:
	case MailGmail:
		if c.GmailCredentialsFile == "" {
			return errors.New("GMAIL_CREDENTIALS_FILE is required for the gmail transport")
		}
		if c.MailFrom == "" {
			return errors.New("MAIL_FROM is required for the gmail transport")
		}
	default:
		return fmt.Errorf("unknown mail transport %q (want %s or %s)", c.MailTransport, MailLog, MailGmail)
	}
	if len(c.SessionSecret) < MinSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", MinSessionSecret)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SSOEnabled() && (c.OIDCClientID == "" || c.OIDCRedirectURL == "") {
		return errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ISSUER is set")
	}
	return nil
}
