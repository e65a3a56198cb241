package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"mailsweep/internal/model"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	ProviderGmail = "gmail"
	ProviderIMAP  = "imap"

	SelectorPrompt = "prompt"
	SelectorTUI    = "tui"

	// MaxPageSize is the largest batch Gmail returns from messages.list.
	MaxPageSize = 500
)

// Config is the top-level configuration shared by both programs.
type Config struct {
	ConfigDir       string             `yaml:"config_dir"`
	CredentialsFile string             `yaml:"credentials_file"`
	TokenFile       string             `yaml:"token_file"`
	Database        string             `yaml:"database"`
	Provider        string             `yaml:"provider"`
	IMAP            IMAP               `yaml:"imap"`
	PageSize        int64              `yaml:"page_size"`
	Folders         []model.FolderPlan `yaml:"folders"`
	Selector        string             `yaml:"selector"`
	DryRun          bool               `yaml:"dry_run"`
	Logging         LoggingConfig      `yaml:"logging"`
	MetricsTextfile string             `yaml:"metrics_textfile"`
}

// IMAP holds the mailbox server used when provider is "imap".
type IMAP struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	PasswordEnv string `yaml:"password_env"` // read the password from this variable instead
	UseTLS      bool   `yaml:"use_tls"`
}

// LoggingConfig selects the log level, format (console|json) and output
// (stderr|stdout|<file path>).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DefaultDir returns ~/.config/mailsweep.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mailsweep"), nil
}

// Default returns the built-in configuration: one page of SPAM, the first
// three pages of INBOX, Gmail as provider and the line-prompt selector.
func Default(dir string) *Config {
	return &Config{
		ConfigDir:       dir,
		CredentialsFile: "client_secret.json",
		TokenFile:       "token.json",
		Database:        "senders.db",
		Provider:        ProviderGmail,
		IMAP:            IMAP{Port: 993, UseTLS: true},
		PageSize:        MaxPageSize,
		Folders: []model.FolderPlan{
			{Name: "SPAM", StartPage: 1, EndPage: 1},
			{Name: "INBOX", StartPage: 1, EndPage: 3},
		},
		Selector: SelectorPrompt,
		Logging:  LoggingConfig{Level: "info", Format: "console", Output: "stderr"},
	}
}

// Load reads path on top of the defaults. When path is empty the default
// location is tried and a missing file there is not an error.
func Load(path string) (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	cfg := Default(dir)

	optional := path == ""
	if optional {
		path = filepath.Join(dir, "config.yaml")
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderGmail:
	case ProviderIMAP:
		if c.IMAP.Host == "" || c.IMAP.Username == "" {
			return fmt.Errorf("%w: imap provider needs host and username", ErrInvalid)
		}
		if c.IMAP.Port <= 0 {
			return fmt.Errorf("%w: imap port %d", ErrInvalid, c.IMAP.Port)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}

	switch c.Selector {
	case SelectorPrompt, SelectorTUI:
	default:
		return fmt.Errorf("%w: unknown selector %q", ErrInvalid, c.Selector)
	}

	if c.PageSize <= 0 || c.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page_size must be in 1..%d, got %d", ErrInvalid, MaxPageSize, c.PageSize)
	}

	for _, f := range c.Folders {
		if f.Name == "" {
			return fmt.Errorf("%w: folder without a name", ErrInvalid)
		}
		if f.StartPage < 0 || f.EndPage < 0 {
			return fmt.Errorf("%w: folder %s: negative page", ErrInvalid, f.Name)
		}
		if f.EndPage > 0 && f.StartPage > f.EndPage {
			return fmt.Errorf("%w: folder %s: start_page %d after end_page %d", ErrInvalid, f.Name, f.StartPage, f.EndPage)
		}
	}
	return nil
}

// Path resolves a configured file name against ConfigDir.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.ConfigDir, name)
}

// CredentialsPath returns the OAuth client secret location.
func (c *Config) CredentialsPath() string { return c.Path(c.CredentialsFile) }

// TokenPath returns the cached OAuth token location.
func (c *Config) TokenPath() string { return c.Path(c.TokenFile) }

// DatabasePath returns the SQLite file location.
func (c *Config) DatabasePath() string { return c.Path(c.Database) }

// IMAPPassword returns the IMAP password, preferring PasswordEnv when set.
func (c *Config) IMAPPassword() string {
	if c.IMAP.PasswordEnv != "" {
		if v := os.Getenv(c.IMAP.PasswordEnv); v != "" {
			return v
		}
	}
	return c.IMAP.Password
}
