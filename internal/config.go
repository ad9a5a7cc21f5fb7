package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"

	"github.com/starford/docshelf/internal/catalog"
	"github.com/starford/docshelf/internal/search"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Files   FilesConfig       `yaml:"files"`
	UI      UIConfig          `yaml:"ui"`
	Live    LiveConfig        `yaml:"live"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Files.Validate(); err != nil {
		return err
	}
	if err := c.UI.Validate(); err != nil {
		return err
	}
	return c.Live.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig points at the record data source. An empty Path selects the
// embedded sample catalog.
type CatalogConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	if c.Format == "" {
		c.Format = catalog.FormatAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In(
			catalog.FormatAuto, catalog.FormatYAML, catalog.FormatJSON, catalog.FormatMarkdown,
		)),
	)
}

// FilesConfig holds the directory that card links resolve against.
// An empty Root disables file serving.
type FilesConfig struct {
	Root string `yaml:"root"`
}

// Validate validates the files configuration.
func (c *FilesConfig) Validate() error {
	return nil
}

// UIConfig holds page layout and interaction settings.
//
// SearchInputID may be empty, in which case the page has no search box and no
// search controller is bound. RevealStep of zero disables the staggered
// entrance of cards.
type UIConfig struct {
	Title         string        `yaml:"title"`
	ContainerID   string        `yaml:"container_id"`
	SearchInputID string        `yaml:"search_input_id"`
	Debounce      time.Duration `yaml:"debounce"`
	RevealStep    time.Duration `yaml:"reveal_step"`
	Locale        string        `yaml:"locale"`
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.ContainerID, validation.Required),
		validation.Field(&c.SearchInputID, validation.NotIn(c.ContainerID).Error("must differ from container_id")),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
		validation.Field(&c.RevealStep, validation.Min(time.Duration(0))),
		validation.Field(&c.Locale, validation.Required),
	); err != nil {
		return err
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("ui: locale %q: %w", c.Locale, err)
	}
	return nil
}

// LanguageTag returns the parsed locale. Call after Validate.
func (c *UIConfig) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// LiveConfig holds browser session settings.
type LiveConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	MaxSessions   int           `yaml:"max_sessions"`
}

// Validate validates the session configuration.
func (c *LiveConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SessionTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SweepInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.MaxSessions, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Catalog: CatalogConfig{
			Format: catalog.FormatAuto,
		},
		Files: FilesConfig{
			Root: "./public",
		},
		UI: UIConfig{
			Title:         "Documents",
			ContainerID:   "documents",
			SearchInputID: "search",
			Debounce:      search.DefaultDebounce,
			RevealStep:    60 * time.Millisecond,
			Locale:        "en",
		},
		Live: LiveConfig{
			SessionTTL:    30 * time.Minute,
			SweepInterval: time.Minute,
			MaxSessions:   1000,
		},
	}
}
