package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/altinukshini/gridfind/internal/model"
	"github.com/altinukshini/gridfind/internal/panel"
	"github.com/altinukshini/gridfind/internal/store"
)

const (
	DefaultPage   = "Data"
	DefaultRegion = "B2:Z350"
)

type Config struct {
	Backend         string
	Path            string
	SpreadsheetID   string
	CredentialsFile string
	Page            string
	Region          string
	Accumulate      bool
}

// FromEnv reads GRIDFIND_* variables, falling back to defaults.
func FromEnv() Config {
	accumulate, _ := strconv.ParseBool(os.Getenv("GRIDFIND_ACCUMULATE"))
	return Config{
		Backend:         getEnvWithDefault("GRIDFIND_BACKEND", store.BackendSQLite),
		Path:            getEnvWithDefault("GRIDFIND_PATH", defaultPath()),
		SpreadsheetID:   os.Getenv("GRIDFIND_SPREADSHEET_ID"),
		CredentialsFile: os.Getenv("GRIDFIND_CREDENTIALS"),
		Page:            getEnvWithDefault("GRIDFIND_PAGE", DefaultPage),
		Region:          getEnvWithDefault("GRIDFIND_REGION", DefaultRegion),
		Accumulate:      accumulate,
	}
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "gridfind", "gridfind.db")
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Target is the page and region searches run against, e.g. "Data!B2:Z350".
func (c Config) Target() string {
	return fmt.Sprintf("%s!%s", c.Page, strings.ToUpper(c.Region))
}

func (c Config) ParsedRegion() (model.Region, error) {
	return model.ParseRegion(c.Region)
}

func (c Config) Policy() panel.Policy {
	if c.Accumulate {
		return panel.Accumulate
	}
	return panel.ClearBeforeRender
}

func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:         c.Backend,
		Path:            c.Path,
		SpreadsheetID:   c.SpreadsheetID,
		CredentialsFile: c.CredentialsFile,
	}
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case store.BackendSQLite, store.BackendXLSX:
		if c.Path == "" {
			return fmt.Errorf("a store path is required for the %s backend (use --path)", c.Backend)
		}
	case store.BackendSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("a spreadsheet id is required for the sheets backend (use --spreadsheet-id)")
		}
	case store.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (sqlite, xlsx, sheets, memory)", c.Backend)
	}
	if c.Page == "" {
		return fmt.Errorf("page is required (use --page)")
	}
	if _, err := c.ParsedRegion(); err != nil {
		return err
	}
	return nil
}
