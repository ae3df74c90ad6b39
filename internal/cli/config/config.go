package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	ormconfig "github.com/conduit-lang/tablemeta/internal/orm/config"
	"github.com/conduit-lang/tablemeta/internal/orm/keygen"
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
)

// EnvPrefix prefixes every environment override (TABLEMETA_DATABASE_TABLE_PREFIX, ...)
const EnvPrefix = "TABLEMETA"

// Config represents the tablemeta configuration
type Config struct {
	Entities  string         `mapstructure:"entities"`
	Namespace string         `mapstructure:"namespace"`
	Database  DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig represents the database naming configuration
type DatabaseConfig struct {
	URL               string `mapstructure:"url"`
	TableUnderline    bool   `mapstructure:"table_underline"`
	ColumnUnderline   bool   `mapstructure:"column_underline"`
	CapitalMode       bool   `mapstructure:"capital_mode"`
	TablePrefix       string `mapstructure:"table_prefix"`
	IDType            string `mapstructure:"id_type"`
	SequenceGenerator string `mapstructure:"sequence_generator"`
}

// Load loads the configuration from path, or from tablemeta.yml / tablemeta.yaml in the
// working directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	defaults := ormconfig.Default()
	v.SetDefault("entities", "tablemeta.entities.yaml")
	v.SetDefault("namespace", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.table_underline", defaults.DB.TableUnderline)
	v.SetDefault("database.column_underline", defaults.DB.ColumnUnderline)
	v.SetDefault("database.capital_mode", defaults.DB.CapitalMode)
	v.SetDefault("database.table_prefix", defaults.DB.TablePrefix)
	v.SetDefault("database.id_type", defaults.DB.IDType.String())
	v.SetDefault("database.sequence_generator", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tablemeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Global converts the loaded settings into the mapping configuration the resolver reads
func (c *Config) Global() (*ormconfig.Global, error) {
	idType, err := schema.ParseIDType(c.Database.IDType)
	if err != nil {
		return nil, fmt.Errorf("database.id_type: %w", err)
	}
	gen, err := keygen.ByName(c.Database.SequenceGenerator)
	if err != nil {
		return nil, fmt.Errorf("database.sequence_generator: %w", err)
	}

	return &ormconfig.Global{
		DB: ormconfig.DBConfig{
			TableUnderline:  c.Database.TableUnderline,
			ColumnUnderline: c.Database.ColumnUnderline,
			CapitalMode:     c.Database.CapitalMode,
			TablePrefix:     c.Database.TablePrefix,
			IDType:          idType,
		},
		SequenceGenerator: gen,
	}, nil
}

// DatabaseURL returns the DATABASE_URL environment variable, falling back to database.url
func (c *Config) DatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return c.Database.URL
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if strings.ContainsAny(cfg.Database.TablePrefix, " \t\n") {
		return fmt.Errorf("database.table_prefix must not contain whitespace, got: %q", cfg.Database.TablePrefix)
	}
	if strings.Contains(cfg.Namespace, "!") {
		return fmt.Errorf("namespace must not contain '!', got: %s", cfg.Namespace)
	}
	if _, err := cfg.Global(); err != nil {
		return err
	}
	return nil
}
