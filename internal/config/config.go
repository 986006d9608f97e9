// Package config centralizes process configuration. All tunables are sourced
// from command-line flags with environment-variable fallbacks, and optionally
// from a YAML file; nothing is hardcoded in the pipeline or loader.
//
// Precedence: explicit CLI flags beat the YAML file, which beats environment
// variables, which beat built-in defaults.
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"-db_driver=sqlite"})
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all process configuration. Plain values only, safe to copy.
type Config struct {
	// Input extracts.
	CustomersCSV string `yaml:"customers_csv"`
	ProductsCSV  string `yaml:"products_csv"`
	SalesCSV     string `yaml:"sales_csv"`

	// Outputs of the transform stage.
	OutDir     string `yaml:"out_dir"`     // clean CSVs land here
	ReportPath string `yaml:"report_path"` // data quality report

	// Sink connectivity. DSN format is driver-specific; credentials always
	// come from here, never from code.
	DBDriver string `yaml:"db_driver"` // postgres, mysql, sqlite, mssql
	DSN      string `yaml:"dsn"`

	// SkipLoad runs transform and report only, leaving the sink untouched.
	SkipLoad bool `yaml:"skip_load"`
}

// CleanPath returns the output path for one entity's clean CSV.
func (c *Config) CleanPath(entity string) string {
	return filepath.Join(c.OutDir, entity+"_clean.csv")
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag to
// an environment-variable fallback via getenv, then parsing args. When a
// -config YAML file is given, its values apply to every flag the command
// line did not set explicitly.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	envOr := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}

	var configFile string
	fs.StringVar(&configFile, "config", envOr("ETL_CONFIG", ""), "Path to YAML configuration file")

	fs.StringVar(&cfg.CustomersCSV, "customers_csv", envOr("CUSTOMERS_CSV", "data/customers_raw.csv"), "Path to raw customers CSV")
	fs.StringVar(&cfg.ProductsCSV, "products_csv", envOr("PRODUCTS_CSV", "data/products_raw.csv"), "Path to raw products CSV")
	fs.StringVar(&cfg.SalesCSV, "sales_csv", envOr("SALES_CSV", "data/sales_raw.csv"), "Path to raw sales CSV")

	fs.StringVar(&cfg.OutDir, "out_dir", envOr("OUT_DIR", "."), "Directory for cleaned CSV outputs")
	fs.StringVar(&cfg.ReportPath, "report", envOr("REPORT_PATH", "data_quality_report.txt"), "Path for the data quality report")

	fs.StringVar(&cfg.DBDriver, "db_driver", envOr("DB_DRIVER", "mysql"), "Sink driver: postgres, mysql, sqlite, or mssql")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Sink DSN (driver-specific)")

	fs.BoolVar(&cfg.SkipLoad, "skip_load", getenv("SKIP_LOAD") == "1", "Transform and report only; do not load the sink")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configFile != "" {
		if err := applyYAML(fs, cfg, configFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// applyYAML overlays values from a YAML file onto cfg, preserving any value
// set explicitly on the command line.
func applyYAML(fs *flag.FlagSet, cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	overlay := func(flagName string, dst *string, src string) {
		if !set[flagName] && src != "" {
			*dst = src
		}
	}
	overlay("customers_csv", &cfg.CustomersCSV, fileCfg.CustomersCSV)
	overlay("products_csv", &cfg.ProductsCSV, fileCfg.ProductsCSV)
	overlay("sales_csv", &cfg.SalesCSV, fileCfg.SalesCSV)
	overlay("out_dir", &cfg.OutDir, fileCfg.OutDir)
	overlay("report", &cfg.ReportPath, fileCfg.ReportPath)
	overlay("db_driver", &cfg.DBDriver, fileCfg.DBDriver)
	overlay("dsn", &cfg.DSN, fileCfg.DSN)
	if !set["skip_load"] && fileCfg.SkipLoad {
		cfg.SkipLoad = true
	}
	return nil
}

// Load is the production entry point: process flag set, real environment,
// real arguments.
func Load() (*Config, error) {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}
