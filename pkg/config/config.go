package config

// Package config provides a reusable loader for credentialvm configuration
// files and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"credentialvm/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for a credentialvm deployment. It
// mirrors the structure of the YAML files under cmd/config.
type Config struct {
	Storage struct {
		DBPath string `mapstructure:"db_path" json:"db_path"`
		Prune  bool   `mapstructure:"prune" json:"prune"`
	} `mapstructure:"storage" json:"storage"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`

	// Credentials carries the deployment-fixed configurable constants:
	// issuer/schema bounds, wasm/memory ceilings, and the gas schedule.
	Credentials struct {
		MaxNameLength         int    `mapstructure:"max_name_length" json:"max_name_length"`
		MaxControllers        int    `mapstructure:"max_controllers" json:"max_controllers"`
		MaxSchemaFields       int    `mapstructure:"max_schema_fields" json:"max_schema_fields"`
		MaxSchemaFieldSize    int    `mapstructure:"max_schema_field_size" json:"max_schema_field_size"`
		MaxSchemas            int    `mapstructure:"max_schemas" json:"max_schemas"`
		MaxCodeSize           int    `mapstructure:"max_code_size" json:"max_code_size"`
		MaxMemoryPages        uint32 `mapstructure:"max_memory_pages" json:"max_memory_pages"`
		DefaultGasLimit       uint64 `mapstructure:"default_gas_limit" json:"default_gas_limit"`
		GasBasicOp            uint64 `mapstructure:"gas_basic_op" json:"gas_basic_op"`
		GasMemoryOp           uint64 `mapstructure:"gas_memory_op" json:"gas_memory_op"`
		GasCallOp             uint64 `mapstructure:"gas_call_op" json:"gas_call_op"`
		IssuerRegistryDeposit uint64 `mapstructure:"issuer_registry_deposit" json:"issuer_registry_deposit"`
	} `mapstructure:"credentials" json:"credentials"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up overrides from process environment variables

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the CREDVM_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("CREDVM_ENV", ""))
}
