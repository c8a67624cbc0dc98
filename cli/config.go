package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/encoded/core/search"
	"github.com/goto/encoded/internal/server"
	esStore "github.com/goto/encoded/internal/store/elasticsearch"
	"github.com/goto/encoded/pkg/statsd"
	"github.com/goto/encoded/pkg/telemetry"
	"github.com/goto/salt/cmdx"
	"github.com/goto/salt/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const configFlag = "config"

func configCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage server configuration",
		Example: heredoc.Doc(`
			$ encoded config init
			$ encoded config list`),
	}

	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configListCommand(cfg))

	return cmd
}

func configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new server configuration",
		Example: heredoc.Doc(`
			$ encoded config init
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cmdx.SetConfig("encoded")

			if err := cfg.Init(&Config{}); err != nil {
				return err
			}

			fmt.Printf("config created: %v\n", cfg.File())
			return nil
		},
	}
}

func configListCommand(cfg *Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "list",
		Short: "List server configuration settings",
		Example: heredoc.Doc(`
			$ encoded config list
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return yaml.NewEncoder(os.Stdout).Encode(*cfg)
		},
	}
	return cmd
}

type Config struct {
	// Log
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info"`

	// StatsD
	StatsD statsd.Config `yaml:"statsd" mapstructure:"statsd"`

	// Telemetry
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`

	// Elasticsearch
	Elasticsearch esStore.Config `yaml:"elasticsearch" mapstructure:"elasticsearch"`

	// Service
	Service server.Config `yaml:"service" mapstructure:"service"`

	// Search
	Search search.Config `yaml:"search" mapstructure:"search"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := cmdx.SetConfig("encoded").Load(&cfg)
	if err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return LoadFromCurrentDir()
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadFromCurrentDir() (*Config, error) {
	var cfg Config
	var opts []config.LoaderOption

	opts = append(opts,
		config.WithPath("./"),
		config.WithName("encoded.yaml"),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("ENCODED"),
	)

	if err := config.NewLoader(opts...).Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return &cfg, ErrConfigNotFound
		}
		return &cfg, err
	}
	return &cfg, nil
}

// LoadConfigFromFlag overrides cfg with the file passed through --config.
func LoadConfigFromFlag(cfgFile string, cfg *Config) error {
	var opts []config.LoaderOption
	opts = append(opts,
		config.WithFile(cfgFile),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("ENCODED"),
	)

	return config.NewLoader(opts...).Load(cfg)
}

func overrideConfigFromFlag(cmd *cobra.Command, cfg *Config) error {
	cfgFile, _ := cmd.Flags().GetString(configFlag)
	if cfgFile == "" {
		return nil
	}
	return LoadConfigFromFlag(cfgFile, cfg)
}
