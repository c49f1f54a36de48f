package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const releaseVersion = "0.1.0"

type Config struct {
	bind           string
	catalogFile    string
	corsOrigin     string
	db             string
	logLevel       string
	logPretty      bool
	port           int
	secureCookies  bool
	sessionTimeout time.Duration
	tokenSecret    string
	tokenTTL       time.Duration
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.sessionTimeout <= 0 {
		return errors.New("--session-timeout must be positive")
	}
	if c.tokenTTL <= 0 {
		return errors.New("--token-ttl must be positive")
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid --log-level %q", c.logLevel)
	}
	return nil
}

func (c *Config) addr() string { return fmt.Sprintf("%s:%d", c.bind, c.port) }

// setupLogging applies the level and output format to the global logger.
func (c *Config) setupLogging() {
	if lvl, err := zerolog.ParseLevel(c.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.logPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DOTWORD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "dotword",
		Short:         "Word-equation dot-connect puzzle server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			cfg.setupLogging()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: DOTWORD_BIND)")
	fs.StringVar(&cfg.catalogFile, "catalog-file", "", "YAML level catalog; empty uses the built-in levels (env: DOTWORD_CATALOG_FILE)")
	fs.StringVar(&cfg.corsOrigin, "cors-origin", "", "browser origin allowed to call the API (env: DOTWORD_CORS_ORIGIN)")
	fs.StringVar(&cfg.db, "db", "", "SQLite results journal path; empty disables it (env: DOTWORD_DB)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "trace, debug, info, warn, error (env: DOTWORD_LOG_LEVEL)")
	fs.BoolVar(&cfg.logPretty, "log-pretty", false, "human readable console logs (env: DOTWORD_LOG_PRETTY)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: DOTWORD_PORT)")
	fs.BoolVar(&cfg.secureCookies, "secure-cookies", false, "mark session cookies Secure (env: DOTWORD_SECURE_COOKIES)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle sessions are dropped (env: DOTWORD_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tokenSecret, "token-secret", "", "HMAC secret for session tokens; empty generates one per process (env: DOTWORD_TOKEN_SECRET)")
	fs.DurationVar(&cfg.tokenTTL, "token-ttl", 24*time.Hour, "session token lifetime (env: DOTWORD_TOKEN_TTL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(newCatalogCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("dotword v{{.Version}}\n")

	return cmd
}
