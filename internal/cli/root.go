package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/httech/voltgo/internal/config"
	apperrors "github.com/httech/voltgo/internal/pkg/errors"
	"github.com/httech/voltgo/internal/pkg/logger"
	"github.com/httech/voltgo/internal/pkg/metrics"
	"github.com/httech/voltgo/internal/session"
	"github.com/httech/voltgo/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// requiresKey marks what a command needs before it runs; subcommands inherit it
const requiresKey = "requires"

const (
	requiresClient  = "client"  // API client, no credential
	requiresSession = "session" // API client with the stored session
)

var (
	cfgFile      string
	outputFormat string
	noColor      bool
	dumpMetrics  bool
	cfg          *config.Config
	log          = logger.Nop()
	apiClient    *client.Client
	store        *session.Store
	sessions     *session.Manager
)

var rootCmd = &cobra.Command{
	Use:   "voltgo",
	Short: "VoltGo - security alert dashboard",
	Long: `VoltGo gives command-line access to the HTT alerting platform:
browse and filter alerts, read their comment threads, chart alert
volume per severity and check the account's members and endpoints.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config commands must work even when the stored config is invalid
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return err
		}

		switch requirement(cmd) {
		case requiresClient:
			return initClient()
		case requiresSession:
			return initAuthenticatedClient(cmd.Context())
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if store != nil {
		_ = store.Close()
		store = nil
	}
	if dumpMetrics {
		if derr := metrics.Dump(os.Stderr); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.voltgo/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().String("alerts-url", "", "alerts endpoint (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&dumpMetrics, "dump-metrics", false, "print client metrics to stderr on exit")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("api.alerts_url", rootCmd.PersistentFlags().Lookup("alerts-url"))

	// Register all subcommands
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAlertCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newNewsCmd())
	rootCmd.AddCommand(newMembersCmd())
	rootCmd.AddCommand(newActivityCmd())
	rootCmd.AddCommand(newEndpointsCmd())
	rootCmd.AddCommand(newContactCmd())
	rootCmd.AddCommand(newSettingsCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := config.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	_ = viper.ReadInConfig()
}

func loadConfig() error {
	c, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c

	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Init(log)

	if noColor {
		color.NoColor = true
	}
	return nil
}

func requirement(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if v, ok := c.Annotations[requiresKey]; ok {
			return v
		}
	}
	return ""
}

func initClient() error {
	apiClient = client.NewClient(client.Config{
		AlertsURL:   cfg.API.AlertsURL,
		CommentsURL: cfg.API.CommentsURL,
		AuthURL:     cfg.API.AuthURL,
		NewsURL:     cfg.API.NewsURL,
		Timeout:     cfg.API.Timeout,
		RateLimit:   cfg.API.RateLimit,
		Logger:      log,
	})
	return nil
}

func openSessions() error {
	path, err := cfg.StatePath()
	if err != nil {
		return err
	}
	s, err := session.Open(path)
	if err != nil {
		return err
	}
	store = s
	sessions = session.NewManager(store, apiClient, log)
	log.With("path", path).Debug("Session store opened")
	return nil
}

func initAuthenticatedClient(ctx context.Context) error {
	if err := initClient(); err != nil {
		return err
	}
	if err := openSessions(); err != nil {
		return err
	}

	s, err := sessions.Restore(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return apperrors.Wrap(client.ErrMissingCredential, apperrors.ErrCodeUnauthenticated,
			"Not logged in. Run 'voltgo auth login' first")
	}
	if err != nil {
		return err
	}

	apiClient.SetTokenSource(s)
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	if cfg != nil {
		return cfg.Output
	}
	return viper.GetString("output")
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
