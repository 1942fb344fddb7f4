package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/config"
	"github.com/pigeonic/banglachat/internal/logx"
	"github.com/pigeonic/banglachat/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "banglachat",
	Short: "Bengali AI chat assistant for the terminal",
	Long: "banglachat is a terminal chat client for a Bengali question-answering service,\n" +
		"with topic selection, difficulty levels and voice input/output.\n\n" +
		"Environment:\n" + config.Usage(),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Answering service base URL (overrides BANGLACHAT_API_URL)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BANGLACHAT_DB)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.APIURL = u
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	return cfg, nil
}

// initLogging installs the global logger. While the TUI owns the terminal,
// logs go to LOG_FILE or nowhere.
func initLogging(cfg *config.Config, tui bool) (io.Closer, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logx.Init(logx.Options{
		Production: cfg.IsProduction(),
		Level:      level,
		File:       cfg.LogFile,
		Discard:    tui && cfg.LogFile == "",
	})
}

// resolveDBPath returns the database path from --db or BANGLACHAT_DB,
// falling back to the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
