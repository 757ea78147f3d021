package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soilsense",
		Short: "🌱 Soil health impact assessment for fertilizer plans",
		Long: `soilsense projects how a fertilizer plan changes organic matter, pH,
microbial activity and soil structure over 1, 5 and 15 years, ranks
alternatives, and plans remediation for the harmful ones.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/soilsense/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.StringP("output", "o", outputText, "output format (text, json)")

	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))

	cmd.AddCommand(assessCmd())
	cmd.AddCommand(compareCmd())
	cmd.AddCommand(optimizeCmd())
	cmd.AddCommand(batchCmd())
	cmd.AddCommand(fertilizersCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, explain(err))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/soilsense", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "soilsense %s\n", version)
		},
	}
}

// explain wraps well-known failures with a hint for the person at the terminal.
func explain(err error) error {
	var userErr *common.UserError
	switch {
	case errors.As(err, &userErr):
		return err
	case errors.Is(err, common.ErrNoCandidates):
		return common.NewUserError("The input lists no fertilizer candidates", err)
	case errors.Is(err, common.ErrInvalidInput):
		return common.NewUserError("Invalid input; check the fertilizer plan and soil test values", err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError("No saved assessment matches; list IDs with 'soilsense history'", err)
	case errors.Is(err, common.ErrInvalidConfig):
		return common.NewUserError("Configuration problem; check config.yaml and SOILSENSE_* variables", err)
	case errors.Is(err, common.ErrAssessmentFailed):
		return common.NewUserError("The assessment could not be computed", err)
	default:
		return err
	}
}
