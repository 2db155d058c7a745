// Package cmd is the docmail command tree.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zostay/docmail/internal/config"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

// bind ties a configuration key to a flag of the same command.
func (a *app) bind(fs *pflag.FlagSet, key, flag string) {
	if err := a.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
		panic(err)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(cmd.OutOrStdout(), cfg)
	slog.SetDefault(a.logger)
	return nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:               "docmail",
		Short:             "Turns Word documents into self-contained HTML email messages",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML configuration file (default ./docmail.yaml when present)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	a.bind(pf, "log.level", "log-level")
	a.bind(pf, "log.format", "log-format")

	rootCmd.AddCommand(
		newConvertCmd(a),
		newVerifyCmd(a),
		newInspectCmd(a),
		newIngestCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the command line.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
