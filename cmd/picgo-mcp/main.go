package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"picgo-mcp/internal/app"
	"picgo-mcp/internal/domain"
)

type rootOptions struct {
	configPath string
	viper      *viper.Viper
	logger     *zap.Logger
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var exitErr exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, "picgo-mcp:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{
		viper:  app.NewViper(),
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "picgo-mcp",
		Short:         "MCP server that uploads images through a running PicGo server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, opts.logger)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "optional config file (yaml, toml or json)")
	flags.String("upload-url", domain.DefaultUploadURL, "PicGo server upload endpoint")
	flags.String("heartbeat-url", domain.DefaultHeartbeatURL, "PicGo server heartbeat endpoint")
	flags.String("log-level", domain.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("metrics-addr", domain.DefaultObservabilityListenAddress, "listen address for /metrics and /healthz (empty disables)")
	flags.Bool("probe-on-start", domain.DefaultProbeOnStart, "check PicGo reachability at startup")
	bindFlags(opts.viper, flags)

	root.AddCommand(
		newProbeCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	bindings := map[string]string{
		app.KeyUploadURL:           "upload-url",
		app.KeyHeartbeatURL:        "heartbeat-url",
		app.KeyLogLevel:            "log-level",
		app.KeyObservabilityListen: "metrics-addr",
		app.KeyProbeOnStart:        "probe-on-start",
	}
	for key, name := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

// load resolves the configuration and replaces the no-op logger.
func (o *rootOptions) load() (app.Config, error) {
	cfg, err := app.LoadConfig(o.viper, o.configPath)
	if err != nil {
		return app.Config{}, err
	}
	logger, err := app.NewLogger(cfg.Log.Level)
	if err != nil {
		return app.Config{}, err
	}
	o.logger = logger
	return cfg, nil
}

func serve(parent context.Context, cfg app.Config, logger *zap.Logger) error {
	ctx, cancel := signalAwareContext(parent)
	defer cancel()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}

	err = application.Run(ctx, &mcp.StdioTransport{})
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		logger.Info("shutdown complete")
		return nil
	}
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	return err
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
