package app

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"picgo-mcp/internal/buildinfo"
	"picgo-mcp/internal/domain"
	"picgo-mcp/internal/infra/gateway"
	"picgo-mcp/internal/infra/picgo"
	"picgo-mcp/internal/infra/telemetry"
	"picgo-mcp/internal/infra/upload"
)

const startupProbeTimeout = 3 * time.Second

// Application wires the PicGo client, the upload pipeline and the MCP gateway.
type Application struct {
	cfg      Config
	logger   *zap.Logger
	registry *prometheus.Registry
	client   *picgo.Client
	gateway  *gateway.Server
}

func NewApplication(cfg Config, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("app")

	var (
		registry *prometheus.Registry
		metrics  domain.Metrics = telemetry.NewNoopMetrics()
	)
	if cfg.Observability.ListenAddress != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = telemetry.NewPrometheusMetrics(registry)
	}

	client, err := picgo.NewClient(picgo.ClientConfig{
		UploadURL:    cfg.PicGo.UploadURL,
		HeartbeatURL: cfg.PicGo.HeartbeatURL,
	}, logger)
	if err != nil {
		return nil, err
	}
	service, err := upload.NewService(client, metrics, logger)
	if err != nil {
		return nil, err
	}
	gw, err := gateway.NewServer(service, buildinfo.Version, logger)
	if err != nil {
		return nil, err
	}

	return &Application{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		client:   client,
		gateway:  gw,
	}, nil
}

// Run serves MCP on transport until the session ends or ctx is canceled.
func (a *Application) Run(ctx context.Context, transport mcp.Transport) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("picgo uploader starting",
		zap.String("version", buildinfo.Version),
		zap.String("upload_url", a.client.UploadURL()),
	)

	if a.cfg.ProbeOnStart && a.cfg.PicGo.HeartbeatURL != "" {
		go a.probe(runCtx)
	}
	if a.registry != nil {
		go func() {
			err := telemetry.StartHTTPServer(runCtx, telemetry.HTTPServerOptions{
				Addr:          a.cfg.Observability.ListenAddress,
				EnableMetrics: true,
				EnableHealthz: true,
				Health:        a.client.Heartbeat,
				Registry:      a.registry,
			}, a.logger)
			if err != nil {
				a.logger.Error("observability server failed", zap.Error(err))
			}
		}()
	}

	return a.gateway.Run(runCtx, transport)
}

func (a *Application) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()
	if err := a.client.Heartbeat(probeCtx); err != nil {
		a.logger.Warn("picgo server is not reachable; uploads will fail until it is running with its server enabled", zap.Error(err))
		return
	}
	a.logger.Info("picgo server reachable")
}
