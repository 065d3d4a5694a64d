package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"picgo-mcp/internal/domain"
	"picgo-mcp/internal/infra/telemetry"
)

// Forwarder sends validated paths to the upload service.
type Forwarder interface {
	Upload(ctx context.Context, paths []string) (*domain.UploadReply, error)
}

// Service runs the validate, check, forward and normalize stages for one invocation.
type Service struct {
	validator *Validator
	paths     *PathChecker
	forwarder Forwarder
	metrics   domain.Metrics
	logger    *zap.Logger
}

func NewService(forwarder Forwarder, metrics domain.Metrics, logger *zap.Logger) (*Service, error) {
	if forwarder == nil {
		return nil, fmt.Errorf("upload forwarder is required")
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Service{
		validator: validator,
		paths:     NewPathChecker(),
		forwarder: forwarder,
		metrics:   metrics,
		logger:    logger.Named("upload"),
	}, nil
}

// Upload handles one invocation. Invalid input is returned as an error before any network I/O;
// every accepted request yields exactly one outcome.
func (s *Service) Upload(ctx context.Context, raw json.RawMessage) (domain.UploadOutcome, error) {
	logger := s.logger.With(telemetry.RequestIDField(uuid.NewString()))

	req, err := s.validator.Validate(raw)
	if err == nil {
		err = s.paths.Check(req)
	}
	if err != nil {
		s.metrics.ObserveInvocation(domain.OutcomeInvalidParams)
		logger.Info("upload rejected", telemetry.OutcomeField(domain.OutcomeInvalidParams), zap.Error(err))
		return domain.UploadOutcome{}, err
	}

	start := time.Now()
	reply, err := s.forward(ctx, req.Paths)
	outcome := Normalize(reply, err)
	elapsed := time.Since(start)

	s.metrics.ObserveForward(outcome.Kind, elapsed)
	s.metrics.ObserveInvocation(outcome.Kind)

	fields := []zap.Field{
		telemetry.OutcomeField(outcome.Kind),
		telemetry.PathCountField(len(req.Paths)),
		telemetry.DurationField(elapsed),
	}
	if outcome.IsError() {
		logger.Warn("upload failed", append(fields, zap.Error(err))...)
	} else {
		logger.Info("upload completed", fields...)
	}
	return outcome, nil
}

func (s *Service) forward(ctx context.Context, paths []string) (reply *domain.UploadReply, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return s.forwarder.Upload(ctx, paths)
}
