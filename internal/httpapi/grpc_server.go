package httpapi

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"darew.com/internal/obs"
)

// GRPCHealth serves grpc.health.v1. Check probes storage on every call;
// Watch and List see the status published by the latest probe.
type GRPCHealth struct {
	*health.Server
	readiness readinessChecker
}

type readinessChecker interface {
	Check(ctx context.Context) error
}

// NewGRPCHealth creates the health service in NOT_SERVING state.
func NewGRPCHealth(r readinessChecker) *GRPCHealth {
	h := &GRPCHealth{Server: health.NewServer(), readiness: r}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Check evaluates readiness. On failure returns gRPC Unavailable error.
func (h *GRPCHealth) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if err := h.probe(ctx); err != nil {
		return nil, status.Errorf(codes.Unavailable, "not ready: %v", err)
	}
	return h.Server.Check(ctx, req)
}

// Refresh re-runs the readiness check and publishes the result.
func (h *GRPCHealth) Refresh(ctx context.Context) bool {
	return h.probe(ctx) == nil
}

func (h *GRPCHealth) probe(ctx context.Context) error {
	if err := h.readiness.Check(ctx); err != nil {
		obs.Logger().Warn("grpc_health_not_ready", zap.Error(err))
		obs.SetReady(false)
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}
	obs.SetReady(true)
	h.set(healthpb.HealthCheckResponse_SERVING)
	return nil
}

func (h *GRPCHealth) set(st healthpb.HealthCheckResponse_ServingStatus) {
	h.SetServingStatus("", st)
	h.SetServingStatus(serviceName, st)
}
