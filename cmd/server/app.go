package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/handler"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/metrics"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/service"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/store"
	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/config"
	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/dynamo"
	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/health"
	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/tracer"
	httptransport "github.com/Consent-Management-Platform/consent-management-api/internal/transport/http"
)

type app struct {
	handler http.Handler
	health  *health.Handler
}

// newApp builds the repository, service and router for cfg. Collectors are
// registered on reg, which also backs /metrics.
func newApp(ctx context.Context, cfg config.Server, log *slog.Logger, reg *prometheus.Registry) (*app, error) {
	m := metrics.NewWithRegisterer(reg)
	probes := health.New(cfg.Environment)

	repo, backend, err := buildRepository(ctx, cfg, m, probes)
	if err != nil {
		return nil, err
	}
	repo = store.NewInstrumented(repo, backend, m, tracer.NewOTel())

	svc := service.NewService(repo, log, service.WithMetrics(m))
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Probes:         []httptransport.Registrar{probes},
		APIs:           []httptransport.Registrar{handler.New(svc, log)},
	})
	return &app{handler: router, health: probes}, nil
}

// buildRepository returns the configured backend and its metrics label.
func buildRepository(ctx context.Context, cfg config.Server, m *metrics.Metrics, probes *health.Handler) (store.Repository, string, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewInMemory(store.WithLockWaitObserver(func(d time.Duration) {
			m.ObserveShardLockWait(d.Seconds())
		})), store.BackendMemory, nil

	case config.BackendDynamoDB:
		client, err := dynamo.NewClient(ctx, dynamo.Options{Region: cfg.AWSRegion, Endpoint: cfg.DynamoEndpoint})
		if err != nil {
			return nil, "", err
		}
		// DynamoDB Local starts empty
		if cfg.DynamoEndpoint != "" {
			if err := dynamo.EnsureTable(ctx, client, store.TableDefinition(cfg.TableName)); err != nil {
				return nil, "", err
			}
		}
		probes.RegisterCheck("dynamodb", dynamo.TableReadyCheck(client, cfg.TableName))
		return store.NewDynamoDB(client, cfg.TableName), store.BackendDynamoDB, nil

	default:
		return nil, "", fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
