package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/geocoder89/userapi/internal/app"
	"github.com/geocoder89/userapi/internal/config"
	httpx "github.com/geocoder89/userapi/internal/http"
	"github.com/geocoder89/userapi/internal/lambdaapi"
	"github.com/geocoder89/userapi/internal/observability"
	"github.com/geocoder89/userapi/internal/store/mongostore"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// No /metrics in Lambda; the collectors still back the DB and cache wrappers.
	prom := observability.NewProm(prometheus.NewRegistry())

	// One client per invocation, closed when the handler releases it.
	store := mongostore.NewDialer(app.StoreConfig(cfg), prom)

	userCache, _ := app.NewCache(cfg)

	router, err := httpx.NewRouter(cfg, httpx.Deps{
		Store: store,
		Cache: userCache,
		Prom:  prom,
	})
	if err != nil {
		log.Error("router setup failed", "err", err)
		os.Exit(1)
	}

	adapter := lambdaapi.New(router)

	if cfg.OTLPEndpoint == "" {
		lambda.Start(adapter.Handle)
		return
	}

	tp, err := observability.InitTracer(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("otel init failed", "err", err)
		lambda.Start(adapter.Handle)
		return
	}

	lambda.Start(otellambda.InstrumentHandler(adapter.Handle,
		otellambda.WithTracerProvider(tp),
		otellambda.WithFlusher(tp),
	))
}
