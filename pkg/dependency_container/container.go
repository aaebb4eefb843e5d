package dependency_container

import (
	"github.com/rantcrypto/cmcgate/pkg/app/forwarding"
	"github.com/rantcrypto/cmcgate/pkg/config"
	"github.com/rantcrypto/cmcgate/pkg/domain/endpoint"
	handlers "github.com/rantcrypto/cmcgate/pkg/handlers/http"
	"github.com/rantcrypto/cmcgate/pkg/infra/httpx"
	"github.com/rantcrypto/cmcgate/pkg/server/middleware"
	"github.com/rantcrypto/cmcgate/pkg/server/router"
	"github.com/sirupsen/logrus"
)

const breakerName = "coinmarketcap"

type Container struct {
	Catalog             *endpoint.Catalog
	HTTPClient          httpx.Client
	CircuitBreaker      httpx.CircuitBreaker
	Forwarder           forwarding.Forwarder
	HandlerTransport    handlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
	ProxyRouter         router.ServerRouter
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	// HTTPClient replaces the fasthttp client when set.
	HTTPClient httpx.Client
}

func NewContainer(di ContainerDI) (*Container, error) {
	upstream := di.Cfg.Upstream

	httpClient := di.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewFastHTTPClient(
			httpx.WithTimeout(upstream.Timeout),
			httpx.WithMaxConnsPerHost(upstream.MaxConnsPerHost),
			httpx.WithUserAgent(upstream.UserAgent),
		)
	}

	breaker := httpx.NewNoopCircuitBreaker()
	if upstream.CircuitBreaker.Enabled {
		breaker = httpx.NewCircuitBreaker(
			breakerName,
			upstream.CircuitBreaker.Timeout,
			upstream.CircuitBreaker.MaxFailures,
			di.Logger,
		)
	}

	if upstream.APIKey == "" {
		di.Logger.Warn("no upstream api key configured; relayed calls will be rejected with 401")
	}

	forwarder := forwarding.NewForwarder(upstream, httpClient, breaker, di.Logger)

	catalog := endpoint.Default()
	forwarded := make(map[string]handlers.Handler, catalog.Len())
	for _, ep := range catalog.All() {
		forwarded[ep.Key()] = handlers.NewForwardedHandler(di.Logger, forwarder, ep)
	}

	handlerTransport := handlers.HandlerTransport{
		ForwardedHandlers:    forwarded,
		GetVersionHandler:    handlers.NewGetVersionHandler(di.Logger),
		ListEndpointsHandler: handlers.NewListEndpointsHandler(catalog),
	}

	// Order matters: metrics must wrap the access log, which renders errors.
	middlewareTransport := middleware.NewTransport(
		middleware.NewTraceMiddleware(),
		middleware.NewMetricsMiddleware(),
		middleware.NewAccessLogMiddleware(di.Logger),
		middleware.NewPanicRecoverMiddleware(di.Logger),
	)

	return &Container{
		Catalog:             catalog,
		HTTPClient:          httpClient,
		CircuitBreaker:      breaker,
		Forwarder:           forwarder,
		HandlerTransport:    handlerTransport,
		MiddlewareTransport: middlewareTransport,
		ProxyRouter:         router.NewProxyRouter(middlewareTransport, handlerTransport, catalog),
	}, nil
}
