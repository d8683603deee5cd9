package setup

import (
	"context"
	netHTTP "net/http"

	"github.com/bornholm/taskboard/internal/config"
	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/http"
	"github.com/bornholm/taskboard/internal/http/handler/metrics"
	"github.com/bornholm/taskboard/internal/http/middleware/authz"
	"github.com/bornholm/taskboard/internal/http/middleware/ratelimit"
	"github.com/pkg/errors"
)

func NewHTTPServerFromConfig(ctx context.Context, conf *config.Config) (*http.Server, error) {
	api, err := getAPIHandlerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure api handler from config")
	}

	authnMiddleware, err := getAuthnMiddlewareFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure authn middleware from config")
	}

	var apiHandler netHTTP.Handler = authnMiddleware(api)

	if conf.HTTP.RateLimit.Enabled {
		rateLimitMiddleware := ratelimit.Middleware(
			conf.HTTP.RateLimit.Interval,
			conf.HTTP.RateLimit.MaxBurst,
			conf.HTTP.RateLimit.CacheSize,
			conf.HTTP.RateLimit.CacheTTL,
		)

		apiHandler = rateLimitMiddleware(apiHandler)
	}

	options := []http.OptionFunc{
		http.WithAddress(conf.HTTP.Address),
		http.WithBaseURL(conf.HTTP.BaseURL),
		http.WithMount("/api/v1/", apiHandler),
		http.WithMount("/metrics/", authnMiddleware(authz.Middleware(authz.Has(model.RoleAdmin))(metrics.NewHandler()))),
	}

	server := http.NewServer(options...)

	return server, nil
}
