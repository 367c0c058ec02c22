package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/feasibility-cli/internal/config"
	"github.com/sells-group/feasibility-cli/internal/resilience"
	"github.com/sells-group/feasibility-cli/internal/store"
	"github.com/sells-group/feasibility-cli/pkg/feasapi"
)

// initStore opens the configured store and applies its schema.
func initStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch sc.Driver {
	case "memory":
		st = store.NewMemory()
	case "sqlite":
		dsn := sc.DatabaseURL
		if dsn == "" {
			dsn = "feasibility.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, sc.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", sc.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// initAPI builds the analysis API client wrapped in the configured fallback policy.
func initAPI(ac config.APIConfig) (*feasapi.Fallback, error) {
	policy, err := feasapi.ParseFallbackPolicy(ac.Fallback)
	if err != nil {
		return nil, err
	}

	retry := resilience.SingleAttempt()
	if ac.MaxAttempts > 1 {
		retry = resilience.DefaultRetryConfig()
		retry.MaxAttempts = ac.MaxAttempts
	}

	client := feasapi.NewClient(
		feasapi.WithBaseURL(ac.BaseURL),
		feasapi.WithTimeout(time.Duration(ac.TimeoutSecs)*time.Second),
		feasapi.WithRateLimit(ac.RateLimit),
		feasapi.WithRetry(retry),
	)
	return feasapi.NewFallback(client, policy), nil
}
