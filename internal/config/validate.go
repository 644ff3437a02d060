package config

import (
	"errors"
	"fmt"
)

// Validate checks that the selected store backend has what it needs.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: invalid port %d", c.Server.Port))
	}

	switch c.Store.Type {
	case "local":
		if c.Store.BasePath == "" {
			errs = append(errs, errors.New("store.base_path is required for local store"))
		}
	case "bin":
		if c.Store.BaseURL == "" {
			errs = append(errs, errors.New("store.base_url is required for bin store"))
		}
		if c.Store.APIKey == "" {
			errs = append(errs, errors.New("store.api_key is required for bin store"))
		}
	case "cloudflare_r2":
		if c.Store.Endpoint == "" || c.Store.Bucket == "" {
			errs = append(errs, errors.New("store.endpoint and store.bucket are required for cloudflare_r2 store"))
		}
	case "s3":
		if c.Store.Bucket == "" || c.Store.Region == "" {
			errs = append(errs, errors.New("store.bucket and store.region are required for s3 store"))
		}
	case "database":
		switch c.Store.DatabaseDriver {
		case "postgres", "mysql", "sqlite":
		default:
			errs = append(errs, fmt.Errorf("store.database_driver: unsupported driver %q", c.Store.DatabaseDriver))
		}
		if c.Store.DatabaseDSN == "" {
			errs = append(errs, errors.New("store.database_dsn is required for database store"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.type: unsupported store type %q", c.Store.Type))
	}

	if c.Store.UsersBin == "" || c.Store.FeedbackBin == "" {
		errs = append(errs, errors.New("store.users_bin and store.feedback_bin are required"))
	}
	if c.Store.UsersBin != "" && c.Store.UsersBin == c.Store.FeedbackBin {
		errs = append(errs, errors.New("store.users_bin and store.feedback_bin must differ"))
	}

	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session.secret is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}

	if c.Analytics.PushInterval <= 0 {
		errs = append(errs, errors.New("analytics.push_interval must be positive"))
	}
	if c.Analytics.WindowDays < 0 {
		errs = append(errs, errors.New("analytics.window_days must not be negative"))
	}
	if c.Analytics.TimeSeriesDays <= 0 {
		errs = append(errs, errors.New("analytics.time_series_days must be positive"))
	}

	return errors.Join(errs...)
}
