package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns (%d) must be >= database.min_conns (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}

	if err := validateBaseURL(c.BGG.BaseURL); err != nil {
		return fmt.Errorf("bgg.base_url: %w", err)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	if strings.HasSuffix(u.Path, "/") {
		return fmt.Errorf("must not end with a slash (got %q)", raw)
	}
	return nil
}
