package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Horizon:         24,
			ExtendedHorizon: 32,
			TopCount:        3,
			Workers:         runtime.NumCPU(),
			Dominance:       "latest",
			Bound:           true,
		},
		Server: ServerConfig{
			Port:      50051,
			RateLimit: RateLimitConfig{Requests: 20, Burst: 40},
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			Path:    "geodes.db",
			Host:    "localhost",
			Port:    5432,
			User:    "geode",
			Name:    "geode",
			SSLMode: "disable",
		},
		Metrics: MetricsConfig{
			Host: "localhost",
			Port: 9090,
			Path: "/metrics",
		},
	}
}

// registerDefaults seeds viper so unset keys fall back to Default
// and environment variables are picked up for every key.
func registerDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("solver.horizon", d.Solver.Horizon)
	v.SetDefault("solver.extended_horizon", d.Solver.ExtendedHorizon)
	v.SetDefault("solver.top_count", d.Solver.TopCount)
	v.SetDefault("solver.workers", d.Solver.Workers)
	v.SetDefault("solver.timeout", d.Solver.Timeout)
	v.SetDefault("solver.dominance", d.Solver.Dominance)
	v.SetDefault("solver.bound", d.Solver.Bound)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit.requests", d.Server.RateLimit.Requests)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)

	v.SetDefault("database.enabled", d.Database.Enabled)
	v.SetDefault("database.type", d.Database.Type)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.name", d.Database.Name)
	v.SetDefault("database.sslmode", d.Database.SSLMode)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.host", d.Metrics.Host)
	v.SetDefault("metrics.port", d.Metrics.Port)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("logging.verbose", d.Logging.Verbose)
}
