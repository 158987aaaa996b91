// Package config loads process configuration from the environment using
// struct tags, matching the teacher's mcpsvr/config shape.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the gRPC server's process configuration.
type Config struct {
	// ListenAddr is the TCP address the server binds, e.g. ":8443". Empty
	// lets the OS choose a port (local/dev mode).
	ListenAddr string `env:"LISTEN_ADDR"`
	// TLSCertFile/TLSKeyFile enable transport credentials when both are set.
	// Neither set means the server listens with insecure credentials
	// (local/dev mode only).
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
	// CatalogTTL overrides the server's default TTL stamped on list
	// responses (spec §4.D); zero keeps server.DefaultCatalogTTL.
	CatalogTTL time.Duration `env:"CATALOG_TTL"`
	// HealthProbeDelay/CancellationDelay tune the shutdown drain sequence,
	// ported from svrcore's ShutdownMgrConfig.
	HealthProbeDelay  time.Duration `env:"HEALTH_PROBE_DELAY" envDefault:"2s"`
	CancellationDelay time.Duration `env:"CANCELLATION_DELAY" envDefault:"3s"`
	// Local enables development conveniences: it permits running without a
	// TLS certificate (insecure credentials) and prints the listen address
	// as JSON at startup.
	Local bool `env:"LOCAL"`
}

func (c *Config) validate() error {
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must both be set or both be empty")
	}
	if c.TLSCertFile == "" && !c.Local {
		return errors.New("no TLS certificate configured and LOCAL is not set")
	}
	return nil
}

// Get returns the process-wide Config, parsed from the environment on first
// call and cached thereafter.
var Get = sync.OnceValue(func() *Config {
	cfg := &Config{}
	err := env.ParseWithOptions(cfg, env.Options{Prefix: "MCPGRPC_"})
	if err == nil {
		err = cfg.validate()
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return cfg
})
