package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-api-url hub API base URL
//	-health-path health endpoint path
//	-request-timeout API request timeout (e.g., "15s")
//	-health-timeout health check abort timeout (e.g., "3s")
//	-startup-delay delay before the initial silent check (e.g., "2s")
//	-check-interval period between silent health checks
//	-probe-interval period between link-state probes
//	-d local database DSN (SQLite file path)
//	-cache-dir shell cache root directory
//	-cache-version shell cache generation tag
//	-gateway-address shell gateway address in format [host]:[port]
//	-assets comma-separated shell asset paths
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var gatewayAddress NetAddress
	var apiBaseURL string
	var healthPath string
	var requestTimeout time.Duration
	var healthTimeout time.Duration
	var startupDelay time.Duration
	var checkInterval time.Duration
	var probeInterval time.Duration
	var databaseDSN string
	var cacheDir string
	var cacheVersion string
	var assets string
	var jsonConfigPath string

	flag.StringVar(&apiBaseURL, "api-url", "", "Hub API base URL")
	flag.StringVar(&healthPath, "health-path", "", "Health endpoint path")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "API request timeout (e.g., 15s)")
	flag.DurationVar(&healthTimeout, "health-timeout", 0, "Health check abort timeout (e.g., 3s)")
	flag.DurationVar(&startupDelay, "startup-delay", 0, "Delay before initial silent check (e.g., 2s)")
	flag.DurationVar(&checkInterval, "check-interval", 0, "Period between silent health checks")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Period between link-state probes")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.StringVar(&cacheDir, "cache-dir", "", "Shell cache root directory")
	flag.StringVar(&cacheVersion, "cache-version", "", "Shell cache generation tag")
	flag.Var(&gatewayAddress, "gateway-address", "Shell gateway net address host:port")
	flag.StringVar(&assets, "assets", "", "Comma-separated shell asset paths")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		API: API{
			BaseURL:        apiBaseURL,
			HealthPath:     healthPath,
			RequestTimeout: requestTimeout,
			HealthTimeout:  healthTimeout,
		},
		Monitor: Monitor{
			StartupDelay:  startupDelay,
			CheckInterval: checkInterval,
			ProbeInterval: probeInterval,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Shell: Shell{
			CacheDir:       cacheDir,
			CacheVersion:   cacheVersion,
			GatewayAddress: gatewayAddress.String(),
			Assets:         splitAssets(assets),
		},
		JSONFilePath: jsonConfigPath,
	}
}

func splitAssets(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	assets := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			assets = append(assets, p)
		}
	}
	return assets
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
