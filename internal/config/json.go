package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	API struct {
		BaseURL        string   `json:"base_url"`
		HealthPath     string   `json:"health_path"`
		RequestTimeout Duration `json:"request_timeout"`
		HealthTimeout  Duration `json:"health_timeout"`
	} `json:"api,omitempty"`

	Monitor struct {
		StartupDelay  Duration `json:"startup_delay"`
		CheckInterval Duration `json:"check_interval"`
		ProbeInterval Duration `json:"probe_interval"`
	} `json:"monitor,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Shell struct {
		CacheDir       string   `json:"cache_dir"`
		CacheVersion   string   `json:"cache_version"`
		GatewayAddress string   `json:"gateway_address"`
		Assets         []string `json:"assets"`
	} `json:"shell,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		API: API{
			BaseURL:        jsonCfg.API.BaseURL,
			HealthPath:     jsonCfg.API.HealthPath,
			RequestTimeout: time.Duration(jsonCfg.API.RequestTimeout),
			HealthTimeout:  time.Duration(jsonCfg.API.HealthTimeout),
		},
		Monitor: Monitor{
			StartupDelay:  time.Duration(jsonCfg.Monitor.StartupDelay),
			CheckInterval: time.Duration(jsonCfg.Monitor.CheckInterval),
			ProbeInterval: time.Duration(jsonCfg.Monitor.ProbeInterval),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Shell: Shell{
			CacheDir:       jsonCfg.Shell.CacheDir,
			CacheVersion:   jsonCfg.Shell.CacheVersion,
			GatewayAddress: jsonCfg.Shell.GatewayAddress,
			Assets:         jsonCfg.Shell.Assets,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
