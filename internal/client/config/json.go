package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// JsonConfig is the on-disk form of Config. Absent keys keep earlier values.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url" yaml:"server_url"`
	SessionDir     *string         `json:"session_dir" yaml:"session_dir"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
}

func parseJson(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &jc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &jc)
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.SessionDir != nil {
		cfg.SessionDir = *jc.SessionDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
