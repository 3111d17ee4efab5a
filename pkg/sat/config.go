package sat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var ConfigPath = "config.json"

// Config holds the executable paths of the external SAT solvers.
type Config struct {
	KissatPath        string `mapstructure:"kissatPath"`
	CadicalPath       string `mapstructure:"cadicalPath"`
	CryptominisatPath string `mapstructure:"cryptominisatPath"`
	MinisatPath       string `mapstructure:"minisatPath"`
	GlucoseSimpPath   string `mapstructure:"glucoseSimpPath"`
	SlimePath         string `mapstructure:"slimePath"`
	OrtoolsatPath     string `mapstructure:"ortoolsatPath"`
}

// DefaultConfig expects every solver to be reachable through PATH.
func DefaultConfig() Config {
	return Config{
		KissatPath:        "kissat",
		CadicalPath:       "cadical",
		CryptominisatPath: "cryptominisat5",
		MinisatPath:       "minisat",
		GlucoseSimpPath:   "glucose-simp",
		SlimePath:         "slime",
		OrtoolsatPath:     "ortoolsat",
	}
}

// LoadConfig reads a JSON or YAML solver configuration. Missing keys keep their default value.
func LoadConfig(path string) (Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot read solver config %q", path)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = json.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot parse solver config %q", path)
	}

	config := DefaultConfig()
	if err := mapstructure.Decode(raw, &config); err != nil {
		return Config{}, errors.Wrapf(err, "invalid solver config %q", path)
	}
	return config, nil
}
