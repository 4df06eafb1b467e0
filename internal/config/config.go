package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Rasters RastersConfig `yaml:"rasters" mapstructure:"rasters"`
	Zones   ZonesConfig   `yaml:"zones" mapstructure:"zones"`
	Species SpeciesConfig `yaml:"species" mapstructure:"species"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// RasterSource points at one raster layer and its unit normalization.
// Scale and offset turn raw values into workflow units (degrees Celsius,
// positive meters of depth): a Kelvin composite uses offset -273.15, a
// negative-elevation bathymetry layer uses scale -1.
type RasterSource struct {
	Path   string  `yaml:"path" mapstructure:"path"`
	Var    string  `yaml:"var" mapstructure:"var"`
	Scale  float64 `yaml:"scale" mapstructure:"scale"`
	Offset float64 `yaml:"offset" mapstructure:"offset"`
}

// RastersConfig configures the environmental input layers.
type RastersConfig struct {
	SST   []RasterSource `yaml:"sst" mapstructure:"sst"`
	Depth RasterSource   `yaml:"depth" mapstructure:"depth"`
	EPSG  int            `yaml:"epsg" mapstructure:"epsg"`
}

// ZonesConfig configures the zone shapefile.
type ZonesConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	IDField   string `yaml:"id_field" mapstructure:"id_field"`
	NameField string `yaml:"name_field" mapstructure:"name_field"`
	EPSG      int    `yaml:"epsg" mapstructure:"epsg"`
}

// SpeciesConfig configures the species profile file.
type SpeciesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig configures rendered artifacts.
type OutputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	MapWidth int    `yaml:"map_width" mapstructure:"map_width"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HABITAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("rasters.epsg", 4326)
	v.SetDefault("rasters.depth.scale", 1.0)
	v.SetDefault("zones.id_field", "rgn_id")
	v.SetDefault("zones.name_field", "rgn")
	v.SetDefault("zones.epsg", 4326)
	v.SetDefault("species.path", "species.yaml")
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.map_width", 1000)
	v.SetDefault("store.path", "habitat.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// A zero scale would erase every raster value; treat it as unset.
	for i := range cfg.Rasters.SST {
		if cfg.Rasters.SST[i].Scale == 0 {
			cfg.Rasters.SST[i].Scale = 1
		}
	}
	if cfg.Rasters.Depth.Scale == 0 {
		cfg.Rasters.Depth.Scale = 1
	}

	return &cfg, nil
}

// Validate checks that the named section has what its commands need.
func (c *Config) Validate(section string) error {
	switch section {
	case "rasters":
		if len(c.Rasters.SST) == 0 {
			return eris.New("config: rasters.sst requires at least one layer")
		}
		for i, s := range c.Rasters.SST {
			if s.Path == "" {
				return eris.Errorf("config: rasters.sst[%d].path is required", i)
			}
		}
		if c.Rasters.Depth.Path == "" {
			return eris.New("config: rasters.depth.path is required")
		}
	case "zones":
		if c.Zones.Path == "" {
			return eris.New("config: zones.path is required")
		}
	case "store":
		if c.Store.Path == "" {
			return eris.New("config: store.path is required")
		}
	default:
		return eris.Errorf("config: unknown section %q", section)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
