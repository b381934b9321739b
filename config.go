package vegheight

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_NODATA = -9999.0

	// 荷兰最高点322.7m，超过1000m的DTM值视为无效
	DEFAULT_MAX_ELEVATION = 1000.0
	DEFAULT_MIN_ELEVATION = -1000.0

	DEFAULT_SEARCH_DISTANCE = 1
	DEFAULT_GREEN_THRESHOLD = 0.0
	DEFAULT_HIGH_VEG_INDEX  = 0.3
	DEFAULT_MIN_VEG_HEIGHT  = 2.0

	DEFAULT_RESAMPLE_METHOD = "near"
	DEFAULT_GDALWARP        = "gdalwarp"

	MODE_HIGH_VEG   = "high"
	MODE_GREEN      = "green"
	MODE_VEG_HEIGHT = "height"

	TMP_HEIGHT_TIF    = "height_%s.tif"
	TMP_RESAMPLED_TIF = "height_resampled_%s.tif"

	maxConfigSize = 1 << 20
)

// DEFLATE + 水平差分预测 + 最高压缩级别
var DefaultCreationOptions = []string{"COMPRESS=DEFLATE", "PREDICTOR=2", "ZLEVEL=9"}

// 流程参数，配置文件中缺省的字段取DefaultConfig的值
type Config struct {
	NoData float64 `json:"nodata" yaml:"nodata"`

	// DTM normalization and gap filling
	MinElevation      float64 `json:"min_elevation" yaml:"min_elevation"`
	MaxElevation      float64 `json:"max_elevation" yaml:"max_elevation"`
	MaxSearchDistance int     `json:"max_search_distance" yaml:"max_search_distance"`
	SmoothingPasses   int     `json:"smoothing_passes" yaml:"smoothing_passes"`
	FillDsm           bool    `json:"fill_dsm" yaml:"fill_dsm"`

	// spectral index, bands are 1-based
	BandA      int     `json:"band_a" yaml:"band_a"`
	BandB      int     `json:"band_b" yaml:"band_b"`
	IndexScale float64 `json:"index_scale" yaml:"index_scale"`

	// classification
	Mode             string  `json:"mode" yaml:"mode"`
	GreenThreshold   float64 `json:"green_threshold" yaml:"green_threshold"`
	HighVegThreshold float64 `json:"high_veg_threshold" yaml:"high_veg_threshold"`
	MinVegHeight     float64 `json:"min_veg_height" yaml:"min_veg_height"`

	// resampling of the height raster before classification, 0 disables it
	Resolution     float64 `json:"resolution" yaml:"resolution"`
	ResampleMethod string  `json:"resample_method" yaml:"resample_method"`
	GdalwarpPath   string  `json:"gdalwarp_path" yaml:"gdalwarp_path"`

	TmpDir   string `json:"tmp_dir" yaml:"tmp_dir"`
	KeepTemp bool   `json:"keep_temp" yaml:"keep_temp"`
}

func DefaultConfig() Config {
	return Config{
		NoData:            DEFAULT_NODATA,
		MinElevation:      DEFAULT_MIN_ELEVATION,
		MaxElevation:      DEFAULT_MAX_ELEVATION,
		MaxSearchDistance: DEFAULT_SEARCH_DISTANCE,
		BandA:             1,
		BandB:             2,
		IndexScale:        1,
		Mode:              MODE_HIGH_VEG,
		GreenThreshold:    DEFAULT_GREEN_THRESHOLD,
		HighVegThreshold:  DEFAULT_HIGH_VEG_INDEX,
		MinVegHeight:      DEFAULT_MIN_VEG_HEIGHT,
		ResampleMethod:    DEFAULT_RESAMPLE_METHOD,
		GdalwarpPath:      DEFAULT_GDALWARP,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MaxElevation <= c.MinElevation:
		return fmt.Errorf("%w: max_elevation %g must exceed min_elevation %g", ErrConfig, c.MaxElevation, c.MinElevation)
	case c.NoData >= c.MinElevation && c.NoData <= c.MaxElevation:
		return fmt.Errorf("%w: nodata %g lies inside the valid elevation range", ErrConfig, c.NoData)
	case c.MaxSearchDistance < 0:
		return fmt.Errorf("%w: max_search_distance must be >= 0", ErrConfig)
	case c.SmoothingPasses < 0:
		return fmt.Errorf("%w: smoothing_passes must be >= 0", ErrConfig)
	case c.BandA < 1 || c.BandB < 1:
		return fmt.Errorf("%w: band_a and band_b are 1-based", ErrConfig)
	case c.IndexScale <= 0:
		return fmt.Errorf("%w: index_scale must be > 0", ErrConfig)
	case c.Resolution < 0:
		return fmt.Errorf("%w: resolution must be >= 0", ErrConfig)
	}
	switch c.Mode {
	case MODE_HIGH_VEG, MODE_GREEN, MODE_VEG_HEIGHT:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrConfig, c.Mode)
	}
	return nil
}

func (c Config) FillOptions() FillOptions {
	return FillOptions{MaxSearchDistance: c.MaxSearchDistance, SmoothingPasses: c.SmoothingPasses}
}

func (c Config) ElevationRange() ValidRange {
	return ValidRange{Min: c.MinElevation, Max: c.MaxElevation}
}

func (c Config) ClassifyOptions() ClassifyOptions {
	return ClassifyOptions{
		NoData:           c.NoData,
		GreenThreshold:   c.GreenThreshold,
		HighVegThreshold: c.HighVegThreshold,
		MinVegHeight:     c.MinVegHeight,
	}
}

// 读取.json或.yaml/.yml配置文件，未出现的字段保留默认值
func LoadConfig(path string) (cfg Config, err error) {
	cfg = DefaultConfig()
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrConfig, err)
		return
	}
	if info.Size() > maxConfigSize {
		err = fmt.Errorf("%w: config file too large: %d bytes", ErrConfig, info.Size())
		return
	}
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrConfig, err)
		return
	}
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	default:
		err = fmt.Errorf("unsupported config extension %q", ext)
	}
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrConfig, cleanPath, err)
		return
	}
	err = cfg.Validate()
	return
}
