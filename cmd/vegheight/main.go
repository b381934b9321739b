// Command vegheight derives vegetation rasters from CIR, DTM and DSM GeoTIFFs.
//
// Usage:
//
//	vegheight index   -cir cir.tif -out msavi.tif
//	vegheight fill    -dtm dtm.tif -out dtm_filled.tif
//	vegheight height  -dtm dtm.tif -dsm dsm.tif -out rel_height.tif
//	vegheight highveg -index msavi.tif -height rel_height.tif -out high_veg.tif
//	vegheight run     -cir cir.tif -dtm dtm.tif -dsm dsm.tif -out high_veg.tif
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wgdzlh/vegheight"
	"github.com/wgdzlh/vegheight/log"

	"go.uber.org/zap"
)

type options struct {
	configPath string
	verbose    bool
	warp       string

	cir, dtm, dsm, index, height, out string

	nodata       float64
	minVegHeight float64
	highVeg      float64
	resolution   float64
	searchDist   int
	smoothing    int
	mode         string
	fillDsm      bool
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <index|fill|height|highveg|run> [flags]\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	code := exitCode(os.Stderr, cmd, run(cmd, os.Args[2:]))
	log.Sync()
	os.Exit(code)
}

// -h时flag包已打印用法，不作为错误输出
func exitCode(w io.Writer, cmd string, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	fmt.Fprintf(w, "vegheight %s: %v\n", cmd, err)
	return 1
}

func run(cmd string, args []string) (err error) {
	var o options
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to a .json or .yaml config file")
	fs.BoolVar(&o.verbose, "v", false, "enable debug logging")
	fs.StringVar(&o.warp, "warp", "exec", "resampler: exec (gdalwarp binary) or inproc (GDAL warp API)")
	fs.StringVar(&o.out, "out", "", "output GeoTIFF")
	fs.Float64Var(&o.nodata, "nodata", vegheight.DEFAULT_NODATA, "nodata sentinel of derived rasters")
	switch cmd {
	case "index":
		fs.StringVar(&o.cir, "cir", "", "color-infrared image")
	case "fill":
		fs.StringVar(&o.dtm, "dtm", "", "elevation model to fill")
		fs.IntVar(&o.searchDist, "search", vegheight.DEFAULT_SEARCH_DISTANCE, "max search distance in pixels")
		fs.IntVar(&o.smoothing, "smooth", 0, "smoothing passes over filled cells")
	case "height":
		fs.StringVar(&o.dtm, "dtm", "", "terrain model")
		fs.StringVar(&o.dsm, "dsm", "", "surface model")
	case "highveg", "run":
		if cmd == "highveg" {
			fs.StringVar(&o.index, "index", "", "vegetation index raster")
			fs.StringVar(&o.height, "height", "", "relative height raster")
		} else {
			fs.StringVar(&o.cir, "cir", "", "color-infrared image")
			fs.StringVar(&o.dtm, "dtm", "", "terrain model")
			fs.StringVar(&o.dsm, "dsm", "", "surface model")
			fs.IntVar(&o.searchDist, "search", vegheight.DEFAULT_SEARCH_DISTANCE, "max search distance in pixels")
			fs.IntVar(&o.smoothing, "smooth", 0, "smoothing passes over filled cells")
			fs.BoolVar(&o.fillDsm, "fill-dsm", false, "also fill gaps in the DSM")
		}
		fs.Float64Var(&o.minVegHeight, "min-height", vegheight.DEFAULT_MIN_VEG_HEIGHT, "minimum vegetation height in meters")
		fs.Float64Var(&o.highVeg, "min-index", vegheight.DEFAULT_HIGH_VEG_INDEX, "minimum index of high vegetation")
		fs.Float64Var(&o.resolution, "resolution", 0, "resample the height raster to this resolution first (0 disables)")
		fs.StringVar(&o.mode, "mode", vegheight.MODE_HIGH_VEG, "output: high, green or height")
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	if err = fs.Parse(args); err != nil {
		return
	}
	log.SetDebug(o.verbose)

	cfg, err := loadConfig(fs, o)
	if err != nil {
		return
	}
	var rs vegheight.Resampler
	switch o.warp {
	case "exec":
	case "inproc":
		rs = vegheight.WarpResampler{Method: cfg.ResampleMethod}
	default:
		return fmt.Errorf("unknown resampler %q", o.warp)
	}
	store := vegheight.NewRasterStore(cfg.TmpDir)
	defer store.Close()
	p, err := vegheight.NewPipeline(cfg, store, rs)
	if err != nil {
		return
	}
	log.Info("start "+cmd, zap.String("config", o.configPath))
	switch cmd {
	case "index":
		err = p.CreateGreenIndex(o.cir, o.out)
	case "fill":
		err = p.FillDtmGaps(o.dtm, o.out)
	case "height":
		err = p.CalcRelativeHeight(o.dtm, o.dsm, o.out)
	case "highveg":
		err = p.CalcHighVegetation(o.index, o.height, o.out)
	case "run":
		err = p.Run(vegheight.Paths{Cir: o.cir, Dtm: o.dtm, Dsm: o.dsm, Output: o.out})
	}
	return
}

// 配置文件为基础，命令行显式给出的参数覆盖之
func loadConfig(fs *flag.FlagSet, o options) (cfg vegheight.Config, err error) {
	cfg = vegheight.DefaultConfig()
	if o.configPath != "" {
		if cfg, err = vegheight.LoadConfig(o.configPath); err != nil {
			return
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nodata":
			cfg.NoData = o.nodata
		case "search":
			cfg.MaxSearchDistance = o.searchDist
		case "smooth":
			cfg.SmoothingPasses = o.smoothing
		case "fill-dsm":
			cfg.FillDsm = o.fillDsm
		case "min-height":
			cfg.MinVegHeight = o.minVegHeight
		case "min-index":
			cfg.HighVegThreshold = o.highVeg
		case "resolution":
			cfg.Resolution = o.resolution
		case "mode":
			cfg.Mode = o.mode
		}
	})
	err = cfg.Validate()
	return
}
