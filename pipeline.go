package vegheight

import (
	"fmt"
	"os"

	"github.com/wgdzlh/vegheight/log"
	"github.com/wgdzlh/vegheight/utils"

	"go.uber.org/zap"
)

// 植被高度处理流程
type Pipeline struct {
	cfg       Config
	store     *RasterStore
	resampler Resampler
	logTag    string
}

// 输入输出路径
type Paths struct {
	Cir    string
	Dtm    string
	Dsm    string
	Output string
}

// store为空时按cfg.TmpDir新建，设置了分辨率但rs为空时使用gdalwarp命令
func NewPipeline(cfg Config, store *RasterStore, rs Resampler) (p *Pipeline, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	if store == nil {
		store = NewRasterStore(cfg.TmpDir)
	}
	if rs == nil && cfg.Resolution > 0 {
		rs = GdalwarpCommand{Binary: cfg.GdalwarpPath, Method: cfg.ResampleMethod}
	}
	p = &Pipeline{
		cfg:       cfg,
		store:     store,
		resampler: rs,
		logTag:    "Pipeline:",
	}
	return
}

func validationErr(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// 由CIR影像计算MSAVI植被指数
func (p *Pipeline) CreateGreenIndex(cir, out string) (err error) {
	if err = utils.CheckPaths([2]string{"cir", cir}, [2]string{"output", out}); err != nil {
		return validationErr(err)
	}
	index, prof, err := p.readIndex(cir)
	if err != nil {
		return
	}
	if err = p.store.Write(out, index, prof); err != nil {
		return
	}
	log.Info(p.logTag+"created msavi index", zap.String("out", out), summaryField(index, p.cfg.NoData))
	return
}

// 填补DTM（或DSM）中的无效值
func (p *Pipeline) FillDtmGaps(dtm, out string) (err error) {
	if err = utils.CheckPaths([2]string{"dtm", dtm}, [2]string{"output", out}); err != nil {
		return validationErr(err)
	}
	l, prof, err := p.store.Read(dtm)
	if err != nil {
		return
	}
	filled, err := p.fillElevation(l, prof)
	if err != nil {
		return
	}
	if err = p.store.Write(out, filled, prof.Derived(p.cfg.NoData)); err != nil {
		return
	}
	log.Info(p.logTag+"filled dtm saved", zap.String("out", out), summaryField(filled, p.cfg.NoData))
	return
}

// 计算相对高度 DSM - DTM
func (p *Pipeline) CalcRelativeHeight(dtm, dsm, out string) (err error) {
	if err = utils.CheckPaths([2]string{"dtm", dtm}, [2]string{"dsm", dsm}, [2]string{"output", out}); err != nil {
		return validationErr(err)
	}
	terrain, tProf, err := p.store.Read(dtm)
	if err != nil {
		return
	}
	surface, sProf, err := p.store.Read(dsm)
	if err != nil {
		return
	}
	p.checkSrs("dtm/dsm", tProf, sProf)
	terrain = normalizeDeclared(terrain, tProf, p.cfg.NoData)
	surface = normalizeDeclared(surface, sProf, p.cfg.NoData)
	height, err := RelativeHeight(terrain, surface, p.cfg.NoData)
	if err != nil {
		log.Error(p.logTag+"calc relative height failed", zap.Error(err))
		return
	}
	if err = p.store.Write(out, height, sProf.Derived(p.cfg.NoData)); err != nil {
		return
	}
	log.Info(p.logTag+"relative height saved", zap.String("out", out), summaryField(height, p.cfg.NoData))
	return
}

// 由植被指数与相对高度栅格计算高植被
func (p *Pipeline) CalcHighVegetation(indexPath, heightPath, out string) (err error) {
	if err = utils.CheckPaths([2]string{"index", indexPath}, [2]string{"height", heightPath}, [2]string{"output", out}); err != nil {
		return validationErr(err)
	}
	index, iProf, err := p.store.Read(indexPath)
	if err != nil {
		return
	}
	index = normalizeDeclared(index, iProf, p.cfg.NoData)
	var (
		height *Layer
		hProf  Profile
	)
	if p.resampling() {
		err = p.withTmpDir(func(dir string) (e error) {
			dst := utils.GetUniqFilePath(dir, TMP_RESAMPLED_TIF)
			if e = p.resampler.Resample(heightPath, dst, p.cfg.Resolution, p.cfg.NoData); e != nil {
				return
			}
			height, hProf, e = p.store.Read(dst)
			return
		})
	} else {
		height, hProf, err = p.store.Read(heightPath)
	}
	if err != nil {
		return
	}
	height = normalizeDeclared(height, hProf, p.cfg.NoData)
	veg, prof, err := p.classifyLayers(index, iProf, height, hProf)
	if err != nil {
		return
	}
	if err = p.store.Write(out, veg, prof); err != nil {
		return
	}
	log.Info(p.logTag+"vegetation raster saved", zap.String("mode", p.cfg.Mode), zap.String("out", out),
		summaryField(veg, p.cfg.NoData))
	return
}

// 由CIR、DTM、DSM一次生成植被栅格，仅重采样经过临时目录
func (p *Pipeline) Run(paths Paths) (err error) {
	if err = utils.CheckPaths([2]string{"cir", paths.Cir}, [2]string{"dtm", paths.Dtm},
		[2]string{"dsm", paths.Dsm}, [2]string{"output", paths.Output}); err != nil {
		return validationErr(err)
	}
	log.Info(p.logTag+"start run", zap.String("cir", paths.Cir), zap.String("dtm", paths.Dtm),
		zap.String("dsm", paths.Dsm), zap.String("out", paths.Output), zap.String("mode", p.cfg.Mode))

	dtm, tProf, err := p.store.Read(paths.Dtm)
	if err != nil {
		return
	}
	terrain, err := p.fillElevation(dtm, tProf)
	if err != nil {
		return
	}
	log.Info(p.logTag+"filled dtm", summaryField(terrain, p.cfg.NoData))

	dsm, sProf, err := p.store.Read(paths.Dsm)
	if err != nil {
		return
	}
	p.checkSrs("dtm/dsm", tProf, sProf)
	var surface *Layer
	if p.cfg.FillDsm {
		if surface, err = p.fillElevation(dsm, sProf); err != nil {
			return
		}
	} else {
		surface = normalizeDeclared(dsm, sProf, p.cfg.NoData)
	}
	height, err := RelativeHeight(terrain, surface, p.cfg.NoData)
	if err != nil {
		log.Error(p.logTag+"calc relative height failed", zap.Error(err))
		return
	}
	hProf := sProf.Derived(p.cfg.NoData)
	log.Info(p.logTag+"calculated relative height", summaryField(height, p.cfg.NoData))

	if p.resampling() {
		if height, hProf, err = p.resampleLayer(height, hProf); err != nil {
			return
		}
		height = normalizeDeclared(height, hProf, p.cfg.NoData)
	}

	index, iProf, err := p.readIndex(paths.Cir)
	if err != nil {
		return
	}
	log.Info(p.logTag+"created msavi index", summaryField(index, p.cfg.NoData))

	veg, prof, err := p.classifyLayers(index, iProf, height, hProf)
	if err != nil {
		return
	}
	if err = p.store.Write(paths.Output, veg, prof); err != nil {
		return
	}
	log.Info(p.logTag+"vegetation raster saved", zap.String("mode", p.cfg.Mode), zap.String("out", paths.Output),
		summaryField(veg, p.cfg.NoData))
	return
}

func (p *Pipeline) readIndex(cir string) (index *Layer, prof Profile, err error) {
	bands, cProf, err := p.store.ReadBands(cir, p.cfg.BandA, p.cfg.BandB)
	if err != nil {
		return
	}
	opts := IndexOptions{
		NoData:          p.cfg.NoData,
		SourceNoData:    cProf.NoData,
		HasSourceNoData: cProf.HasNoData,
		Scale:           p.cfg.IndexScale,
	}
	log.Debug(p.logTag+"calc msavi", zap.String("cir", cir), zap.Stringer("opts", opts))
	if index, err = Msavi(bands[0], bands[1], opts); err != nil {
		return
	}
	prof = cProf.Derived(p.cfg.NoData)
	return
}

// 声明的nodata及超出高程区间的值归一化后填补
func (p *Pipeline) fillElevation(l *Layer, prof Profile) (filled *Layer, err error) {
	norm := normalizeDeclared(l, prof, p.cfg.NoData)
	norm = RemapOutOfRange(norm, p.cfg.NoData, p.cfg.NoData, p.cfg.ElevationRange())
	mask := InvalidMask(norm, p.cfg.NoData)
	log.Debug(p.logTag+"fill elevation gaps", zap.Int("invalid", countTrue(mask)),
		zap.Int("maxSearch", p.cfg.MaxSearchDistance), zap.Int("smoothing", p.cfg.SmoothingPasses))
	filled, err = FillGaps(norm, mask, p.cfg.FillOptions())
	return
}

// 将指数栅格对齐到高度栅格后分类，返回结果及其profile
func (p *Pipeline) classifyLayers(index *Layer, iProf Profile, height *Layer, hProf Profile) (out *Layer, prof Profile, err error) {
	p.checkSrs("index/height", iProf, hProf)
	d := ShapeDeltaOf(index, height)
	if d != (ShapeDelta{}) {
		if index, err = Reconcile(index, height); err != nil {
			log.Error(p.logTag+"align index to height failed", zap.Stringer("delta", d), zap.Error(err))
			return
		}
		log.Info(p.logTag+"clipped index raster", zap.Stringer("delta", d))
	}
	prof = ReconcileProfile(iProf, d).Derived(p.cfg.NoData)
	o := p.cfg.ClassifyOptions()
	switch p.cfg.Mode {
	case MODE_GREEN:
		out = GreenMask(index, o)
	case MODE_VEG_HEIGHT:
		out, err = VegetationHeight(index, height, o)
	default:
		out, err = HighVegetation(index, height, o)
	}
	return
}

func (p *Pipeline) resampling() bool {
	return p.resampler != nil && p.cfg.Resolution > 0
}

func (p *Pipeline) withTmpDir(fn func(dir string) error) (err error) {
	parent := p.cfg.TmpDir
	if parent == "" {
		parent = p.store.TmpDir()
	}
	dir, err := utils.GetUniqSubDir(parent)
	if err != nil {
		log.Error(p.logTag+"create tmp dir failed", zap.Error(err))
		err = fmt.Errorf("%w: tmp dir: %v", ErrWrite, err)
		return
	}
	if !p.cfg.KeepTemp {
		defer os.RemoveAll(dir)
	}
	return fn(dir)
}

// 经临时文件重采样内存中的栅格
func (p *Pipeline) resampleLayer(l *Layer, prof Profile) (out *Layer, outProf Profile, err error) {
	err = p.withTmpDir(func(dir string) (e error) {
		src := utils.GetUniqFilePath(dir, TMP_HEIGHT_TIF)
		dst := utils.GetUniqFilePath(dir, TMP_RESAMPLED_TIF)
		if e = p.store.Write(src, l, prof); e != nil {
			return
		}
		if e = p.resampler.Resample(src, dst, p.cfg.Resolution, p.cfg.NoData); e != nil {
			return
		}
		out, outProf, e = p.store.Read(dst)
		return
	})
	return
}

func (p *Pipeline) checkSrs(what string, a, b Profile) {
	same, err := p.store.SameSrs(a, b)
	if err != nil || !same {
		log.Warn(p.logTag+"layers differ in srs", zap.String("layers", what), zap.Error(err))
	}
}
