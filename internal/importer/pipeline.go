package importer

import (
	"fmt"
	"time"

	"livestats/internal/exporter"
	"livestats/internal/format"
	"livestats/internal/model"
	"livestats/internal/parser"
	"livestats/internal/workbook"
)

// Pipeline 单文件转换：探测格式 → 数据边界 → 清洗 → 聚合
//
// 同一个 Pipeline 可被多个 goroutine 共用，每次调用独占自己的输入和输出。
type Pipeline struct {
	registry *format.Registry
	loc      *time.Location
}

// NewPipeline 创建转换流水线
func NewPipeline(registry *format.Registry, loc *time.Location) *Pipeline {
	if registry == nil {
		registry = format.NewDefaultRegistry()
	}
	if loc == nil {
		loc = parser.LoadLocation(parser.DefaultTimeZone)
	}
	return &Pipeline{registry: registry, loc: loc}
}

// Registry 格式注册表
func (p *Pipeline) Registry() *format.Registry { return p.registry }

// Outcome 转换结果
type Outcome struct {
	Detection format.Detection
	Shape     model.DataShape
	Records   []*model.CleanRecord
	Report    *exporter.Report
}

// Transform 执行转换，写出 Raw Data、Clean Data、Metrics、Summary、Trend 五个 sheet
//
// 格式无法识别时返回 ErrUnsupportedFormat，不写任何 sheet；空数据集不是错误，
// 各 sheet 只写表头。
func (p *Pipeline) Transform(in workbook.Input, out workbook.Output, mode model.OutputMode, progress exporter.ProgressFunc) (*Outcome, error) {
	report(progress, 5, "detect")
	det := p.registry.DetectFormat(in)
	if !det.Supported() {
		return &Outcome{Detection: det}, fmt.Errorf("%s: %w", in.Name(), model.ErrUnsupportedFormat)
	}

	sheets := make(map[string]workbook.Sheet, 5)
	for _, name := range model.OutputSheets() {
		s, err := out.AddSheet(name)
		if err != nil {
			return nil, err
		}
		sheets[name] = s
	}

	report(progress, 15, "raw")
	if err := exporter.CopyRaw(in, sheets[model.SheetRawData]); err != nil {
		return nil, err
	}

	report(progress, 30, "shape")
	shape := DetectDataLength(in, det.StartRow, det.Schema)

	report(progress, 40, "normalize")
	records, err := NewNormalizer(p.loc, mode).CleanAndCopy(in, sheets[model.SheetCleanData], shape, det.Schema)
	if err != nil {
		return nil, err
	}

	ds := exporter.NewDataset(det.Schema, shape, records)
	rep, err := exporter.NewExporter(mode).Export(
		sheets[model.SheetMetrics], sheets[model.SheetSummary], sheets[model.SheetTrend], ds, progress)
	if err != nil {
		return nil, err
	}

	report(progress, 100, "done")
	return &Outcome{Detection: det, Shape: shape, Records: records, Report: rep}, nil
}

func report(progress exporter.ProgressFunc, percent int, stage string) {
	if progress != nil {
		progress(exporter.ProgressEvent{Percent: percent, Stage: stage})
	}
}
