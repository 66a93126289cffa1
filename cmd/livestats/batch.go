package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"livestats/internal/importer"
	"livestats/internal/model"
)

type batchOptions struct {
	Mode    model.OutputMode
	OutDir  string
	Workers int
}

type batchResult struct {
	Input   string
	Output  string
	Summary model.ProcessSummary
	Err     error
}

// runBatch 并发处理多个文件，单个文件失败不影响其他文件；
// 有文件失败时返回汇总错误
func runBatch(ctx context.Context, coordinator *importer.Coordinator, files []string, opts batchOptions) ([]batchResult, error) {
	results := make([]batchResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = processFile(ctx, coordinator, path, opts)
			// 取消时停止派发剩余文件
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, filepath.Base(r.Input))
		}
	}
	if len(failed) > 0 {
		return results, fmt.Errorf("%d file(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return results, nil
}

func processFile(ctx context.Context, coordinator *importer.Coordinator, path string, opts batchOptions) batchResult {
	res := batchResult{Input: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}

	out, err := coordinator.Run(ctx, importer.ProcessOptions{Filename: path, Data: data, Mode: opts.Mode}, nil)
	if err != nil {
		res.Err = err
		if errors.Is(err, model.ErrUnsupportedFormat) {
			res.Summary.Status = model.ProcessStatusRejected
		}
		return res
	}
	defer out.Book.Close()
	res.Summary = out.Summary

	res.Output = outputPath(path, opts.OutDir)
	if err := os.MkdirAll(filepath.Dir(res.Output), 0755); err != nil {
		res.Err = err
		return res
	}
	if err := out.Book.SaveAs(res.Output); err != nil {
		res.Err = fmt.Errorf("save %s: %w", res.Output, err)
	}
	return res
}

// outputPath 输出文件：<目录>/<原文件名>_livestats.xlsx
func outputPath(input, outDir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "_livestats.xlsx"
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, name)
}

func printBatchReport(w io.Writer, results []batchResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tFORMAT\tSTATUS\tROWS\tDAYS\tOUTPUT")
	for _, r := range results {
		if r.Input == "" {
			continue
		}
		status := string(r.Summary.Status)
		output := r.Output
		if r.Err != nil {
			if status == "" {
				status = string(model.ProcessStatusError)
			}
			output = r.Err.Error()
		}
		format := string(r.Summary.Format)
		if format == "" {
			format = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			filepath.Base(r.Input), format, status, r.Summary.Rows, r.Summary.Days, output)
	}
	_ = tw.Flush()
}
