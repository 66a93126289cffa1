package model

import "errors"

var (
	// ErrUnsupportedFormat 前 N 行内没有任何已注册格式匹配；整个文件被拒绝，不产生输出
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyDataset 表头之后立即遇到终止行；仅用于报告，不中断流水线
	ErrEmptyDataset = errors.New("empty dataset")
)
