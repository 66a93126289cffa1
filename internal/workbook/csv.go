package workbook

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV 读取分隔文本，自动识别 "," ";" 制表符 分隔，去掉 UTF-8 BOM
//
// 所有非空单元格都是 string，空单元格为 nil。
func ReadCSV(name string, r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = SniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		values := make([]any, len(rec))
		for j, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				values[j] = cell
			}
		}
		rows[i] = values
	}
	return NewGrid(name, rows), nil
}

// SniffDelimiter 根据前几行中引号外分隔符出现的次数选出分隔符，默认 ","
func SniffDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t'}
	counts := map[rune]int{}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lines := 0
	for sc.Scan() && lines < 5 {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines++
		inQuote := false
		for _, r := range line {
			if r == '"' {
				inQuote = !inQuote
				continue
			}
			if !inQuote {
				counts[r]++
			}
		}
	}

	best, bestCount := ',', 0
	for _, c := range candidates {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}
