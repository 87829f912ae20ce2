// Package dataset decodes JSON and JSONL files into generic record
// sequences. The freshness core never touches the filesystem; this is
// the boundary layer that feeds it.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a dataset file and returns its records in file order.
//
// Accepted shapes: a JSON array of objects, a single JSON object
// (wrapped into a one-element sequence), or JSONL with one object per
// line. Blank JSONL lines are skipped; a malformed line fails the load —
// the file is the unit of trust here, per-record tolerance belongs to
// batch evaluation.
func Load(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Decode(data)
}

// Decode parses raw dataset bytes, JSON first and JSONL as fallback.
func Decode(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	// Whole-file JSON: array of objects or a single object.
	if trimmed[0] == '[' {
		var records []map[string]any
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("parse json array: %w", err)
		}
		return records, nil
	}

	// A single object may be pretty-printed across lines, so try the
	// whole file first; only when that fails is the input a JSONL
	// stream whose first record happens to open it.
	var record map[string]any
	if err := json.Unmarshal(trimmed, &record); err == nil {
		return []map[string]any{record}, nil
	}

	return decodeLines(trimmed)
}

func decodeLines(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB line buffer

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("parse jsonl line %d: %w", lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl: %w", err)
	}
	return records, nil
}
