package mail

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadError describes a failure reading or decoding a records file.
type LoadError struct {
	Path string
	Op   string // "open", "decode", "encode", "write"
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("records %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// isYAML reports whether the path should be treated as a YAML records file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadRecords reads a JSON array or YAML list of records. The format is chosen by extension;
// anything that is not .yaml/.yml is decoded as JSON.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}

	var records []Record
	if isYAML(path) {
		err = yaml.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Op: "decode", Err: err}
	}

	return records, nil
}

// WriteRecords writes records to path, as YAML for .yaml/.yml and indented JSON otherwise.
func WriteRecords(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(records)
	} else {
		data, err = json.MarshalIndent(records, "", "  ")
	}
	if err != nil {
		return &LoadError{Path: path, Op: "encode", Err: err}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return &LoadError{Path: path, Op: "write", Err: err}
	}
	return nil
}
