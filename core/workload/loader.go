package workload

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Load reads the workload file at path in full and parses it. Files with a
// .yaml or .yml extension are decoded as YAML, anything else as text.
func Load(path string) (Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Workload{}, &IOError{Op: "read", Path: path, Err: err}
	}
	var w Workload
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		w, err = DecodeYAML(bytes.NewReader(data))
	default:
		w, err = Parse(bytes.NewReader(data))
	}
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = path
		}
		return Workload{}, err
	}
	return w, nil
}
