package apischema

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteOptions controls how output files are written
type WriteOptions struct {
	// Pretty indents the JSON output
	Pretty bool
	// Compress gzips every file and appends .gz to its name
	Compress bool
}

// Serialize converts v to JSON. The output is deterministic: map keys are
// sorted and ordered schema properties keep their order.
func Serialize(v interface{}, pretty bool) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("nothing to serialize")
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize api schema: %w", err)
	}
	return data, nil
}

// Compress compresses data using gzip at best compression
func Compress(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFiles writes one <projectEndpoint>.json file per namespace plus the
// combined apischema.json into dir, returning the written paths
func WriteFiles(a *ApiSchema, dir string, opts WriteOptions) ([]string, error) {
	if a == nil {
		return nil, fmt.Errorf("api schema cannot be nil")
	}
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var written []string
	write := func(name string, v interface{}) error {
		data, err := Serialize(v, opts.Pretty)
		if err != nil {
			return err
		}
		if opts.Compress {
			if data, err = Compress(data); err != nil {
				return err
			}
			name += ".gz"
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, name := range a.NamespaceOrder {
		ns := a.Namespaces[name]
		if err := write(ns.ProjectEndpointName+".json", ns); err != nil {
			return written, err
		}
	}
	if err := write("apischema.json", a); err != nil {
		return written, err
	}
	return written, nil
}
