package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/diwise/csvcube/internal/pkg/application/cubebuilder"
	"github.com/diwise/csvcube/pkg/csvw"
)

// writeResult writes the data csv and csv-w document of a cube, followed by
// the csv and csv-w document of each of its local code lists
func writeResult(dir string, result *cubebuilder.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	files := []string{}

	write := func(name string, contents func(io.Writer) error) error {
		if err := writeFile(filepath.Join(dir, name), contents); err != nil {
			return err
		}

		files = append(files, name)
		return nil
	}

	id := result.Identifier()

	if result.Data != nil {
		if err := write(csvw.CSVFileName(id), result.WriteData); err != nil {
			return nil, err
		}
	}

	if err := write(csvw.MetadataFileName(id), writeJSON(result.Metadata)); err != nil {
		return nil, err
	}

	for _, cl := range result.CodeLists {
		clid := cl.CodeList.Identifier()

		err := write(csvw.CSVFileName(clid), func(w io.Writer) error {
			return csvw.WriteCodeListCSV(w, cl.CodeList)
		})
		if err != nil {
			return nil, err
		}

		if err = write(csvw.MetadataFileName(clid), writeJSON(cl.Metadata)); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// writeFile only reports a file as written once it has been closed
func writeFile(path string, contents func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err = contents(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func writeJSON(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
}
