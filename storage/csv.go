package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Scalingo/repos-languages/model"
	log "github.com/sirupsen/logrus"
)

// header of every table file, there is no index column
var header = []string{"repos_names", "repos_languages"}

// WriteTable serializes the table as comma separated values, creating parent directories
func WriteTable(path string, table model.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", model.ErrCSVWrite, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrCSVWrite, err)
	}

	if err := EncodeTable(f, table); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrCSVWrite, err)
	}

	log.WithFields(log.Fields{
		"path": path,
		"rows": table.Len(),
	}).Debug("table written")

	return nil
}

// EncodeTable writes the header then one record per repository
func EncodeTable(w io.Writer, table model.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("%w: %v", model.ErrCSVWrite, err)
	}

	for _, row := range table.Rows() {
		if err := writer.Write([]string{row.Name, row.Language}); err != nil {
			return fmt.Errorf("%w: %v", model.ErrCSVWrite, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrCSVWrite, err)
	}

	return nil
}

// ReadTable loads a table previously written by WriteTable
func ReadTable(path string) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("%w: %w", model.ErrCSVRead, err)
	}
	defer f.Close()

	return DecodeTable(f)
}

// DecodeTable parses a table, the header row must match the one written by EncodeTable
func DecodeTable(r io.Reader) (model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return model.Table{}, fmt.Errorf("%w: missing header", model.ErrCSVRead)
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("%w: %v", model.ErrCSVRead, err)
	}

	if first[0] != header[0] || first[1] != header[1] {
		return model.Table{}, fmt.Errorf("%w: unexpected header %v", model.ErrCSVRead, first)
	}

	names := make([]string, 0)
	languages := make([]string, 0)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Table{}, fmt.Errorf("%w: %v", model.ErrCSVRead, err)
		}

		names = append(names, record[0])
		languages = append(languages, record[1])
	}

	return model.NewTable(names, languages)
}
