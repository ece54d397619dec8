package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vitalsign/healthqa/core"
)

// LoadCSV reads the corpus dataset from the file at path. The dataset is a
// CSV table with a header row naming Question, qtype and Answer columns in
// any order. The store's fingerprint is derived from the full file content.
func LoadCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	entries, err := parseCSV(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	return NewStore(entries, core.Fingerprint(data))
}

// LoadReader reads the corpus dataset from r. Intended for tests and for
// callers that source the dataset from somewhere other than a local file.
func LoadReader(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	entries, err := parseCSV(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	return NewStore(entries, core.Fingerprint(data))
}

func parseCSV(r io.Reader) ([]core.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading corpus header: %w", err)
	}

	qCol, labelCol, aCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question":
			qCol = i
		case "qtype", "label":
			labelCol = i
		case "answer":
			aCol = i
		}
	}
	if qCol < 0 || labelCol < 0 || aCol < 0 {
		return nil, fmt.Errorf("%w: header %v", ErrMissingColumns, header)
	}

	var entries []core.Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading corpus row: %w", err)
		}
		if len(record) <= qCol || len(record) <= labelCol || len(record) <= aCol {
			continue
		}

		entry := core.Entry{
			Question: strings.TrimSpace(record[qCol]),
			Label:    strings.TrimSpace(strings.ToLower(record[labelCol])),
			Answer:   strings.TrimSpace(record[aCol]),
		}
		// Rows with missing fields are skipped, not fatal.
		if core.ValidateEntry(&entry) != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	return entries, nil
}
