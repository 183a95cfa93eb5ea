// Package export writes extraction records as indented JSON or as a
// one-row CSV of the flattened record.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Write encodes v to w in the given format.
func Write(w io.Writer, v any, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatCSV:
		return writeCSV(w, v)
	default:
		return fmt.Errorf("export format %q: %w", format, domain.ErrUnsupportedFormat)
	}
}

func writeCSV(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return fmt.Errorf("csv export needs an object: %w", err)
	}

	flat := make(map[string]string)
	Flatten(record, "", flat)
	if len(flat) == 0 {
		return nil
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	row := make([]string, len(keys))
	for i, k := range keys {
		row[i] = flat[k]
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(keys); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Flatten joins nested keys with "_". Lists of scalars become a
// comma-separated value; other lists collapse to their length.
func Flatten(m map[string]any, parent string, out map[string]string) {
	for k, v := range m {
		key := k
		if parent != "" {
			key = parent + "_" + k
		}
		switch t := v.(type) {
		case map[string]any:
			Flatten(t, key, out)
		case []any:
			if len(t) > 0 && isScalar(t[0]) {
				parts := make([]string, len(t))
				for i, e := range t {
					parts[i] = scalar(e)
				}
				out[key] = strings.Join(parts, ", ")
			} else {
				out[key] = strconv.Itoa(len(t))
			}
		default:
			out[key] = scalar(t)
		}
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, json.Number, bool:
		return true
	}
	return false
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
