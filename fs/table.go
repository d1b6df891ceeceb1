package fs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/linkbot"
)

// ReadTable decodes a JSON array of flat objects. Columns follow the key
// order of the first object; values missing from later objects are empty.
func ReadTable(r io.Reader) (*linkbot.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	t := &linkbot.Table{}
	for dec.More() {
		keys, values, err := readObject(dec)
		if err != nil {
			return nil, err
		}
		if t.Columns == nil {
			t.Columns = keys
		}
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = values[c]
		}
		t.Rows = append(t.Rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return nil, linkbot.Errorf(linkbot.EINVALID, "no records to convert")
	}
	return t, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return linkbot.Errorf(linkbot.EINVALID, "invalid JSON: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return linkbot.Errorf(linkbot.EINVALID, "invalid JSON: expected %q, got %v", want, tok)
	}
	return nil
}

// readObject reads one object and renders every value as a string.
func readObject(dec *json.Decoder) ([]string, map[string]string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	var keys []string
	values := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, linkbot.Errorf(linkbot.EINVALID, "invalid JSON: %v", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, linkbot.Errorf(linkbot.EINVALID, "invalid JSON: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, linkbot.Errorf(linkbot.EINVALID, "invalid JSON: %v", err)
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = cellValue(raw)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

func cellValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// Ensure CSVWriter implements linkbot.TableWriter at compile time.
var _ linkbot.TableWriter = CSVWriter{}

// CSVWriter encodes a table as CSV with a header row.
type CSVWriter struct{}

func (CSVWriter) Ext() string {
	return ".csv"
}

func (CSVWriter) WriteTable(w io.Writer, t *linkbot.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ConvertFile reads the JSON array at src and writes it next to src with
// the writer's extension. It returns the path written.
func ConvertFile(src string, tw linkbot.TableWriter) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}

	dst := strings.TrimSuffix(src, ".json") + tw.Ext()
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if err := tw.WriteTable(out, t); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}
