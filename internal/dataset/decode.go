// Package dataset reads raw meteorite records from files, SQLite or S3 and
// compiles NASA CSV exports into the JSON dataset format.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// RootKey is the top-level member holding the records
const RootKey = "meteorites"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Decompress wraps r in a gzip or zstd reader when the stream starts with
// their magic bytes, and returns it unchanged otherwise
func Decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return io.NopCloser(br), nil
	}
}

// Decode reads {"meteorites": {"<key>": {...}, ...}} keeping document order.
// Other top-level members are ignored.
func Decode(r io.Reader) ([]models.RawMeteorite, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var records []models.RawMeteorite
	found := false
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != RootKey {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("failed to skip %q: %w", key, err)
			}
			continue
		}

		found = true
		records, err = decodeRecords(dec)
		if err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("dataset has no %q member", RootKey)
	}
	return records, nil
}

func decodeRecords(dec *json.Decoder) ([]models.RawMeteorite, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var records []models.RawMeteorite
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var m models.RawMeteorite
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode meteorite %q: %w", key, err)
		}
		m.SourceKey = key
		records = append(records, m)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return records, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("failed to read dataset: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("malformed dataset: expected %q, got %v", want, tok)
	}
	return nil
}

// Encode writes records in the dataset format, keyed by SourceKey
func Encode(w io.Writer, records []models.RawMeteorite) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("{\n    \"" + RootKey + "\": {"); err != nil {
		return err
	}

	for i, m := range records {
		key, err := json.Marshal(m.SourceKey)
		if err != nil {
			return err
		}
		body, err := json.MarshalIndent(m, "        ", "    ")
		if err != nil {
			return fmt.Errorf("failed to encode meteorite %s: %w", m.SourceKey, err)
		}

		sep := ","
		if i == 0 {
			sep = ""
		}
		fmt.Fprintf(bw, "%s\n        %s: %s", sep, key, body)
	}

	if len(records) > 0 {
		bw.WriteString("\n    ")
	}
	bw.WriteString("}\n}\n")
	return bw.Flush()
}
