package consolidate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
)

// inferSchema scans up to lookahead staged rows and decides each column's
// Arrow type: int64 when every non-empty value parses as an integer,
// float64 when every non-empty value parses as a number, string otherwise.
// Empty cells are nulls and do not vote. All columns are nullable.
func inferSchema(stagingPath string, lookahead int) (*arrow.Schema, error) {
	f, err := os.Open(stagingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen staging file: %w", err)
	}
	defer f.Close()

	cr := newTSVReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("staging file has no header: %w", err)
	}

	canInt := make([]bool, len(header))
	canFloat := make([]bool, len(header))
	for i := range header {
		canInt[i] = true
		canFloat[i] = true
	}
	// The geography tag is always a string.
	canInt[0] = false
	canFloat[0] = false

	for scanned := 0; scanned < lookahead; scanned++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan staging file: %w", err)
		}
		for i, val := range record {
			if i >= len(header) || val == "" {
				continue
			}
			if canInt[i] {
				if _, err := strconv.ParseInt(val, 10, 64); err != nil {
					canInt[i] = false
				}
			}
			if canFloat[i] {
				if _, err := strconv.ParseFloat(val, 64); err != nil {
					canFloat[i] = false
				}
			}
		}
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		var typ arrow.DataType
		switch {
		case canInt[i]:
			typ = arrow.PrimitiveTypes.Int64
		case canFloat[i]:
			typ = arrow.PrimitiveTypes.Float64
		default:
			typ = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: name, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}
