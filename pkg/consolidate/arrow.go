package consolidate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// batchSize bounds how many staged rows are resident while materializing.
const batchSize = 1024

// materialize streams the staged table into a zstd-compressed Arrow IPC
// file, inferring the schema from the first lookahead rows.
func materialize(stagingPath, outPath string, lookahead int) error {
	schema, err := inferSchema(stagingPath, lookahead)
	if err != nil {
		return err
	}

	f, err := os.Open(stagingPath)
	if err != nil {
		return fmt.Errorf("failed to reopen staging file: %w", err)
	}
	defer f.Close()

	cr := newTSVReader(f)
	if _, err := cr.Read(); err != nil {
		return fmt.Errorf("staging file has no header: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer out.Close()

	w, err := ipc.NewFileWriter(out, ipc.WithSchema(schema), ipc.WithZstd())
	if err != nil {
		return fmt.Errorf("failed to open arrow writer: %w", err)
	}

	bldr := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer bldr.Release()

	flush := func() error {
		rec := bldr.NewRecord()
		defer rec.Release()
		return w.Write(rec)
	}

	pending := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.Close()
			return fmt.Errorf("failed to read staging file: %w", err)
		}

		for i := range schema.Fields() {
			val := ""
			if i < len(record) {
				val = record[i]
			}
			appendValue(bldr.Field(i), val)
		}
		pending++
		if pending == batchSize {
			if err := flush(); err != nil {
				w.Close()
				return fmt.Errorf("failed to write arrow batch: %w", err)
			}
			pending = 0
		}
	}

	if pending > 0 {
		if err := flush(); err != nil {
			w.Close()
			return fmt.Errorf("failed to write arrow batch: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}
	return nil
}

// appendValue appends one cell to a column builder. Empty cells are nulls,
// and so are values that no longer fit the type inferred from the
// lookahead window; a stray late value must not abort the run.
func appendValue(b array.Builder, val string) {
	if val == "" {
		b.AppendNull()
		return
	}
	switch bldr := b.(type) {
	case *array.Int64Builder:
		if n, err := strconv.ParseInt(val, 10, 64); err != nil {
			bldr.AppendNull()
		} else {
			bldr.Append(n)
		}
	case *array.Float64Builder:
		if x, err := strconv.ParseFloat(val, 64); err != nil {
			bldr.AppendNull()
		} else {
			bldr.Append(x)
		}
	case *array.StringBuilder:
		bldr.Append(val)
	default:
		b.AppendNull()
	}
}
