package consolidate

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/outputs"
	"github.com/nrminor/alpine-explorer/pkg/readers"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAnachronTree builds a search tree whose geographies each carry one
// anachronistic metadata directory with the given table content.
func newAnachronTree(t *testing.T, tables map[string]string, order []string) *models.SearchTree {
	t.Helper()
	root := t.TempDir()
	branches := make([]models.SearchBranch, 0, len(order))
	for _, geo := range order {
		dir := filepath.Join(root, geo, "metadata_candidates")
		if err := os.MkdirAll(dir, 0750); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
		if content, ok := tables[geo]; ok {
			path := filepath.Join(dir, readers.AnachronFile)
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatalf("failed to write %s: %v", path, err)
			}
		}
		branches = append(branches, models.SearchBranch{
			ParentDir: filepath.Join(root, geo),
			Geography: geo,
			Anachron:  dir,
		})
	}
	return models.NewSearchTree(branches)
}

func newManager(t *testing.T) *outputs.Manager {
	t.Helper()
	m, err := outputs.NewManager(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	return m
}

// readAll decodes a consolidated Arrow file into its schema and all rows as
// strings ("" for nulls), flattening record batches.
func readAll(t *testing.T, path string) (*arrow.Schema, [][]string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f)
	if err != nil {
		t.Fatalf("failed to open arrow reader: %v", err)
	}
	defer r.Close()

	schema := r.Schema()
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("failed to read record batch: %v", err)
		}
		for i := 0; i < int(rec.NumRows()); i++ {
			row := make([]string, rec.NumCols())
			for j := 0; j < int(rec.NumCols()); j++ {
				col := rec.Column(j)
				if col.IsNull(i) {
					continue
				}
				row[j] = col.ValueStr(i)
			}
			rows = append(rows, row)
		}
	}
	return schema, rows
}

func TestConsolidate_TagsAndConcatenates(t *testing.T) {
	tree := newAnachronTree(t, map[string]string{
		"Europe": "Accession\tDate\nE1\t2021-01-01\nE2\t2021-02-01\n",
		"Asia":   "Accession\tDate\nA1\t2021-03-01\n",
	}, []string{"Europe", "Asia"})
	manager := newManager(t)

	path, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead)
	if err != nil {
		t.Fatalf("Consolidate() failed: %v", err)
	}
	if path == "" {
		t.Fatal("Consolidate() produced no output despite contributors")
	}

	schema, rows := readAll(t, path)
	wantCols := []string{GeographyColumn, "Accession", "Date"}
	if schema.NumFields() != len(wantCols) {
		t.Fatalf("got %d columns, want %d", schema.NumFields(), len(wantCols))
	}
	for i, name := range wantCols {
		if schema.Field(i).Name != name {
			t.Errorf("column %d = %q, want %q", i, schema.Field(i).Name, name)
		}
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "Europe" || rows[2][0] != "Asia" {
		t.Errorf("geography tags wrong: %q ... %q", rows[0][0], rows[2][0])
	}
	if rows[2][1] != "A1" {
		t.Errorf("rows[2] accession = %q, want %q", rows[2][1], "A1")
	}
}

func TestConsolidate_ByNameColumnMapping(t *testing.T) {
	// First contributor fixes the schema. The second has its columns
	// reordered, one missing, and one extra.
	tree := newAnachronTree(t, map[string]string{
		"Europe": "Accession\tDate\tLineage\nE1\t2021-01-01\tB.1\n",
		"Asia":   "Lineage\tAccession\tNotes\nB.2\tA1\tdropped\n",
	}, []string{"Europe", "Asia"})
	manager := newManager(t)

	path, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead)
	if err != nil {
		t.Fatalf("Consolidate() failed: %v", err)
	}

	schema, rows := readAll(t, path)
	if schema.NumFields() != 4 {
		t.Fatalf("got %d columns, want 4 (Geography + first contributor's 3)", schema.NumFields())
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	asia := rows[1]
	if asia[1] != "A1" {
		t.Errorf("reordered Accession = %q, want %q", asia[1], "A1")
	}
	if asia[2] != "" {
		t.Errorf("missing Date should be null, got %q", asia[2])
	}
	if asia[3] != "B.2" {
		t.Errorf("reordered Lineage = %q, want %q", asia[3], "B.2")
	}
	for i := 0; i < schema.NumFields(); i++ {
		if schema.Field(i).Name == "Notes" {
			t.Error("extra column from a later contributor must be dropped")
		}
	}
}

func TestConsolidate_NoContributors(t *testing.T) {
	// Directories located but the fixed-name tables are absent.
	tree := newAnachronTree(t, nil, []string{"Europe", "Asia"})
	manager := newManager(t)

	path, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead)
	if err != nil {
		t.Fatalf("Consolidate() failed: %v", err)
	}
	if path != "" {
		t.Errorf("Consolidate() = %q, want no output", path)
	}
	if _, err := os.Stat(manager.ConsolidatedPath(outputs.CategoryAnachron)); !os.IsNotExist(err) {
		t.Error("no Arrow file should exist for an empty category")
	}
}

func TestConsolidate_AbsentDirectorySkipped(t *testing.T) {
	tree := newAnachronTree(t, map[string]string{
		"Europe": "Accession\nE1\n",
	}, []string{"Europe"})
	// Append a geography with no located directory at all.
	branches := append(tree.Branches, models.SearchBranch{Geography: "Nowhere"})
	tree = models.NewSearchTree(branches)
	manager := newManager(t)

	path, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead)
	if err != nil {
		t.Fatalf("Consolidate() failed: %v", err)
	}
	_, rows := readAll(t, path)
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestConsolidate_InfersColumnTypes(t *testing.T) {
	tree := newAnachronTree(t, map[string]string{
		"Europe": "Count\tScore\tLabel\tSparse\n" +
			"1\t0.5\tfoo\t\n" +
			"2\t3\tbar\t7\n" +
			"3\t2.25\t9\t\n",
	}, []string{"Europe"})
	manager := newManager(t)

	path, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead)
	if err != nil {
		t.Fatalf("Consolidate() failed: %v", err)
	}

	schema, rows := readAll(t, path)
	wantTypes := map[string]arrow.DataType{
		GeographyColumn: arrow.BinaryTypes.String,
		"Count":         arrow.PrimitiveTypes.Int64,
		"Score":         arrow.PrimitiveTypes.Float64,
		"Label":         arrow.BinaryTypes.String,
		"Sparse":        arrow.PrimitiveTypes.Int64,
	}
	for i := 0; i < schema.NumFields(); i++ {
		field := schema.Field(i)
		if !arrow.TypeEqual(field.Type, wantTypes[field.Name]) {
			t.Errorf("column %q type = %v, want %v", field.Name, field.Type, wantTypes[field.Name])
		}
	}

	// Empty cells surface as nulls.
	if rows[0][4] != "" {
		t.Errorf("Sparse row 0 should be null, got %q", rows[0][4])
	}
	if rows[1][4] != "7" {
		t.Errorf("Sparse row 1 = %q, want %q", rows[1][4], "7")
	}
}

func TestConsolidate_StagingCleanedUp(t *testing.T) {
	tree := newAnachronTree(t, map[string]string{
		"Europe": "Accession\nE1\n",
	}, []string{"Europe"})
	manager := newManager(t)

	if _, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead); err != nil {
		t.Fatalf("Consolidate() failed: %v", err)
	}

	entries, err := os.ReadDir(manager.BaseDir())
	if err != nil {
		t.Fatalf("failed to list output dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".staging-") {
			t.Errorf("staging file %s left behind", entry.Name())
		}
	}
}

func TestConsolidate_Idempotent(t *testing.T) {
	tables := map[string]string{
		"Europe": "Accession\tDate\nE1\t2021-01-01\nE2\t2021-02-01\n",
		"Asia":   "Accession\tDate\nA1\t2021-03-01\n",
	}
	order := []string{"Europe", "Asia"}

	tree := newAnachronTree(t, tables, order)
	manager := newManager(t)

	first, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead)
	if err != nil {
		t.Fatalf("first Consolidate() failed: %v", err)
	}
	firstSchema, firstRows := readAll(t, first)

	second, err := Consolidate(testLogger(), tree, manager, outputs.CategoryAnachron, models.MinLookahead)
	if err != nil {
		t.Fatalf("second Consolidate() failed: %v", err)
	}
	secondSchema, secondRows := readAll(t, second)

	if !firstSchema.Equal(secondSchema) {
		t.Error("schemas differ between identical runs")
	}
	if len(firstRows) != len(secondRows) {
		t.Fatalf("row counts differ: %d vs %d", len(firstRows), len(secondRows))
	}
	for i := range firstRows {
		for j := range firstRows[i] {
			if firstRows[i][j] != secondRows[i][j] {
				t.Errorf("row %d col %d differs: %q vs %q", i, j, firstRows[i][j], secondRows[i][j])
			}
		}
	}
}
