package readers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestSequenceCount(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    int
		wantErr error
	}{
		{
			name:    "single column",
			content: "num_seqs\n1000\n",
			want:    1000,
		},
		{
			name:    "num_seqs among other columns",
			content: "file\tformat\tnum_seqs\tsum_len\nin.fasta\tFASTA\t512\t15360\n",
			want:    512,
		},
		{
			name:    "first row authoritative",
			content: "num_seqs\n7\n9999\n",
			want:    7,
		},
		{
			name:    "missing column",
			content: "format\tsum_len\nFASTA\t100\n",
			wantErr: ErrMalformedStats,
		},
		{
			name:    "no data rows",
			content: "num_seqs\n",
			wantErr: ErrMalformedStats,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: ErrMalformedStats,
		},
		{
			name:    "non-integer value",
			content: "num_seqs\nlots\n",
			wantErr: ErrMalformedStats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "stats.tsv", tt.content)
			got, err := SequenceCount(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SequenceCount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SequenceCount() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SequenceCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSequenceCount_MissingFile(t *testing.T) {
	_, err := SequenceCount(filepath.Join(t.TempDir(), "nope.tsv"))
	if err == nil {
		t.Error("SequenceCount() should fail for a missing file")
	}
}

func TestMetadataRowCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "three candidates",
			content: "Accession\tDate\nA1\t2021-01-01\nA2\t2021-02-01\nA3\t2021-03-01\n",
			want:    3,
		},
		{
			name:    "header only means zero candidates",
			content: "Accession\tDate\n",
			want:    0,
		},
		{
			name:    "empty file means zero candidates",
			content: "",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, AnachronFile, tt.content)
			got, err := AnachronCount(dir)
			if err != nil {
				t.Fatalf("AnachronCount() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("AnachronCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMetadataRowCount_MissingFile(t *testing.T) {
	dir := t.TempDir()
	// Directory exists, expected file does not.
	_, err := HighDistCount(dir)
	if !errors.Is(err, ErrMissingMetadataFile) {
		t.Errorf("HighDistCount() error = %v, want ErrMissingMetadataFile", err)
	}
}

func TestMetadataRowCount_HighDistFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, HighDistFile, "Accession\nB1\nB2\n")

	got, err := HighDistCount(dir)
	if err != nil {
		t.Fatalf("HighDistCount() failed: %v", err)
	}
	if got != 2 {
		t.Errorf("HighDistCount() = %d, want 2", got)
	}
}
