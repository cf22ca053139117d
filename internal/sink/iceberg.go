// Iceberg is a stub secondary output target (SPEC_FULL.md §B.4): like
// Delta, it accumulates Parquet part-files via the existing Parquet
// sink, but on Finish emits a one-shot Iceberg table — a single
// metadata.json with one snapshot and a manifest list referencing every
// data file — rather than a full iceberg-go client integration (not
// present anywhere in the retrieval pack). No partitioning, no schema
// evolution, no delete files.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/google/uuid"
)

type icebergDataFile struct {
	FilePath    string `json:"file_path"`
	FileFormat  string `json:"file_format"`
	RecordCount int64  `json:"record_count"`
	FileSizeBytes int64 `json:"file_size_in_bytes"`
}

// Iceberg writes an Iceberg table directory: one Parquet data file per
// batch under data/, plus metadata/v1.json and metadata/manifest-list.json
// describing a single snapshot over all of them.
type Iceberg struct {
	dir       string
	dataFiles []icebergDataFile
	partN     int
}

// NewIceberg returns an Iceberg sink rooted at dir, which must already
// exist. Its data/ and metadata/ subdirectories are created on demand.
func NewIceberg(dir string) *Iceberg {
	return &Iceberg{dir: dir}
}

// Write encodes rec as its own Parquet data file under dir/data/.
func (ic *Iceberg) Write(rec arrow.Record) error {
	dataDir := filepath.Join(ic.dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("data-%05d-%s.parquet", ic.partN, uuid.NewString())
	ic.partN++

	path := filepath.Join(dataDir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	pq, err := NewParquet(rec.Schema(), f, f)
	if err != nil {
		return err
	}
	if err := pq.Write(rec); err != nil {
		return err
	}
	if err := pq.Finish(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	ic.dataFiles = append(ic.dataFiles, icebergDataFile{
		FilePath:      filepath.Join("data", name),
		FileFormat:    "PARQUET",
		RecordCount:   rec.NumRows(),
		FileSizeBytes: info.Size(),
	})
	return nil
}

// Finish writes metadata/v1.json (table metadata plus one snapshot) and
// metadata/manifest-list.json (the flat list of data files the snapshot
// covers — a real manifest-list/manifest-file split is out of scope for
// a stub this size).
func (ic *Iceberg) Finish() error {
	metaDir := filepath.Join(ic.dir, "metadata")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return err
	}

	snapshotID := time.Now().UnixNano()
	metadata := map[string]any{
		"format-version": 2,
		"table-uuid":     uuid.NewString(),
		"current-snapshot-id": snapshotID,
		"snapshots": []map[string]any{{
			"snapshot-id":   snapshotID,
			"timestamp-ms":  time.Now().UnixMilli(),
			"manifest-list": "metadata/manifest-list.json",
			"summary":       map[string]string{"operation": "append"},
		}},
	}

	mf, err := os.Create(filepath.Join(metaDir, "v1.json"))
	if err != nil {
		return err
	}
	defer func() {
		_ = mf.Close()
	}()
	if err := json.NewEncoder(mf).Encode(metadata); err != nil {
		return err
	}

	lf, err := os.Create(filepath.Join(metaDir, "manifest-list.json"))
	if err != nil {
		return err
	}
	defer func() {
		_ = lf.Close()
	}()
	return json.NewEncoder(lf).Encode(ic.dataFiles)
}
