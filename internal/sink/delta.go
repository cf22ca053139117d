// Delta is a stub secondary output target (SPEC_FULL.md §B.4): it
// accumulates one Parquet part-file per Write call via the existing
// Parquet sink, then on Finish emits a single-commit Delta transaction
// log (Add actions only, schema-on-write, no checkpointing) — enough to
// produce a directory any Delta reader can open, without a full
// delta-go client (not present anywhere in the retrieval pack).
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

// Delta writes a Delta Lake table directory: one Parquet part-file per
// batch plus a `_delta_log/00000000000000000000.json` commit.
type Delta struct {
	dir    string
	schema *arrow.Schema
	adds   []deltaAddAction
	partN  int
}

type deltaAddAction struct {
	Path           string `json:"path"`
	Size           int64  `json:"size"`
	ModTime        int64  `json:"modificationTime"`
	DataChange     bool   `json:"dataChange"`
	PartitionValue map[string]string `json:"partitionValues"`
}

// NewDelta returns a Delta sink that writes part-files and the commit
// log under dir, which must already exist.
func NewDelta(dir string) *Delta {
	return &Delta{dir: dir}
}

// Write encodes rec as its own Parquet part-file and records an Add
// action for the eventual commit.
func (d *Delta) Write(rec arrow.Record) error {
	if d.schema == nil {
		d.schema = rec.Schema()
	}

	name := fmt.Sprintf("part-%05d-%s.snappy.parquet", d.partN, uuid.NewString())
	d.partN++

	f, err := os.Create(filepath.Join(d.dir, name))
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

	info, err := os.Stat(filepath.Join(d.dir, name))
	if err != nil {
		return err
	}

	d.adds = append(d.adds, deltaAddAction{
		Path:           name,
		Size:           info.Size(),
		ModTime:        info.ModTime().UnixMilli(),
		DataChange:     true,
		PartitionValue: map[string]string{},
	})
	return nil
}

// Finish writes the single-commit _delta_log transaction containing a
// protocol entry, a metaData entry (schema-on-write, untyped — Delta's
// own JSON schema representation is out of scope for a stub) and one
// Add action per part-file written so far.
func (d *Delta) Finish() error {
	logDir := filepath.Join(d.dir, "_delta_log")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	var lines []map[string]any
	lines = append(lines, map[string]any{
		"protocol": map[string]any{"minReaderVersion": 1, "minWriterVersion": 2},
	})
	lines = append(lines, map[string]any{
		"metaData": map[string]any{
			"id":        uuid.NewString(),
			"format":    map[string]string{"provider": "parquet"},
			"createdTime": time.Now().UnixMilli(),
		},
	})
	for _, a := range d.adds {
		lines = append(lines, map[string]any{"add": a})
	}

	f, err := os.Create(filepath.Join(logDir, "00000000000000000000.json"))
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	enc := json.NewEncoder(f)
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}
