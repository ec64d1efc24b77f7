package registry

import (
	"fmt"
	"strings"
	"time"
)

// Data types recorded for a target after import.
const (
	DataTypeFastq = "FASTQ"
	DataTypeBAM   = "BAM"
	DataTypeCRAM  = "CRAM"
)

// DataFile describes one imported file.
type DataFile struct {
	FileURL    string            `json:"file_url"`
	FileType   string            `json:"file_type"`
	FileData   map[string]string `json:"file_data,omitempty"`
	SizeBytes  int64             `json:"size_bytes"`
	Checksum   string            `json:"checksum"`
	HashMethod string            `json:"hash_method"`
}

// Target is a registry record eligible to receive imported data.
type Target struct {
	PK           int64
	SystemID     string
	CenterID     string
	SampleID     string
	DataType     string
	RawData      []DataFile
	StorageURL   string
	StorageUsage int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasData reports whether raw data has already been recorded for the target.
// Targets with data are never re-imported.
func (t Target) HasData() bool {
	return strings.TrimSpace(t.DataType) != "" || len(t.RawData) > 0
}

// Identifier returns the matching identifier stored in the named field.
// An empty value means the identifier is null for this target.
func (t Target) Identifier(field string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "", "system_id":
		return t.SystemID, nil
	case "center_id":
		return t.CenterID, nil
	case "sample_id":
		return t.SampleID, nil
	default:
		return "", fmt.Errorf("unknown identifier field %q (expected system_id, center_id, or sample_id)", field)
	}
}

// ImportUpdate carries the fields persisted after a successful import.
type ImportUpdate struct {
	StorageURL   string
	DataType     string
	RawData      []DataFile
	StorageUsage int64
}

// Filter narrows registry queries.
type Filter struct {
	PKs      []int64
	SystemID string
	CenterID string
	HasData  *bool
	Limit    int
}

// ReferenceData describes one registered reference resource for an assembly.
type ReferenceData struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Assembly is a named reference genome with registered reference data.
type Assembly struct {
	Name          string
	StorageURL    string
	StorageUsage  int64
	ReferenceData map[string]ReferenceData
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
