package export

import (
	"time"

	"github.com/draftforge/draftforge/pkg/geom"
)

// Stage identifies where an export call currently is in its lifecycle.
// Each call walks IDLE → VALIDATING → CONVERTING → ENCODING → DONE, or stops
// at FAILED. The stage is per-call state; nothing is shared across calls.
type Stage string

// Export lifecycle stages.
const (
	StageIdle       Stage = "IDLE"
	StageValidating Stage = "VALIDATING"
	StageConverting Stage = "CONVERTING"
	StageEncoding   Stage = "ENCODING"
	StageDone       Stage = "DONE"
	StageFailed     Stage = "FAILED"
)

// Metadata describes the exported content.
type Metadata struct {
	EntityCount int              `json:"entity_count" bson:"entity_count"`
	LayerCount  int              `json:"layer_count" bson:"layer_count"`
	BoundingBox geom.BoundingBox `json:"bounding_box" bson:"bounding_box"`
	Units       string           `json:"units" bson:"units"`
	Version     string           `json:"version" bson:"version"`
}

// Stats contains per-stage timings for one export call.
type Stats struct {
	ConvertTime time.Duration `json:"convert_time" bson:"convert_time"`
	EncodeTime  time.Duration `json:"encode_time" bson:"encode_time"`
}

// CacheInfo tracks whether the artifact came from cache.
type CacheInfo struct {
	ArtifactHit bool `json:"artifact_hit" bson:"artifact_hit"`
}

// Result is the outcome of one export call.
//
// Success is true only when Buffer holds the complete encoded file; a
// partial or aborted encode is never surfaced as a Result, it becomes an
// error instead. Warnings carry non-fatal conversion/encoding notes.
type Result struct {
	Success    bool          `json:"success" bson:"success"`
	Format     string        `json:"format" bson:"format"`
	FileSize   int           `json:"file_size" bson:"file_size"`
	ExportTime time.Duration `json:"export_time" bson:"export_time"`
	Buffer     []byte        `json:"buffer,omitempty" bson:"buffer,omitempty"`
	FilePath   string        `json:"file_path,omitempty" bson:"file_path,omitempty"`
	Warnings   []string      `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Errors     []string      `json:"errors,omitempty" bson:"errors,omitempty"`
	Metadata   Metadata      `json:"metadata" bson:"metadata"`
	Stats      Stats         `json:"stats" bson:"stats"`
	CacheInfo  CacheInfo     `json:"cache_info" bson:"cache_info"`
}
