// Package export implements the export orchestrator: the public entry points
// that turn a CAD model or drawing set into an encoded artifact.
//
// # Architecture
//
// An export call walks three stages:
//
//  1. Validate: check options and resolve the encoder (fail fast on an
//     unregistered format, before any conversion work)
//  2. Convert: map the model/drawings to entities and layers (pkg/convert)
//  3. Encode: run the format encoder and stamp result metadata
//
// Lifecycle events are emitted through pkg/observability hooks rather than a
// hidden event emitter, and errors carry structured codes from pkg/errors.
//
// # Concurrency
//
// The Exporter is stateless apart from its cache, registry, and logger, all
// of which are read-only after construction. Concurrent calls from multiple
// goroutines are safe without locking; each call owns its writers and
// intermediate state. No cancellation beyond ctx and no retries are built
// in - retries are a caller concern.
//
// # Usage
//
//	exporter := export.New(nil, nil, logger)
//	result, err := exporter.ExportModel(ctx, m, export.Options{
//	    Format: "dwg",
//	    Units:  "mm",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.dwg", result.Buffer, 0644)
package export

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/draftforge/draftforge/pkg/cache"
	"github.com/draftforge/draftforge/pkg/convert"
	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/encode/dwg"
	"github.com/draftforge/draftforge/pkg/encode/dxf"
	"github.com/draftforge/draftforge/pkg/encode/stub"
	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/errors"
	"github.com/draftforge/draftforge/pkg/model"
	"github.com/draftforge/draftforge/pkg/observability"
)

// DefaultRegistry returns the standard encoder set: the full binary and text
// encoders plus one stub per remaining exchange format.
func DefaultRegistry() *encode.Registry {
	encoders := []encode.Encoder{dwg.New(), dxf.New()}
	encoders = append(encoders, stub.All()...)
	return encode.NewRegistry(encoders...)
}

// Exporter orchestrates export calls. Both CLI and API use this to avoid
// duplicating caching and dispatch logic.
//
// The Exporter is stateless except for the cache and logger - it doesn't
// store export results. Multiple goroutines can safely share one Exporter.
type Exporter struct {
	Registry *encode.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
}

// New creates an exporter with the default encoder registry.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func New(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Exporter {
	return NewWithRegistry(DefaultRegistry(), c, keyer, logger)
}

// NewWithRegistry creates an exporter with a custom encoder registry.
func NewWithRegistry(registry *encode.Registry, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Exporter {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{
		Registry: registry,
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
	}
}

// ExportModel converts and encodes a 3D model.
func (x *Exporter) ExportModel(ctx context.Context, m *model.Model, opts Options) (*Result, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "model is nil")
	}
	return x.export(ctx, "model", m.Hash(), opts, func() (*convert.Result, error) {
		return convert.FromModel(m, opts.Units, opts.Handles)
	})
}

// ExportDrawings converts and encodes a set of 2D technical drawings.
func (x *Exporter) ExportDrawings(ctx context.Context, drawings []model.Drawing, opts Options) (*Result, error) {
	return x.export(ctx, "drawings", model.HashDrawings(drawings), opts, func() (*convert.Result, error) {
		return convert.FromDrawings(drawings, opts.Units, opts.Handles)
	})
}

// export runs the validate → convert → encode pipeline shared by both entry
// points. convertFn defers conversion so the fail-fast checks run first.
func (x *Exporter) export(ctx context.Context, source, sourceHash string, opts Options, convertFn func() (*convert.Result, error)) (*Result, error) {
	start := time.Now()
	stage := StageValidating

	logger := opts.Logger
	if logger == nil {
		logger = x.Logger
		opts.Logger = logger
	}

	fail := func(err error) (*Result, error) {
		observability.Export().OnExportComplete(ctx, opts.Format, 0, time.Since(start), err)
		logger.Error("export failed", "format", opts.Format, "stage", stage, "err", err)
		return nil, err
	}

	// Stage 1: Validate
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fail(err)
	}
	encoder, err := x.Registry.Lookup(opts.Format)
	if err != nil {
		return fail(err)
	}

	observability.Export().OnExportStart(ctx, opts.Format, source)

	// Cache check (unless refresh requested). An injected handle sequence
	// carries caller state the key cannot capture, so those exports skip
	// the cache in both directions.
	cacheable := opts.Handles == nil
	var key string
	if cacheable {
		key = x.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts())
		if !opts.Refresh {
			if cached, ok := x.cachedResult(ctx, key); ok {
				cached.ExportTime = time.Since(start)
				observability.Export().OnExportComplete(ctx, opts.Format, cached.FileSize, cached.ExportTime, nil)
				logger.Debug("artifact cache hit", "format", opts.Format, "size", cached.FileSize)
				return cached, nil
			}
		}
	}

	// Stage 2: Convert
	stage = StageConverting
	convertStart := time.Now()
	conv, err := convertFn()
	if err != nil {
		return fail(errors.Wrap(errors.ErrCodeConversionFailed, err, "convert %s", source))
	}
	x.applyLayerConfiguration(conv, opts.LayerConfiguration)
	convertTime := time.Since(convertStart)
	observability.Export().OnConvertComplete(ctx, len(conv.Entities), len(conv.Layers), convertTime)

	logger.Info("converted "+source,
		"entities", len(conv.Entities),
		"layers", len(conv.Layers),
		"duration", convertTime)

	// Stage 3: Encode
	stage = StageEncoding
	encodeStart := time.Now()
	artifact, err := encoder.Encode(ctx, conv.Entities, conv.Layers, opts.EncodeOptions())
	encodeTime := time.Since(encodeStart)
	observability.Export().OnEncodeComplete(ctx, opts.Format, artifactSize(artifact), encodeTime, err)
	if err != nil {
		// Any partially written buffer dies with the encoder; only errors
		// escape this path, never truncated artifacts.
		return fail(errors.Wrap(errors.ErrCodeEncodingFailed, err, "encode %s", opts.Format))
	}

	stage = StageDone
	result := &Result{
		Success:    true,
		Format:     opts.Format,
		FileSize:   len(artifact.Data),
		ExportTime: time.Since(start),
		Buffer:     artifact.Data,
		Warnings:   append(conv.Warnings, artifact.Warnings...),
		Metadata: Metadata{
			EntityCount: len(conv.Entities),
			LayerCount:  len(conv.Layers),
			BoundingBox: entity.BoundingBox(conv.Entities),
			Units:       opts.Units,
			Version:     opts.Version,
		},
		Stats: Stats{
			ConvertTime: convertTime,
			EncodeTime:  encodeTime,
		},
	}

	if cacheable {
		x.storeResult(ctx, key, result)
	}
	observability.Export().OnExportComplete(ctx, opts.Format, result.FileSize, result.ExportTime, nil)

	logger.Info("export complete",
		"format", opts.Format,
		"size", result.FileSize,
		"duration", result.ExportTime)

	return result, nil
}

// applyLayerConfiguration overrides layer colors by name. Unknown layer
// names are ignored; the configuration is advisory.
func (x *Exporter) applyLayerConfiguration(conv *convert.Result, overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	for i, l := range conv.Layers {
		if color, ok := overrides[l.Name]; ok {
			conv.Layers[i].Color = color
		}
	}
}

// cachedResult loads a previously stored result. Any cache error or decode
// failure is treated as a miss.
func (x *Exporter) cachedResult(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := x.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil || !r.Success {
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	r.CacheInfo.ArtifactHit = true
	return &r, true
}

// storeResult caches a successful result. Cache failures are logged at
// debug level and otherwise ignored; they never fail the export.
func (x *Exporter) storeResult(ctx context.Context, key string, r *Result) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := x.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		x.Logger.Debug("artifact cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the exporter (primarily the cache).
func (x *Exporter) Close() error {
	if x.Cache != nil {
		return x.Cache.Close()
	}
	return nil
}

func artifactSize(a *encode.Artifact) int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}
