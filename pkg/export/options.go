package export

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/draftforge/draftforge/pkg/cache"
	"github.com/draftforge/draftforge/pkg/convert"
	"github.com/draftforge/draftforge/pkg/encode"
	"github.com/draftforge/draftforge/pkg/entity"
	"github.com/draftforge/draftforge/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Library Use
// =============================================================================

const (
	// DefaultUnits is the unit system assumed when options carry none.
	DefaultUnits = convert.UnitIn

	// DefaultPrecision is the decimal precision for text formats.
	DefaultPrecision = 6

	// DefaultVersion is the format version signature stamped into headers.
	DefaultVersion = "AC1027"

	// DefaultFormat is used by the CLI when no format flag is given.
	DefaultFormat = encode.FormatDWG

	// MaxPrecision bounds the precision option; beyond float64 significance
	// extra digits only inflate output size.
	MaxPrecision = 15
)

// =============================================================================
// Options - Export Configuration
// =============================================================================

// Options contains all configuration for one export call.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Format selects the encoder (see pkg/encode format keys).
	Format string `json:"format"`

	// Type distinguishes export flavors within a format (e.g. "2d", "3d").
	// Informational; recorded in result metadata.
	Type string `json:"type,omitempty"`

	// Version is the format version signature for headers.
	Version string `json:"version,omitempty"`

	// Units names the source model's unit system (mm, cm, m, in, ft).
	Units string `json:"units,omitempty"`

	// Precision is the number of decimal places in text formats. Nil means
	// DefaultPrecision; an explicit zero is valid and means whole numbers.
	Precision *int `json:"precision,omitempty"`

	// Author is stamped into file headers.
	Author string `json:"author,omitempty"`

	// Content toggles.
	IncludeMetadata bool `json:"include_metadata,omitempty"`
	IncludeAnalysis bool `json:"include_analysis,omitempty"`
	IncludeBOM      bool `json:"include_bom,omitempty"`

	// LayerConfiguration overrides layer colors by layer name (hex values),
	// applied after conversion builds the layer table.
	LayerConfiguration map[string]string `json:"layer_configuration,omitempty"`

	// Settings is free-form, format-specific configuration.
	Settings map[string]string `json:"settings,omitempty"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Handles entity.HandleSequence `json:"-"`
	Logger  *log.Logger           `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once. Registry membership of Format is checked by the
// Exporter, not here, so Options stays decoupled from the encoder set.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Format == "" {
		return errors.New(errors.ErrCodeInvalidFormat, "format is required")
	}

	if o.Units == "" {
		o.Units = DefaultUnits
	}
	if err := convert.ValidateUnits(o.Units); err != nil {
		return err
	}

	if o.Precision == nil {
		p := DefaultPrecision
		o.Precision = &p
	}
	if *o.Precision < 0 || *o.Precision > MaxPrecision {
		return errors.New(errors.ErrCodeInvalidPrecision,
			"precision %d out of range [0, %d]", *o.Precision, MaxPrecision)
	}

	for name := range o.LayerConfiguration {
		if err := errors.ValidateLayerName(name); err != nil {
			return err
		}
	}

	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// EncodeOptions projects the export options onto the encoder contract.
func (o *Options) EncodeOptions() encode.Options {
	return encode.Options{
		Units:     o.Units,
		Precision: o.precision(),
		Author:    o.Author,
		Version:   o.Version,
	}
}

// ArtifactKeyOpts returns the cache key options for this export.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Format,
		Units:     o.Units,
		Precision: o.precision(),
		Version:   o.Version,
		Author:    o.Author,
		Layers:    o.LayerConfiguration,
	}
}

// precision resolves the effective decimal precision.
func (o *Options) precision() int {
	if o.Precision == nil {
		return DefaultPrecision
	}
	return *o.Precision
}
