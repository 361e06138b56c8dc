package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/draftforge/draftforge/pkg/cache"
	"github.com/draftforge/draftforge/pkg/config"
	"github.com/draftforge/draftforge/pkg/errors"
	"github.com/draftforge/draftforge/pkg/export"
	"github.com/draftforge/draftforge/pkg/model"
)

// exportOpts holds the flag values for the export command.
type exportOpts struct {
	format      string
	output      string
	units       string
	precision   int
	author      string
	layerColors map[string]string
	refresh     bool
	noCache     bool
	configPath  string
}

func newExportCmd() *cobra.Command {
	opts := &exportOpts{}

	cmd := &cobra.Command{
		Use:   "export <input.json>",
		Short: "Export a model or drawing file to a CAD exchange format",
		Long: `Export converts a JSON model or drawing set into a CAD exchange format.

The input file holds either a 3D model object or an array of 2D technical
drawings; the command detects which. When --format is omitted and stdout is
a terminal, an interactive picker is shown.`,
		Example: `  draftforge export house.json --format dxf
  draftforge export house.json -f dwg -o plans/house.dwg --units mm
  draftforge export plans.json -f svg --layer-color STRUCTURE=#ff0000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (dwg, dxf, step, ifc, iges, obj, stl, gltf, pdf, svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: input name with format extension)")
	cmd.Flags().StringVar(&opts.units, "units", "", "source unit system: mm, cm, m, in, ft (default from config)")
	cmd.Flags().IntVar(&opts.precision, "precision", -1, "decimal precision for text formats, 0-15 (default from config)")
	cmd.Flags().StringVar(&opts.author, "author", "", "author stamped into file headers")
	cmd.Flags().StringToStringVar(&opts.layerColors, "layer-color", nil, "layer color overrides, NAME=#hex")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the artifact cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache entirely")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path (default: ./draftforge.toml)")

	return cmd
}

func runExport(ctx context.Context, inputPath string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)
	track := newProgress(logger)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyConfigDefaults(opts, cfg)

	if opts.format == "" {
		format, err := pickFormat(export.DefaultRegistry().Formats())
		if err != nil {
			return err
		}
		if format == "" {
			printInfo("No format selected")
			return nil
		}
		opts.format = format
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, opts.format)
	}
	if err := errors.ValidateOutputPath(outputPath); err != nil {
		return err
	}

	source, err := readSource(inputPath)
	if err != nil {
		return err
	}

	exporter := export.New(buildCache(opts, cfg, logger), nil, logger)
	defer func() { _ = exporter.Close() }()

	exportOptions := export.Options{
		Format:             opts.format,
		Units:              opts.units,
		Precision:          &opts.precision,
		Author:             opts.author,
		LayerConfiguration: opts.layerColors,
		Refresh:            opts.refresh,
		Logger:             logger,
	}

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s", strings.ToUpper(opts.format)))
	spin.Start()

	var res *export.Result
	if source.model != nil {
		res, err = exporter.ExportModel(ctx, source.model, exportOptions)
	} else {
		res, err = exporter.ExportDrawings(ctx, source.drawings, exportOptions)
	}
	if err != nil {
		spin.StopWithError(errors.UserMessage(err))
		return err
	}
	spin.Stop()

	if err := os.WriteFile(outputPath, res.Buffer, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", outputPath)
	}

	printSuccess("Exported %s", strings.ToUpper(res.Format))
	printFile(outputPath)
	printStats(res.Metadata.EntityCount, res.Metadata.LayerCount, res.CacheInfo.ArtifactHit)
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	logger.Debug("stage timings",
		"convert", res.Stats.ConvertTime,
		"encode", res.Stats.EncodeTime)
	track.done(fmt.Sprintf("Wrote %s (%d bytes)", outputPath, res.FileSize))
	return nil
}

// exportSource is the decoded input: exactly one field is set.
type exportSource struct {
	model    *model.Model
	drawings []model.Drawing
}

// readSource loads the input JSON. A top-level array is a drawing set, an
// object is a model.
func readSource(path string) (*exportSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidModel, "%s is empty", path)
	}

	if trimmed[0] == '[' {
		var drawings []model.Drawing
		if err := json.Unmarshal(data, &drawings); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "parse drawings %s", path)
		}
		return &exportSource{drawings: drawings}, nil
	}

	var m model.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "parse model %s", path)
	}
	return &exportSource{model: &m}, nil
}

// defaultOutputPath swaps the input extension for the format key.
func defaultOutputPath(inputPath, format string) string {
	base := strings.TrimSuffix(inputPath, ".json")
	return base + "." + format
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadPath(path)
	}
	return config.Load()
}

// applyConfigDefaults fills unset flags from the config file.
func applyConfigDefaults(opts *exportOpts, cfg *config.Config) {
	if opts.units == "" {
		opts.units = cfg.Export.Units
	}
	if opts.precision < 0 {
		opts.precision = cfg.Export.Precision
	}
	if opts.author == "" {
		opts.author = cfg.Export.Author
	}
	if opts.layerColors == nil && len(cfg.Export.LayerColors) > 0 {
		opts.layerColors = cfg.Export.LayerColors
	}
}

// buildCache selects the artifact cache backend. Cache setup failures
// degrade to no caching rather than failing the export.
func buildCache(opts *exportOpts, cfg *config.Config, logger *log.Logger) cache.Cache {
	if opts.noCache || !cfg.Cache.Enabled {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(cfg.CacheDir())
	if err != nil {
		logger.Debug("file cache unavailable", "err", err)
		return cache.NewNullCache()
	}
	return fc
}
