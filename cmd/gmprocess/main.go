// Command gmprocess is the CLI surface for this module;
// subcommands map one-to-one onto core operations, structured the way
// cmd/main.go wires cli.App/cli.Command/cli.Flag to
// thin Action wrappers around a core function, logging milestones with
// the standard library logger.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/smcore/go-strongmotion/config"
	"github.com/smcore/go-strongmotion/metrics"
	"github.com/smcore/go-strongmotion/process"
	"github.com/smcore/go-strongmotion/stationmetrics"
	"github.com/smcore/go-strongmotion/workspace"

	strongmotion "github.com/smcore/go-strongmotion"
)

func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	var defaults []byte
	if p := cCtx.String("default-config"); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		defaults = data
	}
	return config.Load(defaults, cCtx.String("config-dir"))
}

// assemble discovers raw waveform files under a directory, reads them
// through the configured reader facade, resolves duplicates, and
// writes the surviving streams into a new per-event workspace.
func assemble(rawDir, workspaceURI, eventID string, cfg *config.Config, facade *strongmotion.ReaderFacade) error {
	log.Println("Discovering raw waveform files:", rawDir)
	files, err := strongmotion.DiscoverFiles(rawDir, "*")
	if err != nil {
		return err
	}
	log.Println("Files found:", len(files))

	var candidates []*strongmotion.Stream
	for _, f := range files {
		streams, err := facade.Read(f)
		if err != nil {
			log.Println("Skipping unreadable file:", f, err)
			continue
		}
		candidates = append(candidates, streams...)
	}

	pref := strongmotion.DuplicatePreferenceOrder{
		ProcessLevelOrder: toProcessLevels(cfg.Duplicate.ProcessLevelPreference),
		FormatOrder:       cfg.Duplicate.FormatPreference,
		MaxDistTolerance:  cfg.Duplicate.MaxDistTolerance,
	}
	collection := strongmotion.NewStreamCollection(candidates, pref)
	log.Println("Streams after duplicate resolution:", len(collection.Streams()))

	ws, err := workspace.Create(workspaceURI)
	if err != nil {
		return err
	}
	defer ws.Close()

	return ws.AddStreams(collection, eventID, "raw", true)
}

// buildMatrixConfig translates the YAML-decoded metrics config block
// into the metrics package's evaluated form, expanding period ranges
// and parsing duration interval labels like "5-75" into (lo, hi) pairs.
func buildMatrixConfig(mcfg config.MetricsConfig) (metrics.MatrixConfig, error) {
	imcs := make([]metrics.IMC, 0, len(mcfg.OutputIMCs))
	for _, s := range mcfg.OutputIMCs {
		imcs = append(imcs, metrics.IMC(s))
	}

	intervals := make([]metrics.DurationInterval, 0, len(mcfg.Duration.Intervals))
	for _, s := range mcfg.Duration.Intervals {
		lo, hi, err := parseDurationInterval(s)
		if err != nil {
			return metrics.MatrixConfig{}, err
		}
		intervals = append(intervals, metrics.DurationInterval{LoPct: lo, HiPct: hi})
	}

	return metrics.MatrixConfig{
		IMCs: imcs,
		SAPeriods: metrics.Periods(metrics.PeriodConfig{
			Start: mcfg.SA.Periods.Start, Stop: mcfg.SA.Periods.Stop, Num: mcfg.SA.Periods.Num,
			Spacing: metrics.PeriodSpacing(mcfg.SA.Periods.Spacing), UseArray: mcfg.SA.Periods.UseArray,
			DefinedPeriods: mcfg.SA.Periods.DefinedPeriods,
		}),
		SADamping: mcfg.SA.Damping,
		FASFreqs: metrics.Periods(metrics.PeriodConfig{
			Start: mcfg.FAS.Periods.Start, Stop: mcfg.FAS.Periods.Stop, Num: mcfg.FAS.Periods.Num,
			Spacing: metrics.PeriodSpacing(mcfg.FAS.Periods.Spacing), UseArray: mcfg.FAS.Periods.UseArray,
			DefinedPeriods: mcfg.FAS.Periods.DefinedPeriods,
		}),
		FASBandwidth:      mcfg.FAS.Bandwidth,
		DurationIntervals: intervals,
		RotDPercentile:    mcfg.RotDPercentile,
		GMRotDPercentile:  mcfg.GMRotDPercentile,
	}, nil
}

func parseDurationInterval(s string) (lo, hi float64, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "main.parseDurationInterval", strongmotion.ErrInvalidEnum)
	}
	lo, errLo := strconv.ParseFloat(parts[0], 64)
	hi, errHi := strconv.ParseFloat(parts[1], 64)
	if errLo != nil || errHi != nil {
		return 0, 0, strongmotion.NewClassifiedError(strongmotion.ClassConfig, "main.parseDurationInterval", strongmotion.ErrInvalidEnum)
	}
	return lo, hi, nil
}

// computeWaveformMetrics evaluates the configured IMT x IMC matrix for
// every passing stream carrying label, and writes the resulting XML
// table into the workspace's WaveformMetrics group.
func computeWaveformMetrics(workspaceURI, eventID, label string, cfg *config.Config) error {
	ws, err := workspace.Open(workspaceURI)
	if err != nil {
		return err
	}
	defer ws.Close()

	collection, err := ws.GetStreams(eventID, nil, []string{label})
	if err != nil {
		return err
	}

	matrixCfg, err := buildMatrixConfig(cfg.Metrics)
	if err != nil {
		return err
	}

	for _, stream := range collection.Streams() {
		if !stream.Passed() {
			continue
		}
		channels := metrics.BuildChannels(stream)
		if len(channels) == 0 {
			continue
		}

		table := metrics.Evaluate(channels, matrixCfg)
		xmlDoc, err := metrics.WaveformMetricsXML(table, cfg.Metrics.SA.Damping, matrixCfg.RotDPercentile, matrixCfg.GMRotDPercentile)
		if err != nil {
			return err
		}

		tr := stream.Traces()[0]
		if err := ws.SetWaveformMetrics(tr.Network, tr.Station, tr.Location, tr.Channel, eventID, label, string(xmlDoc), true); err != nil {
			return err
		}
		log.Println("Wrote waveform metrics for", stream.ChannelCode())
	}
	return nil
}

// computeStationMetrics derives source-to-station distance and, when
// grids are configured, Vs30 for every station present in the event,
// writing one XML document per station to the StationMetrics group.
func computeStationMetrics(workspaceURI, eventID string, cfg *config.Config) error {
	ws, err := workspace.Open(workspaceURI)
	if err != nil {
		return err
	}
	defer ws.Close()

	collection, err := ws.GetStreams(eventID, nil, []string{"raw"})
	if err != nil {
		return err
	}

	var sources []*stationmetrics.Vs30Source
	for key, vcfg := range cfg.Metrics.Vs30 {
		f, err := os.Open(vcfg.File)
		if err != nil {
			log.Println("Skipping unreadable Vs30 grid:", vcfg.File, err)
			continue
		}
		src, err := stationmetrics.LoadVs30Grid(f, key, vcfg.ColumnHeader, vcfg.ReadmeEntry, vcfg.Units)
		f.Close()
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	hypo := stationmetrics.HypocenterCoordinates{}

	seen := map[string]bool{}
	for _, stream := range collection.Streams() {
		traces := stream.Traces()
		if len(traces) == 0 {
			continue
		}
		tr := traces[0]
		key := workspace.StationID(tr.Network, tr.Station)
		if seen[key] {
			continue
		}
		seen[key] = true

		station := stationmetrics.StationCoordinates{Latitude: tr.Coordinates.Latitude, Longitude: tr.Coordinates.Longitude}
		doc := stationmetrics.BuildStationMetricsDoc(station, hypo, stationmetrics.LookupAll(sources, station))
		xmlDoc, err := stationmetrics.StationMetricsXML(doc)
		if err != nil {
			return err
		}
		if err := ws.SetStationMetrics(tr.Network, tr.Station, tr.Location, tr.Channel, eventID, string(xmlDoc), true); err != nil {
			return err
		}
		log.Println("Wrote station metrics for", key)
	}
	return nil
}

func toProcessLevels(names []string) []strongmotion.ProcessLevel {
	out := make([]strongmotion.ProcessLevel, len(names))
	for i, n := range names {
		out[i] = strongmotion.ProcessLevel(n)
	}
	return out
}

// processWaveforms reads the raw streams back out of a workspace,
// runs the configured pipeline over every stream concurrently, and
// persists the resulting (possibly failed) streams under label.
func processWaveforms(workspaceURI, eventID, label string, cfg *config.Config) error {
	ws, err := workspace.Open(workspaceURI)
	if err != nil {
		return err
	}
	defer ws.Close()

	collection, err := ws.GetStreams(eventID, nil, []string{"raw"})
	if err != nil {
		return err
	}

	reg := process.NewDefaultRegistry()
	if err := reg.ValidateSteps(cfg.Processing); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	event := strongmotion.Event{ID: eventID}
	results := process.RunCollection(ctx, reg, cfg.Processing, collection, event)

	var processed []*strongmotion.Stream
	for _, r := range results {
		if r.Err != nil {
			log.Println("Stream processing failed:", r.Err)
		}
		processed = append(processed, r.Stream)
	}
	out := strongmotion.NewStreamCollection(processed, strongmotion.DuplicatePreferenceOrder{})
	return ws.AddStreams(out, eventID, label, true)
}

func main() {
	app := &cli.App{
		Name:  "gmprocess",
		Usage: "ingest, process, and score strong-motion waveform records",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Usage: "directory of layered YAML config files"},
			&cli.StringFlag{Name: "default-config", Usage: "path to the built-in default YAML document"},
		},
		Commands: []*cli.Command{
			{
				Name:  "assemble",
				Usage: "discover raw waveform files and write them into a new workspace",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "raw-dir", Required: true},
					&cli.StringFlag{Name: "workspace-uri", Required: true},
					&cli.StringFlag{Name: "event-id", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					cfg, err := loadConfig(cCtx)
					if err != nil {
						return err
					}
					facade := strongmotion.NewReaderFacade()
					return assemble(cCtx.String("raw-dir"), cCtx.String("workspace-uri"), cCtx.String("event-id"), cfg, facade)
				},
			},
			{
				Name:  "process_waveforms",
				Usage: "run the configured processing pipeline over every stream in an event",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "workspace-uri", Required: true},
					&cli.StringFlag{Name: "event-id", Required: true},
					&cli.StringFlag{Name: "label", Value: "default"},
				},
				Action: func(cCtx *cli.Context) error {
					cfg, err := loadConfig(cCtx)
					if err != nil {
						return err
					}
					return processWaveforms(cCtx.String("workspace-uri"), cCtx.String("event-id"), cCtx.String("label"), cfg)
				},
			},
			{
				Name:  "compute_station_metrics",
				Usage: "compute per-station distance and Vs30 metrics",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "workspace-uri", Required: true},
					&cli.StringFlag{Name: "event-id", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					cfg, err := loadConfig(cCtx)
					if err != nil {
						return err
					}
					return computeStationMetrics(cCtx.String("workspace-uri"), cCtx.String("event-id"), cfg)
				},
			},
			{
				Name:  "compute_waveform_metrics",
				Usage: "compute the IMT x IMC metrics table for every processed stream",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "workspace-uri", Required: true},
					&cli.StringFlag{Name: "event-id", Required: true},
					&cli.StringFlag{Name: "label", Value: "default"},
				},
				Action: func(cCtx *cli.Context) error {
					cfg, err := loadConfig(cCtx)
					if err != nil {
						return err
					}
					return computeWaveformMetrics(cCtx.String("workspace-uri"), cCtx.String("event-id"), cCtx.String("label"), cfg)
				},
			},
			{Name: "export_metric_tables", Usage: "export the waveform/station metrics tables as CSV", Action: notImplemented("export_metric_tables")},
			{Name: "generate_report", Usage: "render a per-event processing report", Action: notImplemented("generate_report")},
			{Name: "export_provenance_tables", Usage: "export SEIS-PROV provenance as CSV", Action: notImplemented("export_provenance_tables")},
			{Name: "export_failure_tables", Usage: "export per-stream failure reasons as CSV", Action: notImplemented("export_failure_tables")},
			{Name: "export_shakemap", Usage: "export a ShakeMap-compatible ground-motion grid", Action: notImplemented("export_shakemap")},
			{Name: "generate_station_maps", Usage: "render per-event station location maps", Action: notImplemented("generate_station_maps")},
			{Name: "generate_regression_plot", Usage: "render an IMT-vs-distance regression plot", Action: notImplemented("generate_regression_plot")},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// notImplemented backs subcommands that have no core library function
// behind them yet. Presentation-layer rendering (maps, plots, ShakeMap
// grids) is out of this module's scope; only the CLI surface is kept
// for orientation.
func notImplemented(name string) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		log.Println(name, "is a presentation-layer command; not implemented by the core library")
		return nil
	}
}
