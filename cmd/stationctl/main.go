package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/signalsfoundry/stationctl/catalog"
	"github.com/signalsfoundry/stationctl/core"
	"github.com/signalsfoundry/stationctl/internal/clock"
	"github.com/signalsfoundry/stationctl/internal/logging"
	"github.com/signalsfoundry/stationctl/internal/observability"
	"go.opentelemetry.io/otel"
)

func main() {
	planPath := flag.String("plan", "", "observation plan file (JSON or YAML)")
	outPath := flag.String("out", "-", "control script output path, or - for stdout")
	calibPath := flag.String("calib", "", "calibrator catalog JSON; empty falls back to $STATIONCTL_CALIB_FILE")
	metricsAddr := flag.String(
		"metrics-addr",
		"",
		"if set, keep running and serve Prometheus metrics on this address",
	)
	siteLat := flag.Float64("site-lat", 51.1445, "station latitude in degrees, for calibrator elevations")
	siteLon := flag.Float64("site-lon", -1.4370, "station east longitude in degrees")
	startAt := flag.String("at", "", "observation start (RFC3339) used for calibrator elevations; empty means now")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	if *planPath == "" {
		fmt.Fprintln(os.Stderr, "usage: stationctl -plan <file> [-out <file>]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(shutdown, 5*time.Second, log)

	collector, err := observability.NewStationCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	plan, err := core.LoadPlanFile(*planPath)
	if err != nil {
		log.Error(ctx, "plan load failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	tracer := otel.Tracer("stationctl")
	buildCtx, span := tracer.Start(ctx, "build_observation")
	obs, err := core.BuildObservation(plan, log, collector)
	span.End()
	if err != nil {
		log.Error(buildCtx, "observation build failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info(ctx, "observation built",
		logging.Int("beams", obs.BeamCount()),
		logging.Int("beamlets", obs.BeamletCount()),
		logging.Int("beamlets_remaining", obs.Pool().Remaining()),
	)

	if err := writeScript(*outPath, obs.Script()); err != nil {
		log.Error(ctx, "script write failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	clk, err := observationClock(*startAt)
	if err != nil {
		log.Error(ctx, "bad -at value", logging.String("error", err.Error()))
		os.Exit(2)
	}
	reportCalibrators(ctx, log, *calibPath, obs, catalog.Site{
		LatitudeDeg:  *siteLat,
		LongitudeDeg: *siteLon,
	}, clk)

	if *metricsAddr != "" {
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			log.Error(ctx, "metrics server failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}
}

// writeScript writes the control script to path, using stdout for "-".
// A trailing newline is appended so the file is shell-friendly.
func writeScript(path, script string) error {
	if script != "" {
		script += "\n"
	}
	if path == "-" {
		_, err := os.Stdout.WriteString(script)
		return err
	}
	return os.WriteFile(path, []byte(script), 0o644)
}

// observationClock resolves the instant calibrator elevations are computed
// at: the wall clock, or a fixed clock pinned to the -at flag.
func observationClock(at string) (clock.Clock, error) {
	if at == "" {
		return clock.System(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, err
	}
	return clock.NewFixed(t), nil
}

// reportCalibrators logs advisory calibrator information for the first
// beam: angular separation of the closest calibrator and each calibrator's
// elevation at the site when the observation starts. Failures here never
// abort the run; the catalog is optional context for the observer.
func reportCalibrators(ctx context.Context, log logging.Logger, path string, obs *core.Observation, site catalog.Site, clk clock.Clock) {
	if path == "" && os.Getenv(catalog.EnvCalibFile) == "" {
		return
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		log.Warn(ctx, "calibrator catalog unavailable", logging.String("error", err.Error()))
		return
	}
	beams := obs.Beams()
	if len(beams) == 0 {
		return
	}

	closest := cat.Closest(beams[0].Digital())
	if closest == nil {
		return
	}
	log.Info(ctx, "closest calibrator to primary beam",
		logging.String("calibrator", closest.Source.Name),
		logging.Any("separation_deg", closest.Degrees),
	)

	for _, el := range cat.Elevations(site, clk.Now()) {
		log.Info(ctx, "calibrator elevation",
			logging.String("calibrator", el.Source.Name),
			logging.Any("elevation_deg", el.Degrees),
		)
	}
}
