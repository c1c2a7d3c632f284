// Package main provides uvfits_rip, which extracts selected baselines of a
// UVFITS random-groups file into a float32 .npy array.
//
// Usage:
//
//	uvfits_rip -uvfits in.uvfits -output out.npy -num-timesteps 56 \
//	    -num-baselines-per-timestep 8128 -num-channels 768 [-xx-and-yy] ROW...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/scigolib/uvrip"
	"github.com/scigolib/uvrip/internal/catalog"
	"github.com/scigolib/uvrip/internal/config"
	"github.com/scigolib/uvrip/internal/quicklook"
)

var errNoRows = errors.New("No row indices given!") //nolint:staticcheck // ST1005: user-facing message

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the merged command line and run file settings.
type options struct {
	config.Run
	VerifyParameter string
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	logger := log.New(stderr, "", 0)
	if err := rip(opts, logger); err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, "Done")
	return 0
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("uvfits_rip", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: uvfits_rip [flags] ROW...")
		_, _ = fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	var flagRun config.Run
	fs.StringVar(&flagRun.Input, "uvfits", "", "UVFITS random-groups file to read")
	fs.StringVar(&flagRun.Output, "output", "", "Output .npy file")
	fs.IntVar(&flagRun.NumTimesteps, "num-timesteps", 0, "Number of timesteps in the file")
	fs.IntVar(&flagRun.NumBaselinesPerTimestep, "num-baselines-per-timestep", 0, "Number of baselines per timestep")
	fs.IntVar(&flagRun.NumChannels, "num-channels", 0, "Number of frequency channels")
	fs.BoolVar(&flagRun.XXAndYY, "xx-and-yy", false, "Keep XX and YY instead of XX only")
	parameter := fs.String("parameter", uvrip.BaselineParameter, "Group parameter that must be present (empty skips the check)")
	configPath := fs.String("config", "", "YAML run file; flags given explicitly override it")
	fs.StringVar(&flagRun.Catalog, "catalog", "", "SQLite run catalog to record this run in")
	fs.StringVar(&flagRun.Quicklook, "quicklook", "", "Quick-look heatmap image of the first row")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	for _, arg := range fs.Args() {
		row, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid row index %q: %w", arg, err)
		}
		flagRun.Rows = append(flagRun.Rows, row)
	}

	opts := &options{Run: flagRun, VerifyParameter: *parameter}
	if *configPath != "" {
		fileRun, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		opts = merge(fileRun, flagRun, *parameter, set)
	}

	if len(opts.Rows) == 0 {
		return nil, errNoRows
	}
	return opts, nil
}

// merge overlays explicitly set flags (and positional rows) on a run file.
func merge(file *config.Run, flags config.Run, parameter string, set map[string]bool) *options {
	opts := &options{Run: *file, VerifyParameter: uvrip.BaselineParameter}
	if file.Parameter != nil {
		opts.VerifyParameter = *file.Parameter
	}

	if set["uvfits"] {
		opts.Input = flags.Input
	}
	if set["output"] {
		opts.Output = flags.Output
	}
	if set["num-timesteps"] {
		opts.NumTimesteps = flags.NumTimesteps
	}
	if set["num-baselines-per-timestep"] {
		opts.NumBaselinesPerTimestep = flags.NumBaselinesPerTimestep
	}
	if set["num-channels"] {
		opts.NumChannels = flags.NumChannels
	}
	if set["xx-and-yy"] {
		opts.XXAndYY = flags.XXAndYY
	}
	if set["parameter"] {
		opts.VerifyParameter = parameter
	}
	if set["catalog"] {
		opts.Catalog = flags.Catalog
	}
	if set["quicklook"] {
		opts.Quicklook = flags.Quicklook
	}
	if len(flags.Rows) > 0 {
		opts.Rows = flags.Rows
	}
	return opts
}

func (o *options) mode() uvrip.PolMode {
	if o.XXAndYY {
		return uvrip.DualPol
	}
	return uvrip.SinglePol
}

func rip(opts *options, logger *log.Logger) error {
	if opts.Input == "" || opts.Output == "" {
		return fmt.Errorf("%w: -uvfits and -output are required", uvrip.ErrConfiguration)
	}

	runID := uuid.New()
	started := time.Now()
	result, err := uvrip.DumpBaselines(uvrip.DumpOptions{
		Input:  opts.Input,
		Output: opts.Output,
		Selection: uvrip.Selection{
			NumTimesteps:            opts.NumTimesteps,
			NumBaselinesPerTimestep: opts.NumBaselinesPerTimestep,
			NumChannels:             opts.NumChannels,
			Rows:                    opts.Rows,
		},
		Mode:            opts.mode(),
		VerifyParameter: opts.VerifyParameter,
		RunID:           runID,
		Logger:          logger,
	})

	// The output is already committed; a missing image does not fail the run.
	if err == nil && opts.Quicklook != "" {
		vis := result.Visibilities
		title := fmt.Sprintf("%s row %d XX", opts.Input, opts.Rows[0])
		if qerr := quicklook.WriteFile(opts.Quicklook, title, vis.Plane(0, 0), vis.Shape[0], vis.Shape[2]); qerr != nil {
			logger.Printf("Warning: quick-look not written: %v", qerr)
		} else {
			logger.Printf("wrote quick-look %s", opts.Quicklook)
		}
	}

	if opts.Catalog != "" {
		if cerr := record(opts, runID, started, err); cerr != nil {
			return errors.Join(err, cerr)
		}
	}
	return err
}

func record(opts *options, runID uuid.UUID, started time.Time, runErr error) error {
	c, err := catalog.Open(opts.Catalog)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("Failed to close catalog: %v", err)
		}
	}()

	entry := catalog.Run{
		ID:                      runID.String(),
		StartedAt:               started,
		Elapsed:                 time.Since(started),
		Input:                   opts.Input,
		Output:                  opts.Output,
		Mode:                    opts.mode().String(),
		NumTimesteps:            opts.NumTimesteps,
		NumBaselinesPerTimestep: opts.NumBaselinesPerTimestep,
		NumChannels:             opts.NumChannels,
		Rows:                    opts.Rows,
		Status:                  catalog.StatusOK,
	}
	if runErr != nil {
		entry.Status = catalog.StatusFailed
		entry.Error = runErr.Error()
	}
	return c.Record(context.Background(), entry)
}
