package uvrip

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/scigolib/uvrip/internal/npy"
	"github.com/scigolib/uvrip/internal/utils"
)

// DumpOptions configures DumpBaselines.
type DumpOptions struct {
	Input     string
	Output    string
	Selection Selection
	Mode      PolMode

	// VerifyParameter names a group parameter that must be declared by the
	// file, normally BaselineParameter. Empty skips the check.
	VerifyParameter string

	// RunID identifies the run in logs. The zero UUID generates a new one.
	RunID uuid.UUID

	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
}

// DumpResult summarises a completed DumpBaselines run.
type DumpResult struct {
	RunID          uuid.UUID
	ParameterIndex int // 1-based index of VerifyParameter, 0 when not checked
	Groups         []uint64
	Visibilities   *Visibilities
	Elapsed        time.Duration
}

// DumpBaselines extracts the selected rows of a random-groups file and
// writes the reduced tensor to opts.Output as a .npy array.
//
// The output file is written only after every group was read and reduced;
// any failure leaves it untouched. The input is closed on every path.
func DumpBaselines(opts DumpOptions) (*DumpResult, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if err := opts.Selection.Validate(); err != nil {
		return nil, err
	}
	if opts.Mode != SinglePol && opts.Mode != DualPol {
		return nil, fmt.Errorf("%w: unknown polarization mode %v", ErrConfiguration, opts.Mode)
	}

	f, err := Open(opts.Input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	result := &DumpResult{
		RunID:  opts.RunID,
		Groups: opts.Selection.GroupNumbers(),
	}
	if result.RunID == uuid.Nil {
		result.RunID = uuid.New()
	}
	logger.Printf("run %s: %s has %d groups of %d values", result.RunID, opts.Input, f.NumGroups(), f.GroupDataLen())

	if opts.VerifyParameter != "" {
		index, err := ResolveParameterIndex(f, opts.VerifyParameter)
		if err != nil {
			return nil, err
		}
		result.ParameterIndex = index
		logger.Printf("%s index: %d", opts.VerifyParameter, index)
		if opts.Logger != nil {
			logParameter(logger, f, opts.Selection, opts.VerifyParameter, index)
		}
	}

	raw, err := Extract(f, opts.Selection)
	if err != nil {
		return nil, err
	}
	result.Visibilities = SelectPolarizations(raw, opts.Mode)

	if err := npy.WriteFile(opts.Output, result.Visibilities.Shape, result.Visibilities.Data); err != nil {
		return nil, utils.WrapError("output write failed", ioError(err))
	}

	result.Elapsed = time.Since(start)
	logger.Printf("wrote %v float32 array to %s in %v", result.Visibilities.Shape, opts.Output, result.Elapsed)
	return result, nil
}

// logParameter logs the value of the verified parameter for each selected
// row of the first timestep. Read failures are logged, not returned: the
// extraction that follows reports them.
func logParameter(logger *log.Logger, f *File, sel Selection, name string, index int) {
	for _, row := range sel.Rows {
		group := GroupNumber(0, row, sel.NumBaselinesPerTimestep)
		params, err := f.ReadGroupParameters(group)
		if err != nil {
			logger.Printf("row %d (group %d): %v", row, group, err)
			return
		}
		if index > len(params) {
			logger.Printf("%s is PTYPE%d but PCOUNT is %d", name, index, len(params))
			return
		}
		logger.Printf("row %d (group %d): %s = %g", row, group, name, params[index-1])
	}
}
