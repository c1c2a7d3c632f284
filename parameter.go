package uvrip

import (
	"fmt"

	"github.com/scigolib/uvrip/internal/utils"
)

// BaselineParameter is the PTYPE name of the UVFITS baseline code.
const BaselineParameter = "BASELINE"

// ResolveParameterIndex returns the 1-based index of the first group
// parameter named name.
//
// Parameter names are read from PTYPE1, PTYPE2, ... and the scan stops at the
// first absent key. Numbering is assumed to be gap free: a name declared
// after a gap is not seen and is reported as ErrParameterNotFound.
func ResolveParameterIndex(src HeaderSource, name string) (int, error) {
	for i := 1; ; i++ {
		key := fmt.Sprintf("PTYPE%d", i)
		ptype, ok, err := src.HeaderString(key)
		if err != nil {
			return 0, utils.Wrapf(err, "reading %s", key)
		}
		if !ok {
			return 0, fmt.Errorf("%w: %s not among PTYPE1..PTYPE%d", ErrParameterNotFound, name, i-1)
		}
		if ptype == name {
			return i, nil
		}
	}
}
