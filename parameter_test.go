package uvrip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	mocktesting "github.com/scigolib/uvrip/internal/testing"
)

func TestResolveParameterIndex(t *testing.T) {
	tests := []struct {
		name     string
		keys     map[string]string
		param    string
		want     int
		wantScan []string
		notFound bool
	}{
		{
			name:     "found in the middle",
			keys:     map[string]string{"PTYPE1": "ANTENNA1", "PTYPE2": "BASELINE", "PTYPE3": "FREQ"},
			param:    "BASELINE",
			want:     2,
			wantScan: []string{"PTYPE1", "PTYPE2"},
		},
		{
			name:     "absent",
			keys:     map[string]string{"PTYPE1": "ANTENNA1", "PTYPE2": "FREQ"},
			param:    "BASELINE",
			notFound: true,
			wantScan: []string{"PTYPE1", "PTYPE2", "PTYPE3"},
		},
		{
			name:     "declared past a numbering gap",
			keys:     map[string]string{"PTYPE1": "UU", "PTYPE2": "VV", "PTYPE4": "BASELINE"},
			param:    "BASELINE",
			notFound: true,
			wantScan: []string{"PTYPE1", "PTYPE2", "PTYPE3"},
		},
		{
			name:     "first duplicate wins",
			keys:     map[string]string{"PTYPE1": "DATE", "PTYPE2": "BASELINE", "PTYPE3": "DATE"},
			param:    "DATE",
			want:     1,
			wantScan: []string{"PTYPE1"},
		},
		{
			name:     "no parameters",
			keys:     map[string]string{},
			param:    "BASELINE",
			notFound: true,
			wantScan: []string{"PTYPE1"},
		},
		{
			name:     "match is exact",
			keys:     map[string]string{"PTYPE1": "BASELINE2", "PTYPE2": "baseline"},
			param:    "BASELINE",
			notFound: true,
			wantScan: []string{"PTYPE1", "PTYPE2", "PTYPE3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mocktesting.MockAccessor{Keys: tt.keys}
			got, err := ResolveParameterIndex(src, tt.param)
			require.Equal(t, tt.wantScan, src.KeyReads)
			if tt.notFound {
				require.ErrorIs(t, err, ErrParameterNotFound)
				require.ErrorIs(t, err, ErrFormat)
				require.Zero(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveParameterIndexHeaderError(t *testing.T) {
	cause := errors.New("header unreadable")
	src := &mocktesting.MockAccessor{KeyErr: cause}

	_, err := ResolveParameterIndex(src, BaselineParameter)
	require.ErrorIs(t, err, cause)
	require.False(t, errors.Is(err, ErrParameterNotFound))
}
