package simulation

import (
	"testing"

	"riskcast/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionValidate(t *testing.T) {
	tests := []struct {
		name    string
		dist    Distribution
		wantErr bool
	}{
		{"normal ok", Normal{Mean: 0, Std: 1}, false},
		{"normal zero std", Normal{Mean: 0, Std: 0}, true},
		{"lognormal ok", LogNormal{Mean: 10, Std: 2}, false},
		{"lognormal negative mean", LogNormal{Mean: -1, Std: 1}, true},
		{"uniform ok", Uniform{Low: 0, High: 1}, false},
		{"uniform inverted", Uniform{Low: 1, High: 0}, true},
		{"triangular ok", Triangular{Left: 0, Mode: 1, Right: 2}, false},
		{"triangular mode outside", Triangular{Left: 0, Mode: 3, Right: 2}, true},
		{"beta ok", BetaMoments{Mean: 0.5, Std: 0.2}, false},
		{"beta mean outside unit interval", BetaMoments{Mean: 1.5, Std: 0.2}, true},
		// Infeasible moments are a sampling-time fallback, not a config error.
		{"beta infeasible moments", BetaMoments{Mean: 0.5, Std: 1.0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dist.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidParameters)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCorrelationSpecValidate(t *testing.T) {
	valid := CorrelationSpec{
		Matrix:    [][]float64{{1, 0.3}, {0.3, 1}},
		Variables: []string{"a", "b"},
	}
	require.NoError(t, valid.Validate())

	empty := CorrelationSpec{}
	assert.ErrorIs(t, empty.Validate(), core.ErrInvalidCorrelation)

	mismatched := CorrelationSpec{
		Matrix:    [][]float64{{1, 0.3}, {0.3, 1}},
		Variables: []string{"a"},
	}
	assert.ErrorIs(t, mismatched.Validate(), core.ErrInvalidCorrelation)
}

func TestParseOutputKind(t *testing.T) {
	kind, err := ParseOutputKind("single")
	require.NoError(t, err)
	assert.Equal(t, OutputSingle, kind)

	kind, err = ParseOutputKind("timeseries")
	require.NoError(t, err)
	assert.Equal(t, OutputTimeseries, kind)

	_, err = ParseOutputKind("matrix")
	assert.ErrorIs(t, err, core.ErrUnsupportedOutputKind)
}

func TestOutputSpecValidate(t *testing.T) {
	scalar := func(Sample) float64 { return 0 }
	series := func(Sample) []float64 { return nil }

	assert.NoError(t, OutputSpec{Name: "a", Kind: OutputSingle, Scalar: scalar}.Validate())
	assert.NoError(t, OutputSpec{Name: "b", Kind: OutputTimeseries, Series: series}.Validate())

	assert.Error(t, OutputSpec{Kind: OutputSingle, Scalar: scalar}.Validate())
	assert.ErrorIs(t, OutputSpec{Name: "c", Kind: OutputSingle}.Validate(), core.ErrUnsupportedOutputKind)
	assert.ErrorIs(t, OutputSpec{Name: "d", Kind: "heatmap"}.Validate(), core.ErrUnsupportedOutputKind)
}
