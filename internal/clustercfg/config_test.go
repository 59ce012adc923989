package clustercfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.False(t, DefaultConfig().Validate().HasErrors())
}

func TestValidateCatchesMultipleProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 0
	cfg.MaxMissingList = 0
	cfg.DynamicPortRangeHigh = cfg.DynamicPortRangeLow - 1

	errs := cfg.Validate()
	require.True(t, errs.HasErrors())
	require.Len(t, errs, 3)
}
