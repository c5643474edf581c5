//go:build windows

package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_Windows(t *testing.T) {
	info, err := Collect()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(info.OSName, "Windows"), info.OSName)
	assert.Positive(t, info.RAMTotalMB)
	require.NotEmpty(t, info.Disks)
	for _, d := range info.Disks {
		assert.Len(t, d.Mount, 3)
		assert.True(t, strings.HasSuffix(d.Mount, `:\`), d.Mount)
		assert.GreaterOrEqual(t, d.TotalGB, d.FreeGB)
	}
}
