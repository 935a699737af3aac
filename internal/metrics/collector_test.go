package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	c := NewCollector()
	c.RecordDecode(ResultOK, 32)
	c.RecordDecode(ResultOK, 2)
	c.RecordDecode(ResultMalformed, 0)
	c.RecordRender(ResultOK)
	c.RecordRender(ResultDuplicate)
	c.RecordSuperseded()
	c.RecordSuperseded()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.decodeTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decodeTotal.WithLabelValues(ResultMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.renderTotal.WithLabelValues(ResultDuplicate)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.supersededTotal))

	n, err := testutil.GatherAndCount(c.Registry(), "boardview_decoded_placements")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_Independent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.RecordRender(ResultOK)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.renderTotal.WithLabelValues(ResultOK)))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.RecordDecode(ResultOK, 1)
	c.RecordRender(ResultOK)
	c.RecordSuperseded()
	assert.Nil(t, c.Registry())
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.RecordRender(ResultOK)
	path := filepath.Join(t.TempDir(), "viewer.prom")
	require.NoError(t, c.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `boardview_render_total{result="ok"} 1`))
}
