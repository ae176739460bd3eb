package metrics2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInt64Metric_Update_ReturnsLastValue(t *testing.T) {
	m := GetInt64Metric("test_int64_metric", map[string]string{"cache": "a"})
	require.Equal(t, int64(0), m.Get())
	m.Update(12)
	require.Equal(t, int64(12), m.Get())
}

func TestGetInt64Metric_SameNameAndTags_ReturnsSameInstance(t *testing.T) {
	a := GetInt64Metric("test_int64_metric_shared", map[string]string{"cache": "a"})
	b := GetInt64Metric("test_int64_metric_shared", map[string]string{"cache": "a"})
	a.Update(7)
	require.Equal(t, int64(7), b.Get())
}

func TestGetInt64Metric_DifferentTags_AreIndependent(t *testing.T) {
	a := GetInt64Metric("test_int64_metric_tags", map[string]string{"cache": "a"})
	b := GetInt64Metric("test_int64_metric_tags", map[string]string{"cache": "b"})
	a.Update(3)
	require.Equal(t, int64(0), b.Get())
}

func TestGetCounter_IncDecReset(t *testing.T) {
	c := GetCounter("test_counter", map[string]string{"cache": "a"})
	c.Inc(2)
	c.Inc(1)
	require.Equal(t, int64(3), c.Get())
	c.Dec(1)
	require.Equal(t, int64(2), c.Get())
	c.Reset()
	require.Equal(t, int64(0), c.Get())
}

func TestClean_ReplacesInvalidChars(t *testing.T) {
	require.Equal(t, "a_b_c", clean("a-b.c"))
	require.Equal(t, "ok_name_1", clean("ok_name_1"))
}
