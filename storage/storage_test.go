package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ============================================================================
// Dir adapter
// ============================================================================

func newTestDir(t *testing.T) *Dir {
	t.Helper()
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)
	return d
}

func TestDir_ReadAbsentKey(t *testing.T) {
	d := newTestDir(t)

	value, found, err := d.Read(KeyProducts)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func TestDir_WriteReadRoundTrip(t *testing.T) {
	d := newTestDir(t)

	require.NoError(t, d.Write(KeyCart, []byte(`[{"product_id":"p1"}]`)))

	value, found, err := d.Read(KeyCart)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"product_id":"p1"}]`, string(value))
}

func TestDir_WriteReplaces(t *testing.T) {
	d := newTestDir(t)

	require.NoError(t, d.Write(KeyCart, []byte(`[1]`)))
	require.NoError(t, d.Write(KeyCart, []byte(`[2]`)))

	value, _, err := d.Read(KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(value))
}

func TestDir_Remove(t *testing.T) {
	d := newTestDir(t)

	require.NoError(t, d.Write(KeyCart, []byte(`[]`)))
	require.NoError(t, d.Remove(KeyCart))

	_, found, err := d.Read(KeyCart)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDir_RemoveAbsentKeyIsNoop(t *testing.T) {
	d := newTestDir(t)
	assert.NoError(t, d.Remove(KeyUsers))
}

func TestDir_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewDir(dir)
	require.NoError(t, err)
	require.NoError(t, first.Write(KeyProducts, []byte(`[{"id":"p1"}]`)))

	second, err := NewDir(dir)
	require.NoError(t, err)

	value, found, err := second.Read(KeyProducts)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(value))
}

func TestDir_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDir(dir)
	require.NoError(t, err)

	require.NoError(t, d.Write(KeyProducts, []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

// ============================================================================
// Memory adapter
// ============================================================================

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()

	_, found, err := m.Read(KeyCart)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Write(KeyCart, []byte(`[]`)))

	value, found, err := m.Read(KeyCart)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, m.Remove(KeyCart))
	assert.Zero(t, m.Len())
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write(KeyCart, []byte(`[1]`)))

	value, _, err := m.Read(KeyCart)
	require.NoError(t, err)
	value[1] = 'x'

	fresh, _, err := m.Read(KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(fresh))
}

// ============================================================================
// JSON helpers
// ============================================================================

func TestReadJSON_AbsentKeyYieldsEmptyDefault(t *testing.T) {
	m := NewMemory()

	out, err := ReadJSON(m, KeyProducts, []string{})

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestReadJSON_DecodesStoredValue(t *testing.T) {
	m := NewMemory()
	require.NoError(t, WriteJSON(m, KeyUserPreferences, map[string]string{"theme": "dark"}))

	out, err := ReadJSON(m, KeyUserPreferences, map[string]string{})

	require.NoError(t, err)
	assert.Equal(t, "dark", out["theme"])
}

func TestReadJSON_CorruptValue(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write(KeyProducts, []byte(`{not json`)))

	_, err := ReadJSON(m, KeyProducts, []string{})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	m := NewMemory()

	err := WriteJSON(m, KeyProducts, func() {})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

// ============================================================================
// Instrumented adapter
// ============================================================================

func TestInstrument_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	wrapped := Instrument(NewMemory(), reg, "memory")

	require.NoError(t, wrapped.Write(KeyCart, []byte(`[]`)))
	_, _, err := wrapped.Read(KeyCart)
	require.NoError(t, err)
	require.NoError(t, wrapped.Remove(KeyCart))

	assert.Equal(t, float64(1), testutil.ToFloat64(wrapped.operations.WithLabelValues("write", KeyCart)))
	assert.Equal(t, float64(1), testutil.ToFloat64(wrapped.operations.WithLabelValues("read", KeyCart)))
	assert.Equal(t, float64(1), testutil.ToFloat64(wrapped.operations.WithLabelValues("remove", KeyCart)))
	assert.Equal(t, float64(0), testutil.ToFloat64(wrapped.failures.WithLabelValues("write", KeyCart)))
}
