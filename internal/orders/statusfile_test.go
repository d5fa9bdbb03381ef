package orders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatusFileNamesByStatusAndTracking(t *testing.T) {
	dir := t.TempDir()

	r := NewRecord(Summary{ID: "PO-211-001", DateStr: "Jan 5 2024", ItemCount: "2"})
	r.Tracking.TrackingNumber = "BR123456789"
	r.Attempts = 1
	r.MarkSuccess("R$ 12,50")

	require.NoError(t, WriteStatusFile(r, dir))

	content, err := os.ReadFile(filepath.Join(dir, "SUCESSO_BR123456789.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Order ID: PO-211-001")
	assert.Contains(t, string(content), "Reembolso solicitado com sucesso")
	assert.Contains(t, string(content), "Valor do reembolso: R$ 12,50")
	assert.Contains(t, string(content), "Sucesso: Sim")
}

func TestWriteStatusFileSupersedesPriorFile(t *testing.T) {
	dir := t.TempDir()

	r := NewRecord(Summary{ID: "PO-9"})
	r.Tracking.TrackingNumber = "BR001"
	r.MarkFailed("timeout")
	require.NoError(t, WriteStatusFile(r, dir))

	r.MarkSuccess("")
	require.NoError(t, WriteStatusFile(r, dir))

	files, err := filepath.Glob(filepath.Join(dir, "*_BR001.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1, "old status file must be removed")
	assert.Equal(t, "SUCESSO_BR001.txt", filepath.Base(files[0]))
}

func TestWriteStatusFileFallsBackToOrderID(t *testing.T) {
	dir := t.TempDir()

	r := NewRecord(Summary{ID: "PO-7/x"})
	require.NoError(t, WriteStatusFile(r, dir))

	// Unsafe filename characters are stripped and the unattempted status maps
	// to NAO_TENTADO.
	_, err := os.Stat(filepath.Join(dir, "NAO_TENTADO_PO-7x.txt"))
	assert.NoError(t, err)
}
