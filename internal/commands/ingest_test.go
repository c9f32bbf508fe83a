package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastos-dev/gastos/internal/ingestlog"
	"github.com/gastos-dev/gastos/internal/ledger"
)

func TestIngest_UnreadableDocument(t *testing.T) {
	dir := initWorkspace(t)
	in := filepath.Join(t.TempDir(), "entrada")
	require.NoError(t, os.Mkdir(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "roto.pdf"), []byte("not a pdf"), 0o644))

	out, err := runGastos(t, "ingest", "--repo", dir, in)
	require.NoError(t, err, "a bad document never fails the batch")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "could not extract data from roto.pdf")
	assert.Contains(t, out, "1 documents: 0 new, 0 duplicate, 1 failed")
	assert.Contains(t, out, "gastos add")

	_, err = os.Stat(filepath.Join(dir, "comprobantes", "roto.pdf"))
	assert.NoError(t, err, "document is archived")

	entries, err := ingestlog.Read(filepath.Join(dir, "logs", "ingest-log.csv"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ingestlog.OutcomeFailed, entries[0].Outcome)
	assert.Equal(t, "unreadable", entries[0].Detail)

	data, err := os.ReadFile(filepath.Join(dir, "gastos.csv"))
	require.NoError(t, err)
	assert.Equal(t, ledger.Header+"\n", string(data))
}

func TestIngest_FromReceiptsDir(t *testing.T) {
	dir := initWorkspace(t)
	receipts := filepath.Join(dir, "comprobantes")
	require.NoError(t, os.WriteFile(filepath.Join(receipts, "roto.pdf"), []byte("not a pdf"), 0o644))

	_, err := runGastos(t, "ingest", "--repo", dir, receipts)
	require.NoError(t, err)

	entries, err := os.ReadDir(receipts)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "receipts already archived are not copied again")
}

func TestIngest_MixedSourcesArchivesOnlyNewFiles(t *testing.T) {
	dir := initWorkspace(t)
	receipts := filepath.Join(dir, "comprobantes")
	require.NoError(t, os.WriteFile(filepath.Join(receipts, "viejo.pdf"), []byte("not a pdf"), 0o644))

	elsewhere := filepath.Join(t.TempDir(), "nuevo.pdf")
	require.NoError(t, os.WriteFile(elsewhere, []byte("not a pdf either"), 0o644))

	_, err := runGastos(t, "ingest", "--repo", dir, receipts, elsewhere)
	require.NoError(t, err)

	entries, err := os.ReadDir(receipts)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"viejo.pdf", "nuevo.pdf"}, names)
}

func TestIngest_RealPDFTwice(t *testing.T) {
	dir := initWorkspace(t)
	pdf, err := filepath.Abs(filepath.Join("..", "extract", "testdata", "receipt-kerned.pdf"))
	require.NoError(t, err)

	out, err := runGastos(t, "ingest", "--repo", dir, pdf)
	require.NoError(t, err, out)
	assert.Contains(t, out, "NEW")
	assert.Contains(t, out, "EDENOR RIO DE LA PLATA - 12345.67 - 2024-01-01")
	assert.Contains(t, out, "1 documents: 1 new, 0 duplicate, 0 failed")

	out, err = runGastos(t, "ingest", "--repo", dir, pdf)
	require.NoError(t, err, out)
	assert.Contains(t, out, "DUPLICATE")
	assert.Contains(t, out, "1 documents: 0 new, 1 duplicate, 0 failed")

	data, err := os.ReadFile(filepath.Join(dir, "gastos.csv"))
	require.NoError(t, err)
	assert.Equal(t, ledger.Header+"\n2024-01-01,EDENOR RIO DE LA PLATA,12345.67,Fijo,Electricidad\n", string(data))
}

func TestIngest_NoFiles(t *testing.T) {
	dir := initWorkspace(t)
	out, err := runGastos(t, "ingest", "--repo", dir, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No PDF files found.")
}

func TestIngest_MissingPath(t *testing.T) {
	dir := initWorkspace(t)
	_, err := runGastos(t, "ingest", "--repo", dir, filepath.Join(dir, "nope.pdf"))
	assert.Error(t, err)
}

func TestIngest_RequiresArgs(t *testing.T) {
	dir := initWorkspace(t)
	_, err := runGastos(t, "ingest", "--repo", dir)
	assert.Error(t, err)
}
