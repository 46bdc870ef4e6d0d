package csvfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/infrastructure/csvfile"
)

const oneMB = 1 << 20

func assertValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindValidation, kind)
}

func TestPrepare_OK(t *testing.T) {
	f, err := csvfile.Prepare("orders.CSV", []byte("sku,qty\nA1,2\n"), oneMB)
	require.NoError(t, err)
	assert.Equal(t, "orders.CSV", f.Name)
	assert.Equal(t, "text/csv", f.MimeType)
	assert.Equal(t, int64(len("sku,qty\nA1,2\n")), f.Size)
}

func TestPrepare_Rechazos(t *testing.T) {
	_, err := csvfile.Prepare("orders.xlsx", []byte("sku\n"), oneMB)
	assertValidation(t, err)

	_, err = csvfile.Prepare("orders.csv", []byte("  \n\n"), oneMB)
	assertValidation(t, err)

	_, err = csvfile.Prepare("orders.csv", []byte(",,,\nA,1\n"), oneMB)
	assertValidation(t, err)

	_, err = csvfile.Prepare("orders.csv", make([]byte, 11), 10)
	assertValidation(t, err)
}

func TestToUTF8(t *testing.T) {
	t.Run("bom utf-8", func(t *testing.T) {
		out, err := csvfile.ToUTF8([]byte("\xEF\xBB\xBFsku\n"))
		require.NoError(t, err)
		assert.Equal(t, "sku\n", string(out))
	})

	t.Run("utf-16le con bom", func(t *testing.T) {
		out, err := csvfile.ToUTF8([]byte{0xFF, 0xFE, 's', 0, 'k', 0, 'u', 0})
		require.NoError(t, err)
		assert.Equal(t, "sku", string(out))
	})

	t.Run("windows-1252", func(t *testing.T) {
		// "Café" con é = 0xE9
		out, err := csvfile.ToUTF8([]byte{'C', 'a', 'f', 0xE9})
		require.NoError(t, err)
		assert.Equal(t, "Café", string(out))
	})

	t.Run("utf-8 válido sin cambios", func(t *testing.T) {
		out, err := csvfile.ToUTF8([]byte("Cañón"))
		require.NoError(t, err)
		assert.Equal(t, "Cañón", string(out))
	})
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settlement.csv")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFdate,amount\n2024-01-01,10\n"), 0o600))

	f, err := csvfile.FromPath(path, oneMB)
	require.NoError(t, err)
	assert.Equal(t, "settlement.csv", f.Name)
	assert.Equal(t, "date,amount\n2024-01-01,10\n", string(f.Data))

	_, err = csvfile.FromPath(filepath.Join(dir, "no-existe.csv"), oneMB)
	assertValidation(t, err)

	_, err = csvfile.FromPath(dir, oneMB)
	assertValidation(t, err)
}
