package skiplog

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// TestCreateWritesHeader verifies that Create makes missing parent
// directories and writes the header immediately.
func TestCreateWritesHeader(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "rejects", "profiles.csv")
	l, err := Create(target)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	assert.Equal(t, [][]string{Header}, readAll(t, target))
}

func TestAddAndCounts(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "rejects.csv")
	l, err := Create(target)
	require.NoError(t, err)

	require.NoError(t, l.Add("missing_attribute", 2, errors.New("missing attribute: website")))
	require.NoError(t, l.Add("malformed_row", 5, errors.New(`bad "quote", here`)))
	require.NoError(t, l.Add("missing_attribute", 7, nil))
	require.NoError(t, l.Close())

	assert.Equal(t, map[string]int{"missing_attribute": 2, "malformed_row": 1}, l.Counts())
	assert.Equal(t, [][]string{
		Header,
		{"missing_attribute", "2", "missing attribute: website"},
		{"malformed_row", "5", `bad "quote", here`},
		{"missing_attribute", "7", ""},
	}, readAll(t, target))
}

func TestCreateFailsOnDirectory(t *testing.T) {
	t.Parallel()

	_, err := Create(t.TempDir())
	assert.Error(t, err)
}
