package all

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"profileload/internal/storage"
)

func TestAllBackendsRegistered(t *testing.T) {
	t.Parallel()

	kinds := storage.ListKinds()
	for _, k := range []string{"mssql", "mysql", "postgres", "sqlite"} {
		assert.Contains(t, kinds, k)
	}
}
