package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("001_create_students.sql"))
	assert.Equal(t, "002", versionOf("sql/002_add_index.sql"))
	assert.Equal(t, "init.sql", versionOf("init.sql"))
}

func TestPendingFilesSortedAndFiltered(t *testing.T) {
	files := fstest.MapFS{
		"sql/002_b.sql":  {Data: []byte("SELECT 2;")},
		"sql/001_a.sql":  {Data: []byte("SELECT 1;")},
		"sql/README.md":  {Data: []byte("notes")},
		"sql/010_c.sql":  {Data: []byte("SELECT 10;")},
		"sql/old/x.sql":  {Data: []byte("SELECT 0;")},
		"other/003_.sql": {Data: []byte("SELECT 3;")},
	}

	names, err := pendingFiles(files, "sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql", "010_c.sql"}, names)
}

func TestEmbeddedSchemaIsShipped(t *testing.T) {
	names, err := pendingFiles(embedded, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_create_students.sql", names[0])
}
