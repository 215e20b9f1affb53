package migrations

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialSchemaSearchVectorCoversTags(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	schema := string(content)

	idx := strings.Index(schema, "search_vector")
	require.GreaterOrEqual(t, idx, 0)
	vector := schema[idx:strings.Index(schema, ") STORED")]

	// Free-text search matches on title, descriptions and tags
	assert.Contains(t, vector, "coalesce(title, '')")
	assert.Contains(t, vector, "coalesce(description, '')")
	assert.Contains(t, vector, "tags_to_searchable(tags)")

	// The generated column needs an immutable wrapper around array_to_string
	assert.Contains(t, schema, "CREATE OR REPLACE FUNCTION tags_to_searchable")
	assert.Contains(t, schema, "LANGUAGE sql IMMUTABLE")
}
