package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

func TestFlatten(t *testing.T) {
	pair := testPair("01A")
	flat := Flatten(pair)

	assert.Equal(t, "Eres un chef experto.", flat.System)
	assert.Equal(t, "¿Cómo se hace?", flat.Question)
	assert.Equal(t, pair.Chosen, flat.Chosen)
	assert.Equal(t, pair.Rejected, flat.Rejected)
	assert.Equal(t, "01A", flat.RecipeID)
	assert.Equal(t, "Tortilla", flat.RecipeName)
	assert.Equal(t, "basic_recipe", flat.Category)
}

func TestParquetRoundTrip(t *testing.T) {
	pairs := make([]domain.PreferencePair, 0, 25)
	for i := 0; i < 25; i++ {
		p := testPair(fmt.Sprintf("01A%02d", i))
		p.Chosen = fmt.Sprintf("Respuesta completa número %d con suficiente detalle culinario.", i)
		pairs = append(pairs, p)
	}
	rows := FlattenAll(pairs)

	path := filepath.Join(t.TempDir(), "dataset.parquet")
	require.NoError(t, WriteParquetFile(path, rows, 10))

	back, err := ReadParquetFile(path)
	require.NoError(t, err)
	require.Len(t, back, len(rows))
	assert.Equal(t, rows, back)
}

func TestWriteParquetFileDeterministic(t *testing.T) {
	rows := FlattenAll([]domain.PreferencePair{testPair("01A"), testPair("01B")})
	dir := t.TempDir()

	first := filepath.Join(dir, "a.parquet")
	second := filepath.Join(dir, "b.parquet")
	require.NoError(t, WriteParquetFile(first, rows, 1000))
	require.NoError(t, WriteParquetFile(second, rows, 1000))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteParquetFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteParquetFile(path, nil, 0))

	back, err := ReadParquetFile(path)
	require.NoError(t, err)
	assert.Empty(t, back)
}
