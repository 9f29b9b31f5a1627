package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("col")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		require.True(t, strings.HasPrefix(id, "col_"))
		_, err := uuid.Parse(strings.TrimPrefix(id, "col_"))
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("ent")
	assert.Equal(t, "ent_1", gen.Generate())
	assert.Equal(t, "ent_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}
