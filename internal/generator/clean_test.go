package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `[{"question":"¿Qué lleva?"}]`, `[{"question":"¿Qué lleva?"}]`},
		{"json fence", "```json\n[{\"question\":\"¿Qué lleva?\"}]\n```", `[{"question":"¿Qué lleva?"}]`},
		{"bare fence", "```\n[1,2]\n```", "[1,2]"},
		{"leading whitespace", "  \n```json\n[]\n```  ", "[]"},
		{"unfenced text untouched", "sin formato", "sin formato"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONResponse(tt.input))
		})
	}
}

func TestRecoverArray(t *testing.T) {
	t.Run("array with surrounding prose", func(t *testing.T) {
		got, ok := RecoverArray(`Aquí tienes las preguntas: [{"question":"¿Qué lleva?"}] ¡Espero que sirvan!`)
		assert.True(t, ok)
		assert.Equal(t, `[{"question":"¿Qué lleva?"}]`, got)
	})

	t.Run("no array present", func(t *testing.T) {
		_, ok := RecoverArray("no hay nada estructurado aquí")
		assert.False(t, ok)
	})

	t.Run("brackets out of order", func(t *testing.T) {
		_, ok := RecoverArray("] antes que [")
		assert.False(t, ok)
	})
}
