package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name         string
		pipelineName string
		objectType   string
		identifier   string
		paramsKey    []string
		expectedKey  string
	}{
		{
			name:         "without paramsKey",
			pipelineName: "questionbank",
			objectType:   "response",
			identifier:   "01HRECIPE",
			paramsKey:    nil,
			expectedKey:  "gastronomia:questionbank:response:01HRECIPE",
		},
		{
			name:         "with empty paramsKey",
			pipelineName: "questionbank",
			objectType:   "response",
			identifier:   "01HRECIPE",
			paramsKey:    []string{},
			expectedKey:  "gastronomia:questionbank:response:01HRECIPE",
		},
		{
			name:         "with one paramsKey",
			pipelineName: "dpo",
			objectType:   "chosen",
			identifier:   "01HRECIPE",
			paramsKey:    []string{"abc123"},
			expectedKey:  "gastronomia:dpo:chosen:01HRECIPE:abc123",
		},
		{
			name:         "with multiple paramsKey",
			pipelineName: "dpo",
			objectType:   "rejected",
			identifier:   "01HRECIPE",
			paramsKey:    []string{"p1", "p2", "p3"},
			expectedKey:  "gastronomia:dpo:rejected:01HRECIPE:p1_p2_p3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.pipelineName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestHashPrompt(t *testing.T) {
	first := HashPrompt("Eres un chef experto.")
	second := HashPrompt("Eres un chef experto.")
	if first != second {
		t.Errorf("HashPrompt() not deterministic: %v != %v", first, second)
	}
	if len(first) != 16 {
		t.Errorf("HashPrompt() length = %d, want 16", len(first))
	}
	if HashPrompt("otro prompt") == first {
		t.Error("HashPrompt() produced the same digest for different prompts")
	}
}
