package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Attention Mechanism", "attention-mechanism"},
		{"  Hello,   World!  ", "hello-world"},
		{"Step 1: Tokenize -- then embed", "step-1-tokenize-then-embed"},
		{"snake_case stays", "snake_case-stays"},
		{"注意力机制", "u6ce8u610fu529bu673au5236"},
		{"第1章 Intro", "u7b2c1u7ae0-Intro"},
		{"RAG（检索增强）", "RAG-u68c0u7d22u589eu5f3a"},
		{"ひらがな", "u3072u3089u304cu306a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.input))
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	assert.Equal(t, Generate("注意力机制"), Generate("注意力机制"))
	assert.Equal(t, Generate("Transformer Architecture"), Generate("Transformer Architecture"))
}

func TestGenerateTruncates(t *testing.T) {
	id := Generate(strings.Repeat("机", 20))
	assert.Len(t, id, MaxLength)
	assert.True(t, strings.HasPrefix(id, "u673a"))

	id = Generate(strings.Repeat("word ", 30))
	assert.LessOrEqual(t, len(id), MaxLength)
}

func TestGenerateFallback(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!", "¿?"} {
		id := Generate(input)
		assert.True(t, strings.HasPrefix(id, "heading-"), "input %q gave %q", input, id)
		assert.Greater(t, len(id), len("heading-"))
	}
}
