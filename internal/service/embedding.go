package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding returns a small deterministic embedding of a food name:
// its length, vowel count and consonant count. It must stay in step with the
// vector(3) column on meal_logs.
func GenerateEmbedding(foodName string) pgvector.Vector {
	name := strings.ToLower(strings.Join(strings.Fields(foodName), " "))
	var vowels, consonants float32
	for _, r := range name {
		switch {
		case strings.ContainsRune("aeiou", r):
			vowels++
		case r >= 'a' && r <= 'z':
			consonants++
		}
	}
	return pgvector.NewVector([]float32{float32(len(name)), vowels, consonants})
}
