// Package idgen provides pluggable id generation for newly registered
// entities.
package idgen

import (
	"math/rand"

	"github.com/google/uuid"
)

// Generator produces unique identifiers.
type Generator interface {
	NextID() string
}

const (
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 9
)

// TokenGenerator produces short random base-36 tokens. Collision resistance is
// adequate for a single-writer registry; swap in UUIDGenerator where stronger
// ids are needed.
type TokenGenerator struct{}

// NewTokenGenerator returns a base-36 token generator.
func NewTokenGenerator() *TokenGenerator { return &TokenGenerator{} }

func (g *TokenGenerator) NextID() string {
	b := make([]byte, tokenLength)
	for i := range b {
		b[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a UUID v4 generator.
func NewUUIDGenerator() *UUIDGenerator { return &UUIDGenerator{} }

func (g *UUIDGenerator) NextID() string {
	return uuid.NewString()
}
