package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates Universally Unique Lexicographically Sortable
// Identifiers. Format: 01AN4Z07BY79KA1307SR9X4MV3 (26 characters)
//   - first 10 characters: timestamp (milliseconds since Unix epoch)
//   - last 16 characters: randomness (80 bits)
//
// ULID 特性:
//   - 时间可排序 (毫秒精度)
//   - 词典序友好 (适合数据库索引)
//   - 26 字符长度 (vs UUID 36 字符)
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// ULIDOption is a functional option for ULIDGenerator.
type ULIDOption func(*ULIDGenerator)

// WithULIDEntropy sets a custom entropy source for ULID generation.
func WithULIDEntropy(r io.Reader) ULIDOption {
	return func(g *ULIDGenerator) {
		g.entropy = r
	}
}

// NewULIDGenerator creates a new ULID generator.
// 使用单调熵源确保同一毫秒内生成的 ID 也是有序的。
func NewULIDGenerator(opts ...ULIDOption) *ULIDGenerator {
	g := &ULIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate creates a new ULID string.
// Panics if the entropy source fails (should never happen with crypto/rand).
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// GenerateE creates a new ULID string, returning an error on failure.
func (g *ULIDGenerator) GenerateE() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// IsValidULID checks if a string is a valid ULID.
func IsValidULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
