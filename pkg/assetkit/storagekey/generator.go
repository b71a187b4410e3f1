// Package storagekey generates collision-resistant storage keys from
// original filenames. Keys are probabilistically unique: generation never
// consults existing storage, so callers still check the blob write.
package storagekey

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const tokenLength = 8

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator defines the interface for storage key generation strategies
type Generator interface {
	// Generate derives a storage key from the original filename
	Generate(originalFilename string) string
}

// SlugGenerator produces keys in the form
// {slug}_{nanos}_{token}.{ext}: a URL-safe slug of the base name, the
// wall-clock in nanoseconds, and an 8-character random token. The
// extension segment is omitted when the original name carries none.
type SlugGenerator struct {
	now    func() time.Time
	random func(n int) string
}

// Option configures a SlugGenerator
type Option func(*SlugGenerator)

// WithClock overrides the time source, letting tests pin the time
// component to a known value.
func WithClock(now func() time.Time) Option {
	return func(g *SlugGenerator) {
		g.now = now
	}
}

// WithRandom overrides the random token source
func WithRandom(random func(n int) string) Option {
	return func(g *SlugGenerator) {
		g.random = random
	}
}

// New creates a SlugGenerator backed by the wall clock and crypto/rand
func New(opts ...Option) *SlugGenerator {
	g := &SlugGenerator{
		now:    time.Now,
		random: randomToken,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate derives a storage key from the original filename
func (g *SlugGenerator) Generate(originalFilename string) string {
	ext := strings.TrimPrefix(filepath.Ext(originalFilename), ".")
	base := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))

	key := fmt.Sprintf("%d_%s", g.now().UnixNano(), g.random(tokenLength))
	if slug := Slugify(base); slug != "" {
		key = slug + "_" + key
	}
	if ext != "" {
		key = key + "." + strings.ToLower(ext)
	}
	return key
}

// Slugify lowercases the input and collapses every run of
// non-alphanumeric characters into a single hyphen. The result may be
// empty when the input has no alphanumeric characters at all.
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}

// randomToken returns n characters drawn uniformly from the alphanumeric
// alphabet using crypto/rand.
func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("storagekey: read random: %v", err))
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out)
}
