package testutil

import (
	"fmt"
	"math/rand"
	"path"
	"strings"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// SparseBytes returns n bytes that are zero except for the given number of
// short runs of random data.
func (r *RNG) SparseBytes(n, islands int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	if islands <= 0 || n == 0 {
		return b
	}
	stride := n / islands
	for i := 0; i < islands; i++ {
		start := i*stride + r.rand.Intn(max(1, stride/2))
		end := min(n, start+max(1, stride/8))
		_, _ = r.rand.Read(b[start:end])
	}
	return b
}

const nameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789_-"

// Name returns a pseudo-random entry name of length n.
func (r *RNG) Name(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = nameAlphabet[r.rand.Intn(len(nameAlphabet))]
	}
	return string(b)
}

// Tree generates that many pseudo-random files spread over directories nested
// at most depth levels deep. Keys are slash-separated relative paths and
// values are file contents. Some files are empty and some span several
// 512-byte blocks.
func (r *RNG) Tree(files, depth int) map[string]string {
	tree := make(map[string]string, files)
	dirs := []string{""}
	for i := 0; len(tree) < files; i++ {
		parent := dirs[r.Intn(len(dirs))]
		if r.Intn(3) == 0 && levels(parent) < depth {
			dirs = append(dirs, path.Join(parent, fmt.Sprintf("d%d", i)))
			continue
		}
		size := 0
		switch r.Intn(4) {
		case 1:
			size = r.Intn(512)
		case 2:
			size = 512 * (1 + r.Intn(4))
		case 3:
			size = r.Intn(8 * 512)
		}
		tree[path.Join(parent, fmt.Sprintf("f%d.bin", i))] = string(r.Bytes(size))
	}
	return tree
}

func levels(dir string) int {
	if dir == "" {
		return 0
	}
	return strings.Count(dir, "/") + 1
}
