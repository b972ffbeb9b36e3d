// Package testutil provides testing utilities for fatfs.
//
// This package is intended for use in tests only. It generates
// reproducible payloads, names and host directory trees.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Bytes(3*512 + 1)     // random payload
//	img := rng.SparseBytes(1<<20, 8) // mostly zeros, like a disk image
//	name := rng.Name(12)             // valid entry name
//
// # Host Trees
//
//	tree := rng.Tree(20, 3)          // relative path -> content
package testutil
