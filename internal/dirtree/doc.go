// Package dirtree manages the directory-entry table as a tree.
//
// Entry 0 is the root directory; every other used slot names its parent by
// index and is listed in that parent's child slots. Lookups are scoped to a
// current directory supplied by the caller, which owns that state.
//
// Child slots are appended contiguously and removal leaves a tombstone, so
// scans may stop at the first never-used slot. A directory's children
// counter tracks its live children; it bounds fan-out at
// [layout.MaxChildren] and decides whether a directory is empty.
package dirtree
