// Package batch provides a bounded worker pool for fanning out independent
// upstream lookups, such as searching recipes for several ingredients at
// once. Failed items are reported but do not abort the batch; callers get
// partial results plus the first error.
package batch
