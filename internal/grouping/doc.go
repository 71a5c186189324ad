// Package grouping partitions the flat rows of an archive query into
// observation groups and computes the per-group summaries shown in the
// results table. Phase 3 rows group by instrument and proposal; raw rows
// group by instrument and contiguous blocks of observing time.
package grouping
