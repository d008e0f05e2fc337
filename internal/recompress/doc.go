// Package recompress discovers git repositories beneath one or more roots, compacts each one and
// reports how much storage the compaction reclaimed.
//
// Service drives a run: every repository is measured, compacted through reflog expiry, reference
// packing and aggressive garbage collection, then measured again. Per-repository lines are written
// as soon as they are known and totals are folded from the per-repository results. CommandBuilder
// exposes the run as the root cobra command and a read-only measure subcommand.
package recompress
