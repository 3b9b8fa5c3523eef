// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally derives per-option vote counts from a ballot set.

Counts are never updated incrementally. Every mutation and every read
recomputes them from the ballots, which are the single source of truth:

	tally.Apply(&poll)

Count is total: ballots that reference an option outside the poll are
skipped rather than reported as errors. The poll store rejects such
ballots at write time.
*/
package tally
