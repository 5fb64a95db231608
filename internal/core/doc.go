// Package core provides the tabular data pipeline behind the dashboard.
//
// This package is the heart of statusboard, containing all domain logic
// independent of any UI or transport layer. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Loading: CSV and Excel files are parsed into an immutable [Table] of
//     named string columns. Rows containing blank cells are dropped at load.
//   - Classification: every column is classified as numeric or categorical
//     based on whether all of its values coerce to real numbers.
//   - Filtering: a [FilterSpec] selects rows by membership of a categorical
//     status column and picks numeric columns for chart axes.
//   - Service: the session layer. Each uploaded file becomes a dataset owned
//     by exactly one session, evicted after a configurable idle TTL.
//
// # Pipeline
//
// A view is computed as a linear pipeline over the current table and spec:
//
//	Load -> Classify -> Filter -> ResolveAxis -> ClampRange -> ViewResult
//
// Every stage is a pure function of its inputs, so a view can be recomputed
// from scratch on each request. Failures propagate as typed errors with no
// partial output; see [BuildView].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE099: File errors (format, parsing, empty files)
//   - VAL001-VAL099: Validation errors (missing columns, bad ranges)
//   - DS001-DS099: Dataset session errors (not found, capacity)
package core
