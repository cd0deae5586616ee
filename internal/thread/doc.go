// Package thread groups flat email records into conversation threads and provides the
// filtering, selection, and plain-text transcript rendering that the analysis and document
// stages build on.
//
// All functions in this package are pure: they never mutate their inputs and keep no state
// between calls, so concurrent requests over different record sets need no coordination.
//
// Ordering guarantees:
//   - Thread.Messages is ascending by parsed date. Records whose date cannot be parsed sort as
//     the zero time (earliest) and keep their relative input order.
//   - GroupByThread returns threads descending by EndDate, ties in first-encounter order.
//   - Filter and Select never re-sort: Filter keeps input order, Select follows the id order.
package thread
