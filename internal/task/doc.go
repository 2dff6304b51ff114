// Package task manages the task collection stored in a single JSON file.
//
// The store file is a JSON array, one object per task, in creation order:
//
//	[
//	  {
//	    "id": 1,
//	    "description": "Buy milk",
//	    "status": "todo",
//	    "createdAt": "2024-01-01T09:30:00",
//	    "updatedAt": "2024-01-01T09:30:00"
//	  }
//	]
//
// # Manager
//
// A Manager holds only the store path. Every operation loads the whole file,
// mutates the collection in memory, and writes the whole collection back.
// Nothing is cached between calls, so the file is always the source of truth.
//
// Ids are assigned as max(existing ids) + 1 (1 for an empty store). Gaps below
// the maximum are never backfilled, but deleting the task with the highest id
// frees that id for the next add.
//
// # Task Status Values
//
//   - "todo": Task is pending
//   - "in-progress": Task is being worked on
//   - "done": Task is complete
//
// Transitions are unrestricted; any status can be set from any other.
//
// # Missing and Malformed Files
//
// A missing store file and a file that is not a well-formed JSON array are
// both read as an empty collection. The malformed case is logged at WARN level,
// and Verify reports it explicitly, because the next write replaces the file.
//
// A well-formed array is never discarded. Timestamps in other ISO 8601 forms
// are read and normalised, values that are not times at all are kept verbatim,
// and unknown status strings are kept and logged at WARN level. A record whose
// fields have the wrong JSON types makes every operation fail with a
// ValidationError instead of overwriting the file.
//
// # File Format
//
// When writing the store, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Stable key ordering (via JSON marshaling)
//   - Write to a temporary file followed by rename over the store
package task
