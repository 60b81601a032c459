package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Snapshot fields.
	FieldLine      = "line"
	FieldFunction  = "function"
	FieldLabel     = "label"
	FieldOffset    = "offset"
	FieldEdits     = "edits"
	FieldUnmatched = "unmatched"
	FieldRecord    = "record"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesModified   = "files_modified"
	FieldSnapshots       = "snapshots"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
