package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// The closed set of error kinds this store can surface, mirroring the
// source project's KvsErrorKind enum: every failure mode in the engine,
// segment, directory, and codec layers reduces to exactly one of these.
const (
	// ErrorCodeIO covers any filesystem failure: opening, seeking,
	// reading, writing, or removing a segment file or directory.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeParser covers a malformed record: invalid JSON or an
	// unrecognized "op" discriminator. Missing "key"/"value" fields are
	// not rejected; they decode as empty strings.
	ErrorCodeParser ErrorCode = "PARSER_ERROR"

	// ErrorCodeNotFound covers a remove against a key with no live index
	// entry. A get of such a key is not an error: it reports absence.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeInvalidPartition covers an internal consistency failure:
	// the engine addressed a segment id that isn't in its open set.
	ErrorCodeInvalidPartition ErrorCode = "INVALID_PARTITION"

	// ErrorCodeConfig covers a bad store configuration, such as opening
	// a path that exists but isn't a directory.
	ErrorCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrorCodeGlob covers a failure enumerating segment files via a
	// glob pattern.
	ErrorCodeGlob ErrorCode = "GLOB_ERROR"

	// ErrorCodeParseInt covers a segment filename stem that doesn't
	// parse as a decimal, non-negative integer.
	ErrorCodeParseInt ErrorCode = "PARSE_INT_ERROR"

	// ErrorCodeUtf8 covers invalid UTF-8 encountered while decoding a
	// record's text.
	ErrorCodeUtf8 ErrorCode = "UTF8_ERROR"
)
