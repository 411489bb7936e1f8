package errors

import (
	"errors"
)

var (
	// General Errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnsupportedFile   = errors.New("unsupported file format")
	ErrPathNotAccessible = errors.New("path is not accessible")

	// Document Errors
	ErrMalformedDocument  = errors.New("malformed workflow document")
	ErrPersistenceFailure = errors.New("failed to persist corrected workflow")

	// Compression Errors
	ErrUnsupportedCompression = errors.New("unsupported compression format")
	ErrDecompressionFailed    = errors.New("decompression failed")
	ErrCompressionFailed      = errors.New("compression failed")

	// File & Directory Errors
	ErrFileNotFound    = errors.New("file not found")
	ErrFileReadError   = errors.New("error reading file")
	ErrFileWriteError  = errors.New("error writing to file")
	ErrFileBackupError = errors.New("error creating backup file")
	ErrDirNotFound     = errors.New("directory not found")

	// Hash Errors
	ErrInvalidHasher = errors.New("invalid hasher")

	// Correction Table Errors
	ErrInvalidTable = errors.New("invalid correction table")
	ErrUnknownRule  = errors.New("unknown correction rule")

	// Configuration Errors
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrConfigFileNotFound = errors.New("configuration file not found")
	ErrConfigParseError   = errors.New("error parsing configuration")
)
