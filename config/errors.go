package config

import "errors"

var (
	// ErrEmptyPath reports a missing config file path.
	ErrEmptyPath = errors.New("config: empty config path")

	// ErrUnsupportedFormat reports a format other than yaml or json.
	ErrUnsupportedFormat = errors.New("config: unsupported config format")

	// ErrLoadFailed reports that the config file could not be read.
	ErrLoadFailed = errors.New("config: failed to load config")

	// ErrParseFailed reports malformed yaml or json.
	ErrParseFailed = errors.New("config: failed to parse config")

	// ErrUnmarshalFailed reports config that does not fit the schema.
	ErrUnmarshalFailed = errors.New("config: failed to unmarshal config")

	// ErrUnknownHandlerType reports a handler type other than console
	// or file.
	ErrUnknownHandlerType = errors.New("config: unknown handler type")

	// ErrUnknownFormatter reports a formatter name other than text or
	// json.
	ErrUnknownFormatter = errors.New("config: unknown formatter")

	// ErrUnknownOverflowPolicy reports an overflow policy name other
	// than drop_newest, drop_oldest or block.
	ErrUnknownOverflowPolicy = errors.New("config: unknown overflow policy")

	// ErrBuildFailed reports that a handler could not be constructed
	// from its config block.
	ErrBuildFailed = errors.New("config: failed to build handler")

	// ErrWatchFailed reports a file watcher problem.
	ErrWatchFailed = errors.New("config: watch failed")
)
