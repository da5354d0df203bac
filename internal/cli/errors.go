package cli

import "errors"

// CLI-level sentinel errors. Commands wrap these with context; the exit
// code mapping in the main package matches them with errors.Is.
var (
	// ErrOutputExists is returned when the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrFileNotFound is returned when an input file doesn't exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrUnknownMethod is returned for an unknown extraction method name.
	ErrUnknownMethod = errors.New("unknown extraction method")

	// ErrOpenAIKeyMissing is returned when a command needs the OpenAI API
	// and OPENAI_API_KEY is not set.
	ErrOpenAIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")
)
