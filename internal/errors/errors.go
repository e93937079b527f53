package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeParse         ErrorType = "PARSE"
	TypeValidation    ErrorType = "VALIDATION"
	TypeGit           ErrorType = "GIT"
	TypeIO            ErrorType = "IO"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type, the offending detail and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Detail     string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel this error was derived from.
// Copies made with the With* helpers keep Type and Message, so they still match.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

func (e *AppError) clone() *AppError {
	c := *e
	return &c
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	c := e.clone()
	c.Err = err
	return c
}

// WithDetail creates a new AppError carrying the offending value description
func (e *AppError) WithDetail(format string, args ...interface{}) *AppError {
	c := e.clone()
	c.Detail = fmt.Sprintf(format, args...)
	return c
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	c := e.clone()
	c.Context = ctx
	return c
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	c := e.clone()
	c.Suggestion = suggestion
	return c
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrConfigRead = NewAppError(TypeConfiguration, "Failed to read configuration", nil).
			WithSuggestion("Check the path passed with --config or COMMITHELPER_CONFIG")

	ErrConfigDecode = NewAppError(TypeConfiguration, "Configuration does not match the schema", nil).
			WithSuggestion("Print the expected schema with: commithelper config schema")

	ErrConfigInvalid = NewAppError(TypeConfiguration, "Configuration values are out of range", nil).
				WithSuggestion("Compare with the defaults: commithelper config show")

	ErrConfigWrite = NewAppError(TypeConfiguration, "Failed to write configuration", nil)

	ErrConfigExists = NewAppError(TypeConfiguration, "Configuration file already exists", nil).
			WithSuggestion("Use --force to overwrite it")
)

// Parse errors
var (
	ErrInvalidHeader = NewAppError(TypeParse, "Commit header is malformed", nil).
				WithSuggestion("Use '<type>: <subject>' or '<type>(<scope>): <subject>' on the first line")

	ErrEmptyMessage = NewAppError(TypeParse, "Commit message is empty", nil)
)

// Validation errors, one per rule
var (
	ErrUnknownType        = NewAppError(TypeValidation, "Unknown commit type", nil)
	ErrMissingScope       = NewAppError(TypeValidation, "Missing scope", nil)
	ErrInvalidScope       = NewAppError(TypeValidation, "Invalid scope", nil)
	ErrSubjectCasing      = NewAppError(TypeValidation, "Subject casing does not match policy", nil).WithSuggestion("Run again with --fix to correct it")
	ErrLineTooLong        = NewAppError(TypeValidation, "Line exceeds the wrap limit", nil).WithSuggestion("Run again with --fix to rewrap it")
	ErrBreakingNotAllowed = NewAppError(TypeValidation, "Breaking change not allowed for type", nil)
	ErrMalformedTicket    = NewAppError(TypeValidation, "Malformed ticket reference", nil)
)

// Git errors
var (
	ErrNotInGitRepo = NewAppError(TypeGit, "Not in a git repository", nil).
			WithSuggestion("Initialize a git repository: git init")

	ErrGetRepoRoot = NewAppError(TypeGit, "Failed to get repository root", nil).
			WithSuggestion("Make sure you are inside a git repository")

	ErrGetHooksDir = NewAppError(TypeGit, "Failed to locate the hooks directory", nil)

	ErrGetCommits = NewAppError(TypeGit, "Failed to read commit history", nil).
			WithSuggestion("Check the revision range, e.g. origin/main..HEAD")

	ErrHookExists = NewAppError(TypeGit, "A commit-msg hook is already installed", nil).
			WithSuggestion("Use --force to replace it")
)

// IO errors
var (
	ErrReadMessage   = NewAppError(TypeIO, "Failed to read commit message", nil)
	ErrWriteMessage  = NewAppError(TypeIO, "Failed to write commit message", nil)
	ErrPromptAborted = NewAppError(TypeIO, "Prompt aborted", nil).
				WithSuggestion("Answer every question or press Ctrl+C to cancel")
)
