package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError values.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// ConfigParseError reports a malformed or non-object site config file.
func ConfigParseError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// SourceScanError reports a posts directory that exists but cannot be read.
func SourceScanError(message string) *ErrorBuilder {
	return NewError(CategoryScan, message).Fatal()
}

// PostRenderError reports a post that could not be read or converted.
func PostRenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Fatal()
}

// WriteError reports an output file that could not be written.
func WriteError(message string) *ErrorBuilder {
	return NewError(CategoryWrite, message).Fatal()
}

// ValidationError reports invalid user input (flags, arguments).
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// FileSystemError reports filesystem failures outside the build pipeline.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// GitError reports a failed git operation.
func GitError(message string) *ErrorBuilder {
	return NewError(CategoryGit, message)
}

// StoreError reports a build history store failure.
func StoreError(message string) *ErrorBuilder {
	return NewError(CategoryStore, message)
}

// ServerError reports a dev server failure.
func ServerError(message string) *ErrorBuilder {
	return NewError(CategoryServer, message).Fatal()
}

// InternalError reports a programming error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
