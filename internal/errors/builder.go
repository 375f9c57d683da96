package errors

// Builder assembles an Error.
type Builder struct {
	kind    Kind
	message string
	cause   error
	context Context
}

// New starts a Builder for kind with a message.
func New(kind Kind, message string) *Builder {
	return &Builder{kind: kind, message: message, context: make(Context)}
}

// Wrap starts a Builder that wraps err.
func Wrap(err error, kind Kind, message string) *Builder {
	return New(kind, message).WithCause(err)
}

func (b *Builder) WithCause(err error) *Builder {
	b.cause = err
	return b
}

func (b *Builder) WithContext(key string, value any) *Builder {
	b.context = b.context.Set(key, value)
	return b
}

func (b *Builder) Build() *Error {
	return &Error{kind: b.kind, message: b.message, cause: b.cause, context: b.context}
}

// ReadError reports a file that is missing or unreadable.
func ReadError(path string, cause error) *Error {
	return Wrap(cause, KindRead, "could not read file "+path).
		WithContext(CtxPath, path).Build()
}

// EmptyFileError reports a file that was read but holds no bytes.
func EmptyFileError(path string) *Error {
	return New(KindEmptyFile, "file "+path+" has zero length").
		WithContext(CtxPath, path).Build()
}

// WriteError reports a destination that could not be written.
func WriteError(path string, cause error) *Error {
	return Wrap(cause, KindWrite, "could not write file "+path).
		WithContext(CtxPath, path).Build()
}

// MissingContentTag reports a template without the {{.content}} tag.
func MissingContentTag() *Error {
	return New(KindMissingContentTag, "template has no {{.content}} tag").Build()
}

// UnresolvedTag reports a template tag absent from the page metadata.
func UnresolvedTag(name string) *Error {
	return New(KindUnresolvedTag, "could not find tag {{."+name+"}} in metadata").
		WithContext(CtxTag, name).Build()
}

// IncludeReadError reports an #include target that could not be read.
// location is the directive position, e.g. "page.src:12".
func IncludeReadError(path, location string, cause error) *Error {
	return Wrap(cause, KindIncludeRead, "could not include file "+path+" at "+location).
		WithContext(CtxPath, path).
		WithContext(CtxLocation, location).Build()
}

// RenderError reports a markup to HTML conversion failure.
func RenderError(cause error) *Error {
	return Wrap(cause, KindRender, "could not convert markup to HTML").Build()
}

// ConfigError reports a missing, malformed or incomplete configuration.
func ConfigError(message string, cause error) *Error {
	return Wrap(cause, KindConfig, message).Build()
}

// UsageError reports invalid command line usage.
func UsageError(message string) *Error {
	return New(KindUsage, message).Build()
}
