package errs

// ErrorKind identifies a kind of pipeline error.
// Attach it with errors.Mark and test with errors.Is.
type ErrorKind string

const (
	// Configuration is returned when options are rejected before any work is dispatched.
	Configuration = ErrorKind("configuration error")
	// Fatal aborts the current run: a failed derivation or a lost shard write.
	Fatal = ErrorKind("fatal error")
	// Recoverable is contained at the task boundary and never unwinds the run.
	Recoverable = ErrorKind("recoverable error")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
