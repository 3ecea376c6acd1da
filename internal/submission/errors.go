package submission

import "fmt"

// ValidationError rejects malformed input before anything external is called.
// Fields maps field name to a user-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("invalid %s: %s", field, msg)
	}
	return "invalid input"
}

// VerificationError means the challenge token could not be trusted. Rejected
// distinguishes a definite vendor "no" from an infrastructure failure; both
// abort the pipeline before any write.
type VerificationError struct {
	Rejected bool
	Err      error
}

func (e *VerificationError) Error() string {
	if e.Rejected {
		return "security verification failed"
	}
	return fmt.Sprintf("challenge verification unavailable: %v", e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// UploadError means the blob store rejected or failed to store the resume.
// No row has been written when this is returned.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload resume: %v", e.Err) }

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError means the row insert failed. For career submissions the
// already-uploaded blob is left in place and logged as an orphan.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persist submission: %v", e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }
