package contract

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("record not found")
	ErrBackendUnavailable   = errors.New("backend lookup unavailable")
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	ErrComposerFailure      = errors.New("answer composition failed")
	ErrModelInvoke          = errors.New("model invoke failed")
)
