package fulfil

import "fmt"

// TransferError is a failed download or write of one resolved file.
type TransferError struct {
	FileID string
	Path   string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s to %s: %v", e.FileID, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
