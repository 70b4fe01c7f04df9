package models

import "errors"

// Error taxonomy shared by stores, services and controllers.
// Callers wrap these with fmt.Errorf("...: %w") and match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInternal         = errors.New("internal error")
)
