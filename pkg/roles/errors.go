package roles

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownColor          = errors.New("unknown color")
	ErrUnknownType           = errors.New("unknown type")
	ErrRoleNotConfigured     = errors.New("role not configured in guild")
	ErrPositionNotConfigured = errors.New("color role position not configured for guild")
)

// Step names the directory operation that failed.
type Step string

const (
	StepListRoles       Step = "list roles"
	StepListMemberRoles Step = "list member roles"
	StepCreateRole      Step = "create role"
	StepSetPosition     Step = "set role position"
	StepAddRole         Step = "add role"
	StepRemoveRole      Step = "remove role"
	StepPace            Step = "wait for directory"
)

// DirectoryError wraps a failed directory call together with the step it
// happened in.
type DirectoryError struct {
	Step Step
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s: %v", e.Step, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}
