package workspace

import "errors"

var (
	ErrWorkspaceNotFound    = errors.New("workspace not found")
	ErrWorkspaceAmbiguous   = errors.New("workspace selection is ambiguous")
	ErrCodeNotFound         = errors.New("workspace code not found")
	ErrAlreadyMember        = errors.New("already a member of this workspace")
	ErrMemberNotFound       = errors.New("member not found")
	ErrNotMember            = errors.New("not a member of this workspace")
	ErrNotOwner             = errors.New("not the workspace owner")
	ErrCannotRemoveOwner    = errors.New("cannot remove the workspace owner")
	ErrCodeGenerationFailed = errors.New("workspace code generation failed")
)
