package services

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrProgramRequired        = errors.New("a program must be selected")
	ErrAssignedDateRequired   = errors.New("assigned date is required when a program is assigned")
	ErrWeekOutOfRange         = errors.New("week is out of range")
	ErrEmptySelection         = errors.New("no athletes selected")
	ErrProgramInUse           = errors.New("program is assigned to athletes")
	ErrDuplicateEmail         = errors.New("email already exists")
	ErrPartialAssignment      = errors.New("some assignments failed")
)
