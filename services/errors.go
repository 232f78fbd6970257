package services

import "errors"

var (
	ErrBursaryNotFound     = errors.New("bursary not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrProfileNotFound     = errors.New("student profile not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrForbidden           = errors.New("not allowed to modify this resource")
	ErrDeadlinePassed      = errors.New("application deadline has passed")
	ErrUnknownChart        = errors.New("unknown chart type")
)
