package domain

import "errors"

var (
	// ErrChildNotFound is returned when an identifier matches no child record.
	ErrChildNotFound = errors.New("child not found")
	// ErrInvalidChild is returned when a new profile lacks a name or a positive age.
	ErrInvalidChild = errors.New("child needs a name and a positive age")
	// ErrEmptyMessage is returned when a message body is blank after trimming.
	ErrEmptyMessage = errors.New("message body is empty")
	// ErrNoProfiles signals that a quiz cannot start because no children exist.
	ErrNoProfiles = errors.New("no child profiles exist yet")
	// ErrInsufficientData signals that children exist but none has a usable attribute.
	ErrInsufficientData = errors.New("not enough profile data to build trivia questions")
)
