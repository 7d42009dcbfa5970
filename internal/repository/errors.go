// Package repository holds the errors shared by every registry state store.
package repository

import "errors"

var (
	ErrOwnerNotSet      = errors.New("registry owner not set")
	ErrOwnerAlreadySet  = errors.New("registry owner already set")
	ErrActorNotFound    = errors.New("actor not found")
	ErrQuestionNotFound = errors.New("question not found")
)
