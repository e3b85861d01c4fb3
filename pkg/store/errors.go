package store

import "errors"

// Configuration errors, surfaced at construction.
var (
	ErrNoOptions       = errors.New("store: options are required")
	ErrNoEncryptionKey = errors.New("store: encryption enabled but no key was provided")
)

// Invalid-argument errors, fatal to the call that passed them.
var (
	ErrEmptyKey = errors.New("store: key must not be empty")
	ErrNilValue = errors.New("store: value must not be nil")
)

// ErrKeyNotFound is returned by Get and Query for an absent key.
// Callers that expect absence should check Has first.
var ErrKeyNotFound = errors.New("store: key not found")

// ErrNoBackingFile is returned by Backup when no backing file exists yet.
var ErrNoBackingFile = errors.New("store: backing file does not exist")
