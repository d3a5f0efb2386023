package domain

import "errors"

// ErrMalformedImport is returned when an imported document lacks the
// "categories" collection or the "nodes" mapping.
var ErrMalformedImport = errors.New("malformed import")

// ErrNodeReferenced is returned when a node cannot be deleted because a
// current error-class issue names it as a target.
var ErrNodeReferenced = errors.New("node is still referenced")

// ErrInvalidSecret is returned when the submitted admin secret does not match.
var ErrInvalidSecret = errors.New("invalid admin secret")

// ErrSecretMismatch is returned when a new secret is empty or its confirmation differs.
var ErrSecretMismatch = errors.New("new secret is empty or does not match confirmation")

// ErrCategoryNotFound is returned when a walk is started on an unknown category.
var ErrCategoryNotFound = errors.New("category not found")

// ErrIllegalAction is returned when an action is not offered by the current view.
var ErrIllegalAction = errors.New("action not allowed here")

// ErrUnresolvableNode is returned when the walk's current node does not exist.
var ErrUnresolvableNode = errors.New("current node does not exist")

// ErrNotFound is returned by stores when a key is absent.
var ErrNotFound = errors.New("not found")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
