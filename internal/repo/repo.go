// Package repo provides the per-entity repositories built on the store's
// uniform run/get/all contract.
//
// Each repository owns the mapping between its entity struct and the
// snake_case column set, so naming ambiguity never leaks into SQL text.
// Update contracts differ deliberately: Report, InventoryItem and
// ToolboxForm replace the full set of mutable columns (callers supply a
// complete value, unchanged fields included), while Task supports a
// COALESCE-based partial patch.
//
// Repositories do not re-validate request payloads (that is the
// caller's job) and they do not catch query errors: failures propagate
// to the route-handler boundary. Not-found is represented as a nil
// entity, never an error.
package repo

import "errors"

// ErrStaffIDTaken is returned when creating a user with a staff ID that
// already exists. The API boundary maps this to a 409-style signal.
var ErrStaffIDTaken = errors.New("staff id already exists")

// ErrQueryTooShort is returned by Search for queries under two
// characters.
var ErrQueryTooShort = errors.New("search query must be at least 2 characters")
