package store

import (
	"errors"
	"fmt"

	"github.com/driftwoodlabs/awaitkit/retry"
)

var (
	// ErrNotFound is returned by GetItem when the item never appeared
	// within the retry budget. Matches retry.ErrExhausted under errors.Is.
	ErrNotFound = fmt.Errorf("awaitkit: item never appeared: %w", retry.ErrExhausted)

	// ErrNoResults is returned by Query when no page with items or a
	// continuation key appeared within the retry budget. Matches
	// retry.ErrExhausted under errors.Is.
	ErrNoResults = fmt.Errorf("awaitkit: query matched no results: %w", retry.ErrExhausted)

	// ErrMissingTable is returned when no table name was supplied.
	ErrMissingTable = errors.New("awaitkit: table name is required")

	// ErrMissingPartitionKey is returned when a Key lacks its partition
	// attribute name or value.
	ErrMissingPartitionKey = errors.New("awaitkit: partition key name and value are required")

	// ErrMissingSortName is returned when a Key carries a sort value but
	// no attribute name to send it under.
	ErrMissingSortName = errors.New("awaitkit: sort key value given without an attribute name")

	// ErrMissingKeyCondition is returned when a QueryInput lacks its key
	// condition expression.
	ErrMissingKeyCondition = errors.New("awaitkit: key condition expression is required")
)
