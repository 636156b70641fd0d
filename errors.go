package equity

import "errors"

// Sentinel errors returned by the ledger and the normalizer. Callers match
// them with errors.Is; wrapped messages carry the offending values.
var (
	// ErrInvalidInput reports a contract violation on a ledger operation,
	// such as a non-positive share count.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientShares reports a disposal larger than the held balance.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrNoPosition reports a disposal against an empty position.
	ErrNoPosition = errors.New("no position held")

	// ErrUnrecognizedFormat reports a source record matching none of the
	// known transaction shapes.
	ErrUnrecognizedFormat = errors.New("unrecognized record format")
)
