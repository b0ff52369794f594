/*
errors.go - Centralized error types for the ledger engine

ERROR POLICY (matters more than the error list):
  - Unknown source: programming error by the caller. Fatal, returned.
  - Malformed rows/fields: NOT errors. Extractors degrade locally.
  - Finalized-day protection: NOT an error. It is the designed skip path,
    visible only through Receipt.DaysSkippedFinalized.
  - Storage WRITE failure after merge: logged, swallowed. The call still
    returns its receipt; durability is best-effort by design.
  - Storage READ failure: returned. Without a loaded ledger there is
    nothing safe to merge into.
*/
package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSource is returned when ProcessImport is handed a source
	// identifier outside the closed enumeration (or the manual source,
	// which has no import path).
	ErrUnknownSource = errors.New("unknown source")
)

// UnknownSourceError carries the offending identifier.
type UnknownSourceError struct {
	Source Source
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source: %q", string(e.Source))
}

func (e *UnknownSourceError) Unwrap() error { return ErrUnknownSource }
