package ledger

import "git.home.luguber.info/inful/mdwiki/internal/foundation/errors"

var (
	// ErrLedgerRead indicates an existing ledger file could not be read.
	// It is a warning: the run continues with an empty ledger.
	ErrLedgerRead = errors.LedgerError("content hash ledger unreadable").Warning().Build()

	// ErrMalformedEntry indicates ledger lines were skipped while loading.
	ErrMalformedEntry = errors.LedgerError("content hash ledger contains malformed entries").Warning().Build()

	// ErrLedgerWrite indicates the ledger could not be persisted at the end of a run.
	ErrLedgerWrite = errors.LedgerError("content hash ledger could not be written").Build()
)
