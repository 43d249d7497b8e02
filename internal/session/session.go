// =============================================================================
// Challan Generator - Session State
// =============================================================================
//
// A Session is one operator's batch: the locked settings and the ledger of
// receipts built so far. All state lives in this value and is handed to the
// Handler explicitly on every request.
//
// LIFECYCLE:
//   New  --Configure-->  Configured  --Add-->  Active
//   Active --Delete (last record)--> Configured
//   any  --Reset-->  New        (settings and ledger cleared together)
//   any  --Discard-->  Discarded (terminal)
//
// =============================================================================

package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/ledger"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/ginjaninja78/challan-generator/internal/types"
	"github.com/google/uuid"
)

// State is the lifecycle state of a session.
type State int

const (
	StateNew State = iota
	StateConfigured
	StateActive
	StateDiscarded
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateConfigured:
		return "configured"
	case StateActive:
		return "active"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Config holds the batch settings. It is locked once the session is
// configured and only a reset clears it.
type Config struct {
	// StartNumber is the serial of the first receipt.
	StartNumber int

	// PaymentDate is printed on every receipt unless a record overrides it.
	PaymentDate time.Time

	// KeepDecimals and OnlySuffix form the amount policy of the batch.
	KeepDecimals bool
	OnlySuffix   bool
}

// Formatter returns the amount policy of the batch.
func (c Config) Formatter() money.Formatter {
	return money.Formatter{KeepDecimals: c.KeepDecimals, OnlySuffix: c.OnlySuffix}
}

// Session is one batch in progress.
type Session struct {
	// ID identifies the session in logs.
	ID string

	state  State
	config Config
	ledger *ledger.Ledger
}

// New creates an empty, unconfigured session.
func New() *Session {
	return &Session{ID: uuid.NewString(), state: StateNew}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Config returns the locked settings. The zero Config is returned before
// the session is configured.
func (s *Session) Config() Config {
	return s.config
}

// Len returns the number of receipts in the batch.
func (s *Session) Len() int {
	if s.ledger == nil {
		return 0
	}
	return s.ledger.Len()
}

// NextSerial returns the serial the next receipt will get, or 0 before the
// session is configured.
func (s *Session) NextSerial() int {
	if s.ledger == nil {
		return 0
	}
	return s.ledger.NextSerial()
}

// Find returns a record by id or, when ref is a number, by current serial.
func (s *Session) Find(ref string) (types.ReceiptRecord, error) {
	ref = strings.TrimSpace(ref)
	if s.ledger == nil {
		return types.ReceiptRecord{}, apperror.NewRecordNotFound(ref)
	}
	if r, err := s.ledger.Get(ref); err == nil {
		return r, nil
	}
	if serial, err := strconv.Atoi(ref); err == nil {
		return s.ledger.BySerial(serial)
	}
	return types.ReceiptRecord{}, apperror.NewRecordNotFound(ref)
}

// require fails with SESSION_STATE unless the session is in one of states.
func (s *Session) require(op string, states ...State) error {
	for _, st := range states {
		if s.state == st {
			return nil
		}
	}
	if s.state == StateDiscarded {
		return apperror.NewSessionState("session has been discarded").WithDetail("operation", op)
	}

	names := make([]string, len(states))
	for i, st := range states {
		names[i] = st.String()
	}
	return apperror.NewSessionState(op + " is not allowed while the session is " + s.state.String() +
		" (allowed: " + strings.Join(names, ", ") + ")").WithDetail("operation", op)
}
