// Package lifecycle drives a transaction from built to validated: it signs,
// submits and verifies, converting issued-currency payments into partial
// payments funded from the native balance when the sender's trust line cannot
// cover them.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LeJamon/goXRPLwallet/internal/exchange"
	"github.com/LeJamon/goXRPLwallet/internal/journal"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/metrics"
	"github.com/LeJamon/goXRPLwallet/internal/signing"
	"github.com/LeJamon/goXRPLwallet/internal/tx"
)

// Ledger is the part of the ledger service the controller uses.
type Ledger interface {
	AccountLines(ctx context.Context, account, peer string) (*ledger.AccountLinesResult, error)
	AccountInfo(ctx context.Context, account string) (*ledger.AccountInfoResult, error)
	Submit(ctx context.Context, blob string) (*ledger.SubmitResult, error)
	Validate(ctx context.Context, hash string) (*ledger.ValidationResult, error)
}

// Liquidity evaluates order book depth for a pair.
type Liquidity interface {
	Evaluate(ctx context.Context, pair exchange.Pair, dir exchange.Direction, size decimal.Decimal) (*exchange.Report, error)
}

// Journal records lifecycle transitions.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Options tunes submission and verification.
type Options struct {
	// SubmitRetries is the number of resubmissions after transport failures.
	SubmitRetries int
	SubmitBackoff time.Duration
	PollInterval  time.Duration
	VerifyTimeout time.Duration
	// Fee in drops used when a transaction does not carry one.
	Fee string
	// LedgerOffset is added to the validated ledger index to fill
	// LastLedgerSequence.
	LedgerOffset uint32
}

func DefaultOptions() Options {
	return Options{
		SubmitRetries: 3,
		SubmitBackoff: time.Second,
		PollInterval:  4 * time.Second,
		VerifyTimeout: time.Minute,
		Fee:           "12",
		LedgerOffset:  20,
	}
}

// SignedTx is a signed, frozen transaction ready for submission.
type SignedTx struct {
	ID         string
	Tx         *tx.Transaction
	Blob       string
	Hash       string
	Conversion *Conversion
}

// Receipt is the preliminary result of a submission.
type Receipt struct {
	ID                  string
	Hash                string
	EngineResult        string
	EngineResultCode    int
	EngineResultMessage string
	SubmittedAt         time.Time
}

// Outcome is the validated result of a transaction.
type Outcome struct {
	ID          string
	Hash        string
	Result      string
	LedgerIndex uint32
}

type attempt struct {
	id          string
	typ         tx.Type
	account     string
	state       State
	hash        string
	err         *Error
	submittedAt time.Time
}

// Controller tracks attempts by id. It is safe for concurrent use; each
// attempt is driven by a single caller.
type Controller struct {
	ledger    Ledger
	signer    signing.Signer
	liquidity Liquidity
	journal   Journal
	logger    *slog.Logger
	opts      Options

	mu       sync.Mutex
	attempts map[string]*attempt
}

// New returns a Controller. liquidity and journal may be nil: without
// liquidity, payments that need conversion fail with NotInitialized.
// A non-positive PollInterval or VerifyTimeout takes its DefaultOptions value.
func New(l Ledger, signer signing.Signer, liquidity Liquidity, j Journal, logger *slog.Logger, opts Options) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}
	if opts.VerifyTimeout <= 0 {
		opts.VerifyTimeout = defaults.VerifyTimeout
	}
	return &Controller{
		ledger:    l,
		signer:    signer,
		liquidity: liquidity,
		journal:   j,
		logger:    logger.With("component", "lifecycle"),
		opts:      opts,
		attempts:  make(map[string]*attempt),
	}
}

// State returns the tracked state of an attempt.
func (c *Controller) State(id string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.attempts[id]
	if !ok {
		return Built, false
	}
	return a.state, true
}

// Failure returns the error a failed attempt ended with.
func (c *Controller) Failure(id string) (*Error, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.attempts[id]
	if !ok || a.err == nil {
		return nil, false
	}
	return a.err, true
}

func (c *Controller) begin(ctx context.Context, t *tx.Transaction) *attempt {
	a := &attempt{
		id:      uuid.NewString(),
		typ:     t.Type(),
		account: t.Account(),
		state:   Built,
	}
	c.mu.Lock()
	c.attempts[a.id] = a
	c.mu.Unlock()
	c.record(ctx, a)
	return a
}

// expect returns the attempt id if it is tracked and in state want.
func (c *Controller) expect(id string, want State) (*attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.attempts[id]
	if !ok {
		return nil, &Error{Kind: OutOfOrder, Reason: fmt.Sprintf("unknown attempt %q", id)}
	}
	if a.state != want {
		return nil, &Error{Kind: OutOfOrder, Reason: fmt.Sprintf("attempt is %s, not %s", a.state, want)}
	}
	return a, nil
}

func (c *Controller) transition(ctx context.Context, a *attempt, to State, update func(*attempt)) {
	c.mu.Lock()
	a.state = to
	if update != nil {
		update(a)
	}
	c.mu.Unlock()

	metrics.LifecycleTransitions.WithLabelValues(a.typ.String(), to.String()).Inc()
	c.logger.Info("transaction state changed",
		"attempt", a.id,
		"tx_type", a.typ.String(),
		"state", to.String(),
		"hash", a.hash,
	)
	c.record(ctx, a)
}

// fail moves the attempt to Failed with e, unless ctx was cancelled, in which
// case the attempt is left untouched and the context error is returned.
func (c *Controller) fail(ctx context.Context, a *attempt, e *Error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.LifecycleFailures.WithLabelValues(string(e.Kind)).Inc()
	c.transition(ctx, a, Failed, func(a *attempt) { a.err = e })
	return e
}

func (c *Controller) record(ctx context.Context, a *attempt) {
	if c.journal == nil {
		return
	}
	c.mu.Lock()
	e := journal.Entry{
		ID:      a.id,
		Hash:    a.hash,
		Type:    a.typ.String(),
		Account: a.account,
		State:   a.state.String(),
	}
	if a.err != nil {
		e.Kind = string(a.err.Kind)
		e.Reason = a.err.Reason
		e.Code = a.err.Code
	}
	c.mu.Unlock()

	if err := c.journal.Record(context.WithoutCancel(ctx), e); err != nil {
		c.logger.Warn("journal record failed", "attempt", a.id, "error", err)
	}
}

// Sign prepares, validates and signs t with keys. The work happens on a copy
// of t: on success t receives the signed fields and is frozen, on any failure
// t is left exactly as the caller built it.
func (c *Controller) Sign(ctx context.Context, t *tx.Transaction, keys signing.KeyPair) (*SignedTx, error) {
	if t.Frozen() {
		return nil, &Error{Kind: OutOfOrder, Reason: "transaction is already signed"}
	}
	a := c.begin(ctx, t)
	work := t.Clone()

	if err := keys.Validate(); err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "invalid keys", Err: err})
	}
	switch account := work.Account(); account {
	case "":
		if err := work.SetAccount(keys.Address); err != nil {
			return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "set account", Err: err})
		}
		c.mu.Lock()
		a.account = keys.Address
		c.mu.Unlock()
	case keys.Address:
	default:
		return nil, c.fail(ctx, a, &Error{
			Kind:   SigningError,
			Reason: fmt.Sprintf("keys control %s, not %s", keys.Address, account),
			Err:    signing.ErrAccountMismatch,
		})
	}

	conversion, err := c.PreparePayment(ctx, work)
	if err != nil {
		return nil, c.failWith(ctx, a, SigningError, "prepare payment", err)
	}

	if err := c.autofill(ctx, work); err != nil {
		return nil, c.failWith(ctx, a, SigningError, "autofill", err)
	}
	if err := work.Validate(); err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "invalid transaction", Err: err})
	}
	if err := work.SetSigningPubKey(keys.PublicKey); err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "set signing key", Err: err})
	}

	canonical, err := work.EncodeForSigning()
	if err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "encode for signing", Err: err})
	}
	signature, err := c.signer.Sign(ctx, canonical, keys)
	if err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "sign", Err: err})
	}
	if err := work.AttachSignature(signature); err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "attach signature", Err: err})
	}

	blob, err := work.Encode()
	if err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "encode", Err: err})
	}
	hash, err := tx.Hash(blob)
	if err != nil {
		return nil, c.fail(ctx, a, &Error{Kind: SigningError, Reason: "hash", Err: err})
	}

	*t = *work
	c.transition(ctx, a, Signed, func(a *attempt) { a.hash = hash })
	return &SignedTx{ID: a.id, Tx: t, Blob: blob, Hash: hash, Conversion: conversion}, nil
}

// failWith fails the attempt with err if it already is a lifecycle error, or
// with a new error of kind otherwise.
func (c *Controller) failWith(ctx context.Context, a *attempt, kind Kind, reason string, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: kind, Reason: reason, Err: err}
	}
	return c.fail(ctx, a, e)
}

// autofill sets Fee, Sequence and LastLedgerSequence on submittable
// transactions that lack them.
func (c *Controller) autofill(ctx context.Context, t *tx.Transaction) error {
	if !t.Type().Submittable() {
		return nil
	}
	if _, ok := t.Fee(); !ok && c.opts.Fee != "" {
		if err := t.SetFee(c.opts.Fee); err != nil {
			return err
		}
	}

	_, hasSeq := t.Sequence()
	_, hasLast := t.LastLedgerSequence()
	if hasSeq && hasLast {
		return nil
	}
	info, err := c.ledger.AccountInfo(ctx, t.Account())
	if err != nil {
		return fmt.Errorf("account_info: %w", err)
	}
	if !hasSeq && !t.Has("TicketSequence") {
		if err := t.SetSequence(info.AccountData.Sequence); err != nil {
			return err
		}
	}
	if !hasLast && info.LedgerIndex > 0 && c.opts.LedgerOffset > 0 {
		if err := t.SetLastLedgerSequence(info.LedgerIndex + c.opts.LedgerOffset); err != nil {
			return err
		}
	}
	return nil
}

// Submit submits a signed transaction, retrying transport failures with
// exponential backoff. A tefPAST_SEQ or tefALREADY answer to a retry means an
// earlier try got through, so the attempt moves to Submitted and Verify
// settles it by hash.
func (c *Controller) Submit(ctx context.Context, s *SignedTx) (*Receipt, error) {
	a, err := c.expect(s.ID, Signed)
	if err != nil {
		return nil, err
	}
	if !s.Tx.Type().Submittable() {
		return nil, &Error{Kind: OutOfOrder, Reason: fmt.Sprintf("%s transactions are never submitted", s.Tx.Type())}
	}

	var (
		result *ledger.SubmitResult
		try    int
	)
	backoff := c.opts.SubmitBackoff
	for ; ; try++ {
		result, err = c.ledger.Submit(ctx, s.Blob)
		if err == nil || !ledger.IsTransport(err) || try >= c.opts.SubmitRetries || ctx.Err() != nil {
			break
		}
		metrics.SubmitRetries.Inc()
		c.logger.Warn("submission failed, retrying", "attempt", a.id, "try", try+1, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	if err != nil {
		e := &Error{Kind: SubmissionError, Reason: "submit", Err: err}
		var serverErr *ledger.Error
		if errors.As(err, &serverErr) {
			e.Code = serverErr.Name
		}
		return nil, c.fail(ctx, a, e)
	}

	if result.Hash() != "" && !strings.EqualFold(result.Hash(), s.Hash) {
		c.logger.Warn("server reported a different hash", "attempt", a.id, "hash", s.Hash, "reported", result.Hash())
	}
	if try > 0 && alreadySubmitted(result.EngineResult) {
		c.logger.Warn("earlier submission may have been applied, verifying by hash",
			"attempt", a.id, "engine_result", result.EngineResult)
	} else if !accepted(result.EngineResult) {
		return nil, c.fail(ctx, a, &Error{
			Kind:   RejectedError,
			Reason: result.EngineResultMessage,
			Code:   result.EngineResult,
		})
	}

	receipt := &Receipt{
		ID:                  a.id,
		Hash:                s.Hash,
		EngineResult:        result.EngineResult,
		EngineResultCode:    result.EngineResultCode,
		EngineResultMessage: result.EngineResultMessage,
		SubmittedAt:         time.Now(),
	}
	c.transition(ctx, a, Submitted, func(a *attempt) { a.submittedAt = receipt.SubmittedAt })
	return receipt, nil
}

// accepted reports whether a preliminary engine result may still lead to the
// transaction being validated.
func accepted(engineResult string) bool {
	return strings.HasPrefix(engineResult, "tes") || strings.HasPrefix(engineResult, "ter")
}

// alreadySubmitted reports whether a resubmission was refused because an
// earlier copy of the same blob reached the server. Only the validated ledger
// can tell whether that copy applied.
func alreadySubmitted(engineResult string) bool {
	return engineResult == "tefPAST_SEQ" || engineResult == "tefALREADY"
}

// Verify polls the ledger until the transaction is validated or VerifyTimeout
// elapses.
func (c *Controller) Verify(ctx context.Context, r *Receipt) (*Outcome, error) {
	a, err := c.expect(r.ID, Submitted)
	if err != nil {
		return nil, err
	}

	vctx, cancel := context.WithTimeout(ctx, c.opts.VerifyTimeout)
	defer cancel()
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		result, err := c.ledger.Validate(vctx, r.Hash)
		switch {
		case err == nil && result.Validated:
			metrics.VerifyLatency.Observe(time.Since(r.SubmittedAt).Seconds())
			if result.Result != "tesSUCCESS" {
				return nil, c.fail(ctx, a, &Error{
					Kind:   NotValidatedError,
					Reason: "validated with a failure result",
					Code:   result.Result,
				})
			}
			c.transition(ctx, a, Validated, nil)
			return &Outcome{ID: a.id, Hash: r.Hash, Result: result.Result, LedgerIndex: result.LedgerIndex}, nil
		case err != nil && ctx.Err() == nil && vctx.Err() == nil:
			c.logger.Debug("validation poll failed", "attempt", a.id, "error", err)
		}

		select {
		case <-vctx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, c.fail(ctx, a, &Error{
				Kind:   NotValidatedError,
				Reason: fmt.Sprintf("not validated within %s", c.opts.VerifyTimeout),
			})
		case <-ticker.C:
		}
	}
}

// Run signs, submits and verifies t. SignIn transactions stop after signing.
func (c *Controller) Run(ctx context.Context, t *tx.Transaction, keys signing.KeyPair) (*SignedTx, *Outcome, error) {
	signed, err := c.Sign(ctx, t, keys)
	if err != nil {
		return nil, nil, err
	}
	if !t.Type().Submittable() {
		return signed, nil, nil
	}
	receipt, err := c.Submit(ctx, signed)
	if err != nil {
		return signed, nil, err
	}
	outcome, err := c.Verify(ctx, receipt)
	return signed, outcome, err
}
