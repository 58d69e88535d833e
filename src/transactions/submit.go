package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	logger "github.com/sirupsen/logrus"

	"oddslens/src/utils"
)

// Status is the submission flow state, driven by a single user action.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSigning    Status = "signing"
	StatusConfirming Status = "confirming"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// maxPollFailures bounds consecutive confirmation-poll RPC errors within one
// attempt. Once hit, the attempt fails with a transient error so the outer
// retry budget applies instead of the poll loop spinning against a dead
// endpoint.
const maxPollFailures = 20

// RPCClient is the slice of the Solana RPC surface the flow needs.
type RPCClient interface {
	SendRawTransactionWithOpts(ctx context.Context, txBytes []byte, opts rpc.TransactionOpts) (solana.Signature, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
}

// Submitter drives the sign-submit-confirm flow for transactions built by the
// market API. Submission and confirmation are retried on transient failure;
// the signing step runs exactly once.
type Submitter struct {
	rpc          RPCClient
	maxRetries   int
	backoff      func(int) time.Duration
	pollInterval time.Duration
	sendRetries  uint
	onState      func(Status)
	onAttempt    func(int)
}

type SubmitterOption func(*Submitter)

// WithMaxRetries bounds retries of the submit-and-confirm step (not signing).
func WithMaxRetries(n int) SubmitterOption {
	return func(s *Submitter) { s.maxRetries = n }
}

func WithBackoff(f func(int) time.Duration) SubmitterOption {
	return func(s *Submitter) { s.backoff = f }
}

func WithPollInterval(d time.Duration) SubmitterOption {
	return func(s *Submitter) { s.pollInterval = d }
}

// WithStateFunc registers a callback observing state transitions, letting the
// caller render inline progress.
func WithStateFunc(f func(Status)) SubmitterOption {
	return func(s *Submitter) { s.onState = f }
}

// WithAttemptFunc registers a callback invoked at the start of each
// submit-and-confirm attempt, numbered from 1.
func WithAttemptFunc(f func(int)) SubmitterOption {
	return func(s *Submitter) { s.onAttempt = f }
}

func NewSubmitter(client RPCClient, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		rpc:          client,
		maxRetries:   2,
		backoff:      utils.LinearBackoff(time.Second),
		pollInterval: 500 * time.Millisecond,
		sendRetries:  3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Submitter) setState(st Status) {
	if s.onState != nil {
		s.onState(st)
	}
}

// SignAndSend decodes the base64 transaction, requests a signature from the
// wallet, submits the signed bytes and polls for confirmation. A user
// rejection is surfaced verbatim and never retried; transient failures retry
// the submit-and-confirm step with linearly increasing backoff. Returns the
// transaction signature on success.
func (s *Submitter) SignAndSend(ctx context.Context, transactionBase64 string, signer Signer) (solana.Signature, error) {
	s.setState(StatusSigning)

	tx, err := DecodeBase64Transaction(transactionBase64)
	if err != nil {
		s.setState(StatusError)
		return solana.Signature{}, err
	}

	signed, err := signer.SignTransaction(ctx, tx)
	if err != nil {
		s.setState(StatusError)
		return solana.Signature{}, err
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		s.setState(StatusError)
		return solana.Signature{}, fmt.Errorf("serialize signed transaction: %w", err)
	}

	s.setState(StatusConfirming)
	attempt := 0
	sig, err := utils.Retry(ctx, utils.RetryConfig{
		MaxAttempts:  s.maxRetries + 1,
		Backoff:      s.backoff,
		NonRetryable: IsUserRejected,
	}, func(ctx context.Context) (solana.Signature, error) {
		attempt++
		if s.onAttempt != nil {
			s.onAttempt(attempt)
		}
		return s.sendAndConfirm(ctx, raw)
	})
	if err != nil {
		s.setState(StatusError)
		return solana.Signature{}, err
	}

	s.setState(StatusSuccess)
	return sig, nil
}

func (s *Submitter) sendAndConfirm(ctx context.Context, raw []byte) (solana.Signature, error) {
	sendRetries := s.sendRetries
	sig, err := s.rpc.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
		MaxRetries:          &sendRetries,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}

	logger.WithField("signature", sig.String()).Info("transaction submitted, awaiting confirmation")

	latest, err := s.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("fetch blockhash window: %w", err)
	}
	lastValidHeight := latest.Value.LastValidBlockHeight

	// With the status call broken confirmation can never be observed, and
	// with the height call broken the blockhash-window exit can never fire,
	// so either failing maxPollFailures times in a row ends the attempt.
	statusFailures := 0
	heightFailures := 0
	for {
		statuses, statusErr := s.rpc.GetSignatureStatuses(ctx, false, sig)
		if statusErr != nil {
			statusFailures++
			if statusFailures >= maxPollFailures {
				return solana.Signature{}, fmt.Errorf("confirmation polling failed: %w", statusErr)
			}
		} else {
			statusFailures = 0
			if len(statuses.Value) > 0 && statuses.Value[0] != nil {
				status := statuses.Value[0]
				if status.Err != nil {
					return solana.Signature{}, fmt.Errorf("transaction failed on chain: %v", status.Err)
				}
				switch status.ConfirmationStatus {
				case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
					return sig, nil
				}
			}
		}

		height, heightErr := s.rpc.GetBlockHeight(ctx, rpc.CommitmentConfirmed)
		if heightErr != nil {
			heightFailures++
			if heightFailures >= maxPollFailures {
				return solana.Signature{}, fmt.Errorf("confirmation polling failed: %w", heightErr)
			}
		} else {
			heightFailures = 0
			if height > lastValidHeight {
				return solana.Signature{}, errors.New("blockhash expired before confirmation")
			}
		}

		timer := time.NewTimer(s.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return solana.Signature{}, ctx.Err()
		case <-timer.C:
		}
	}
}
