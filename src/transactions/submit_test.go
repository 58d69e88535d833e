package transactions

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

type mockRPC struct {
	sendCalls    int
	sendErrs     []error
	sentSig      solana.Signature
	statusCalls  int
	statusErr    error
	chainErr     interface{}
	blockHeight  uint64
	heightErr    error
	heightCalls  int
	confirmation rpc.ConfirmationStatusType
}

func (m *mockRPC) SendRawTransactionWithOpts(ctx context.Context, txBytes []byte, opts rpc.TransactionOpts) (solana.Signature, error) {
	m.sendCalls++
	if m.sendCalls <= len(m.sendErrs) {
		if err := m.sendErrs[m.sendCalls-1]; err != nil {
			return solana.Signature{}, err
		}
	}
	return m.sentSig, nil
}

func (m *mockRPC) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            solana.Hash{},
			LastValidBlockHeight: 1000,
		},
	}, nil
}

func (m *mockRPC) GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	m.statusCalls++
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	confirmation := m.confirmation
	if confirmation == "" {
		confirmation = rpc.ConfirmationStatusConfirmed
	}
	return &rpc.GetSignatureStatusesResult{
		Value: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: confirmation, Err: m.chainErr},
		},
	}, nil
}

func (m *mockRPC) GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	m.heightCalls++
	return m.blockHeight, m.heightErr
}

type rejectingSigner struct{}

func (rejectingSigner) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	return nil, ErrUserRejected
}

func buildTestTransaction(t *testing.T, payer *solana.Wallet) string {
	t.Helper()
	recipient := solana.NewWallet()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, payer.PublicKey(), recipient.PublicKey()).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		t.Fatalf("build transaction: %v", err)
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal transaction: %v", err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestSignAndSendSuccess(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	wantSig := solana.Signature{4, 2}
	mock := &mockRPC{sentSig: wantSig}

	var states []Status
	submitter := NewSubmitter(mock,
		WithBackoff(func(int) time.Duration { return time.Millisecond }),
		WithPollInterval(time.Millisecond),
		WithStateFunc(func(st Status) { states = append(states, st) }),
	)

	sig, err := submitter.SignAndSend(context.Background(), encoded, NewKeypairSigner(payer.PrivateKey))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != wantSig {
		t.Fatalf("unexpected signature: %s", sig)
	}
	if mock.sendCalls != 1 {
		t.Fatalf("expected a single submission, got %d", mock.sendCalls)
	}

	want := []Status{StatusSigning, StatusConfirming, StatusSuccess}
	if len(states) != len(want) {
		t.Fatalf("unexpected state transitions: %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("state %d: expected %s, got %s", i, want[i], states[i])
		}
	}
}

func TestSignAndSendRetriesTransientFailures(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	wantSig := solana.Signature{7}
	mock := &mockRPC{
		sentSig:  wantSig,
		sendErrs: []error{errors.New("network error"), errors.New("network error")},
	}

	var backoffs []int
	submitter := NewSubmitter(mock,
		WithBackoff(func(retry int) time.Duration {
			backoffs = append(backoffs, retry)
			return time.Millisecond
		}),
		WithPollInterval(time.Millisecond),
	)

	sig, err := submitter.SignAndSend(context.Background(), encoded, NewKeypairSigner(payer.PrivateKey))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != wantSig {
		t.Fatalf("expected signature from third attempt, got %s", sig)
	}
	if mock.sendCalls != 3 {
		t.Fatalf("expected 3 submission attempts, got %d", mock.sendCalls)
	}
	if len(backoffs) != 2 {
		t.Fatalf("expected exactly two backoff delays, got %d", len(backoffs))
	}
}

func TestSignAndSendExhaustsRetryBudget(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	mock := &mockRPC{
		sendErrs: []error{
			errors.New("network error"),
			errors.New("network error"),
			errors.New("final network error"),
		},
	}

	submitter := NewSubmitter(mock,
		WithBackoff(func(int) time.Duration { return time.Millisecond }),
		WithPollInterval(time.Millisecond),
	)

	_, err := submitter.SignAndSend(context.Background(), encoded, NewKeypairSigner(payer.PrivateKey))
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if mock.sendCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", mock.sendCalls)
	}
	// The last error surfaces, not the first.
	if got := err.Error(); got != "send transaction: final network error" {
		t.Fatalf("expected last error to surface, got %q", got)
	}
}

func TestUserRejectionIsNeverRetried(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	mock := &mockRPC{}
	submitter := NewSubmitter(mock, WithPollInterval(time.Millisecond))

	_, err := submitter.SignAndSend(context.Background(), encoded, rejectingSigner{})
	if !errors.Is(err, ErrUserRejected) {
		t.Fatalf("expected rejection to surface verbatim, got %v", err)
	}
	if mock.sendCalls != 0 {
		t.Fatalf("rejected signature must never be submitted, got %d sends", mock.sendCalls)
	}
	if FriendlyMessage(err) != "Transaction cancelled by wallet." {
		t.Fatalf("unexpected friendly message: %q", FriendlyMessage(err))
	}
}

func TestBlockhashExpiryFailsConfirmation(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	mock := &mockRPC{
		sentSig:      solana.Signature{9},
		confirmation: rpc.ConfirmationStatusProcessed, // never reaches confirmed
		blockHeight:  5000,                            // beyond lastValidBlockHeight
	}

	submitter := NewSubmitter(mock,
		WithMaxRetries(0),
		WithPollInterval(time.Millisecond),
	)

	_, err := submitter.SignAndSend(context.Background(), encoded, NewKeypairSigner(payer.PrivateKey))
	if err == nil {
		t.Fatal("expected expiry error")
	}
	if FriendlyMessage(err) != "Transaction expired. Please try again." {
		t.Fatalf("unexpected friendly message: %q", FriendlyMessage(err))
	}
}

func TestPersistentStatusPollFailureEndsAttempt(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	mock := &mockRPC{
		sentSig:   solana.Signature{3},
		statusErr: errors.New("rpc unavailable"),
		heightErr: errors.New("rpc unavailable"),
	}

	var attempts []int
	submitter := NewSubmitter(mock,
		WithMaxRetries(1),
		WithBackoff(func(int) time.Duration { return 0 }),
		WithPollInterval(0),
		WithAttemptFunc(func(n int) { attempts = append(attempts, n) }),
	)

	_, err := submitter.SignAndSend(context.Background(), encoded, NewKeypairSigner(payer.PrivateKey))
	if err == nil {
		t.Fatal("expected polling failure to surface")
	}
	if got := err.Error(); got != "confirmation polling failed: rpc unavailable" {
		t.Fatalf("unexpected error: %q", got)
	}
	// The broken poll ends each attempt after a bounded number of calls,
	// and the outer retry budget is what bounds the attempts.
	if mock.sendCalls != 2 {
		t.Fatalf("expected 2 submission attempts, got %d", mock.sendCalls)
	}
	if mock.statusCalls != 2*maxPollFailures {
		t.Fatalf("expected %d status polls, got %d", 2*maxPollFailures, mock.statusCalls)
	}
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Fatalf("unexpected attempt sequence: %v", attempts)
	}
}

func TestPersistentHeightPollFailureEndsAttempt(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	mock := &mockRPC{
		sentSig:      solana.Signature{3},
		confirmation: rpc.ConfirmationStatusProcessed, // never reaches confirmed
		heightErr:    errors.New("height unavailable"),
	}

	submitter := NewSubmitter(mock,
		WithMaxRetries(0),
		WithPollInterval(0),
	)

	_, err := submitter.SignAndSend(context.Background(), encoded, NewKeypairSigner(payer.PrivateKey))
	if err == nil {
		t.Fatal("expected polling failure to surface")
	}
	if got := err.Error(); got != "confirmation polling failed: height unavailable" {
		t.Fatalf("unexpected error: %q", got)
	}
	if mock.heightCalls != maxPollFailures {
		t.Fatalf("expected %d height polls, got %d", maxPollFailures, mock.heightCalls)
	}
}

func TestDecodeBase64TransactionRoundTrip(t *testing.T) {
	payer := solana.NewWallet()
	encoded := buildTestTransaction(t, payer)

	tx, err := DecodeBase64Transaction(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if tx.Message.GetVersion() != solana.MessageVersionLegacy {
		t.Fatalf("expected legacy message, got %v", tx.Message.GetVersion())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeBase64Transaction("not base64!!!"); err == nil {
		t.Fatal("expected base64 error")
	}
	garbage := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x01})
	if _, err := DecodeBase64Transaction(garbage); err == nil {
		t.Fatal("expected decode chain to fail on garbage bytes")
	}
}

func TestFriendlyMessages(t *testing.T) {
	cases := map[string]string{
		"insufficient lamports for fee": "Insufficient funds for this transaction.",
		"blockhash not found":           "Transaction expired. Please try again.",
		"dial tcp: network unreachable": "Network error. Check your connection.",
		"market api 401: unauthorized":  "Session expired. Please reconnect your wallet.",
		"market api 429: slow down":     "Too many requests. Please wait a moment and try again.",
		"something else entirely":       "something else entirely",
	}
	for in, want := range cases {
		if got := FriendlyMessage(errors.New(in)); got != want {
			t.Fatalf("FriendlyMessage(%q) = %q, want %q", in, got, want)
		}
	}
}
