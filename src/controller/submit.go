package controller

import (
	"context"

	"github.com/gagliardetto/solana-go"
	logger "github.com/sirupsen/logrus"

	"oddslens/src/model"
	"oddslens/src/transactions"
)

// TransactionAudit records the lifecycle of a claim or close submission.
// *repository.TransactionRecordRepository satisfies it.
type TransactionAudit interface {
	Create(ctx context.Context, record *model.TransactionRecord) error
	UpdateStatus(ctx context.Context, id uint, status string, signature string, attempts int, message string) error
}

// SubmitWithAudit signs and submits a pre-built transaction while driving the
// audit entry through its lifecycle: built when the encoded transaction is
// accepted, submitted on the first send attempt, then confirmed with the
// signature and attempt count, or failed with the error message.
func SubmitWithAudit(
	ctx context.Context,
	client transactions.RPCClient,
	signer transactions.Signer,
	audit TransactionAudit,
	wallet string,
	position string,
	action string,
	transactionBase64 string,
	opts ...transactions.SubmitterOption,
) (solana.Signature, error) {

	record := &model.TransactionRecord{
		WalletPubkey:   wallet,
		PositionPubkey: position,
		Action:         action,
		Status:         model.TxStatusBuilt,
	}
	if err := audit.Create(ctx, record); err != nil {
		logger.WithError(err).Error("Failed to record transaction build")
	}

	attempts := 0
	opts = append(opts, transactions.WithAttemptFunc(func(n int) {
		attempts = n
		if n == 1 {
			if err := audit.UpdateStatus(ctx, record.ID, model.TxStatusSubmitted, "", n, ""); err != nil {
				logger.WithError(err).Error("Failed to record transaction submission")
			}
		}
	}))

	submitter := transactions.NewSubmitter(client, opts...)
	sig, err := submitter.SignAndSend(ctx, transactionBase64, signer)
	if err != nil {
		if auditErr := audit.UpdateStatus(ctx, record.ID, model.TxStatusFailed, "", attempts, err.Error()); auditErr != nil {
			logger.WithError(auditErr).Error("Failed to record transaction failure")
		}
		return solana.Signature{}, err
	}

	if auditErr := audit.UpdateStatus(ctx, record.ID, model.TxStatusConfirmed, sig.String(), attempts, ""); auditErr != nil {
		logger.WithError(auditErr).Error("Failed to record transaction confirmation")
	}
	return sig, nil
}
