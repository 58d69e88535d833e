package transactions

import (
	"context"
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ErrUserRejected is the distinguished condition for a signature request the
// user declined in their wallet. It is terminal and must never be retried.
var ErrUserRejected = errors.New("User rejected the request")

// IsUserRejected reports whether err is a wallet rejection, either our own
// sentinel or the message wallet adapters produce.
func IsUserRejected(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUserRejected) || strings.Contains(err.Error(), "User rejected")
}

// Signer is the wallet capability: produce a signature over a deserialized
// transaction. Implementations may suspend indefinitely awaiting approval.
type Signer interface {
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// KeypairSigner signs with a locally held private key. Used by the operator
// CLI; the browser dashboard signs through the user's wallet extension
// instead.
type KeypairSigner struct {
	key solana.PrivateKey
}

func NewKeypairSigner(key solana.PrivateKey) *KeypairSigner {
	return &KeypairSigner{key: key}
}

func (s *KeypairSigner) SignTransaction(_ context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	_, err := tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(s.key.PublicKey()) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}
