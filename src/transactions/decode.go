package transactions

import (
	"encoding/base64"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var errNotVersioned = errors.New("message is not versioned")

// txDecoder is one strategy in the decode chain.
type txDecoder struct {
	name   string
	decode func([]byte) (*solana.Transaction, error)
}

// The upstream may hand back either encoding depending on market type, so the
// versioned format is tried first with legacy as fallback. First success wins.
var decodeChain = []txDecoder{
	{name: "versioned", decode: decodeVersioned},
	{name: "legacy", decode: decodeLegacy},
}

func decodeVersioned(raw []byte) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, err
	}
	if tx.Message.GetVersion() == solana.MessageVersionLegacy {
		return nil, errNotVersioned
	}
	return tx, nil
}

func decodeLegacy(raw []byte) (*solana.Transaction, error) {
	return solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
}

// DecodeBase64Transaction decodes an unsigned transaction as returned by the
// market API's claim/close builders.
func DecodeBase64Transaction(encoded string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode transaction payload: %w", err)
	}

	var lastErr error
	for _, d := range decodeChain {
		tx, err := d.decode(raw)
		if err == nil {
			return tx, nil
		}
		lastErr = fmt.Errorf("%s decode: %w", d.name, err)
	}
	return nil, lastErr
}
