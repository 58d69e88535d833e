package transactions

import "strings"

// friendlyMessages maps raw error text to user-facing messages. Order
// matters: the first matching pattern wins.
var friendlyMessages = []struct {
	pattern string
	message string
}{
	{"User rejected", "Transaction cancelled by wallet."},
	{"insufficient", "Insufficient funds for this transaction."},
	{"blockhash", "Transaction expired. Please try again."},
	{"network", "Network error. Check your connection."},
	{"401", "Session expired. Please reconnect your wallet."},
	{"403", "Rate limited. Please wait a moment and try again."},
	{"429", "Too many requests. Please wait a moment and try again."},
}

// FriendlyMessage translates a signing/submission error into a message fit
// for the dashboard. Unrecognized errors pass through unchanged.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, fm := range friendlyMessages {
		if strings.Contains(msg, fm.pattern) {
			return fm.message
		}
	}
	return msg
}
