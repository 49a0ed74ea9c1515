package application

import "encoding/json"

// UpdateRequest asks for a subsidized update of a registered name: the new
// profile's hash goes on chain, the payment address covers the fee.
type UpdateRequest struct {
	Name           string          `json:"name"`
	Profile        json.RawMessage `json:"profile"`
	OwnerPrivKey   string          `json:"owner_key"`
	PaymentAddress string          `json:"payment_address"`
	PaymentPrivKey string          `json:"payment_key,omitempty"`
}

// TransferRequest asks for a subsidized transfer of a registered name to a
// new owner address.
type TransferRequest struct {
	Name            string `json:"name"`
	TransferAddress string `json:"transfer_address"`
	OwnerPrivKey    string `json:"owner_key"`
	PaymentAddress  string `json:"payment_address"`
	PaymentPrivKey  string `json:"payment_key,omitempty"`
}

// SubmitResult is the outcome of a submission. Either Accepted is true and
// TxHash carries the broadcast transaction id (empty for an already-satisfied
// transfer), or Code tags the rejection and Err optionally carries the cause.
type SubmitResult struct {
	Accepted bool
	TxHash   string
	Code     RejectCode
	Err      error
}

func accepted(txHash string) SubmitResult {
	return SubmitResult{Accepted: true, TxHash: txHash}
}

func rejected(code RejectCode, err error) SubmitResult {
	return SubmitResult{Code: code, Err: err}
}
