package domain

// NameRecord is the on-chain state of a registered name as reported by the
// remote name-system service. Read-only to this daemon.
type NameRecord struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	ValueHash string `json:"value_hash,omitempty"`
	Expired   bool   `json:"expired,omitempty"`
}
