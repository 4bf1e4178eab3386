package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SelectEntryRequest is the request body for choosing a catalog entry
type SelectEntryRequest struct {
	EntryID string `json:"entry_id"`
}

// SelectPhaseRequest is the request body for choosing a phase
type SelectPhaseRequest struct {
	PhaseID string `json:"phase_id"`
}

// FinishRequest is the request body for ending the active session
type FinishRequest struct {
	Score      int  `json:"score"`
	Win        bool `json:"win"`
	BonusCoins int  `json:"bonus_coins,omitempty"`
}

// SetPermissionRequest is the request body for granting or revoking an entry
type SetPermissionRequest struct {
	EntryID string `json:"entry_id"`
	Granted bool   `json:"granted"`
}

// GiftCoinsRequest is the request body for gifting coins
type GiftCoinsRequest struct {
	Amount int `json:"amount"`
}
