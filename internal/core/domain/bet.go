package domain

// Bet outcomes accepted by POST /api/bets/.
const (
	BetResultWin  = "win"
	BetResultLoss = "loss"
)

// BetRecord is one line of a bulk import file. Session is local to the
// import: records sharing it are sent in file order.
type BetRecord struct {
	BetAmount float64 `json:"bet_amount" validate:"gt=0"`
	Result    string  `json:"result" validate:"required,oneof=win loss"`
	Payout    float64 `json:"payout" validate:"gte=0"`
	Session   string  `json:"session,omitempty" validate:"max=64"`
}

// ImportFailure records a line that could not be sent.
type ImportFailure struct {
	Line int
	Err  error
}

// ImportReport summarises a bulk import.
type ImportReport struct {
	Total    int
	Created  int
	Failures []ImportFailure
}
