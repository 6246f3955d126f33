package types

// TradeDirection is the direction of a simulated position.
type TradeDirection string

const (
	TradeDirectionLong  TradeDirection = "long"
	TradeDirectionShort TradeDirection = "short"
)

// TradeResult describes how a trade was closed.
// The string values are part of the wire contract and must not change.
type TradeResult string

const (
	TradeResultTakeProfit TradeResult = "take_profit"
	TradeResultStopLoss   TradeResult = "stop_loss"
	// TradeResultOpen marks a trade that has not hit either threshold yet.
	// Open trades never appear in simulation output.
	TradeResultOpen TradeResult = "open"
)

// StrategyParams is the fixed entry/exit configuration applied to every
// trade of a run. The engine does not validate the ordering of TakeProfit
// and StopLoss relative to EntryPrice; a misconfigured strategy produces
// trades that close immediately or never close.
type StrategyParams struct {
	EntryPrice float64        `json:"entry_price" yaml:"entry_price" jsonschema:"title=Entry Price,description=Price at which every trade is entered"`
	TakeProfit float64        `json:"take_profit" yaml:"take_profit" jsonschema:"title=Take Profit,description=Price threshold that closes a trade favorably"`
	StopLoss   float64        `json:"stop_loss" yaml:"stop_loss" jsonschema:"title=Stop Loss,description=Price threshold that closes a trade unfavorably"`
	Direction  TradeDirection `json:"direction" yaml:"direction" jsonschema:"title=Direction,enum=long,enum=short"`
}

// Trade is a single simulated position. Fields are mutated by the
// simulator while the trade is open and frozen once it closes; only
// closed trades are ever returned to callers.
type Trade struct {
	EntryTime int `json:"entry_time" yaml:"entry_time"`
	ExitTime  int `json:"exit_time" yaml:"exit_time"`

	EntryPrice float64 `json:"entry_price" yaml:"entry_price"`
	ExitPrice  float64 `json:"exit_price" yaml:"exit_price"`

	Result TradeResult `json:"result" yaml:"result"`
	// ProfitLoss is the percentage gain of the trade, positive when profitable.
	ProfitLoss float64 `json:"profit_loss" yaml:"profit_loss"`

	// Exit thresholds carried while the trade is open. Not serialized.
	TakeProfit float64        `json:"-" yaml:"-"`
	StopLoss   float64        `json:"-" yaml:"-"`
	Direction  TradeDirection `json:"-" yaml:"-"`
}

// IsClosed reports whether the trade has been resolved by either threshold.
func (t *Trade) IsClosed() bool {
	return t.Result == TradeResultTakeProfit || t.Result == TradeResultStopLoss
}
