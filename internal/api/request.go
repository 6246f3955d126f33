package api

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/rxtech-lab/backtest-api/internal/types"
)

// BacktestRequest is the body of POST /backtest. The strategy tuple is
// fixed for the whole run: every trade enters at EntryPrice and exits at
// TakeProfit or StopLoss.
type BacktestRequest struct {
	Prices     []float64            `json:"prices" validate:"required,min=2" jsonschema:"title=Prices,description=Historical price series with at least two points"`
	EntryPrice float64              `json:"entry_price" jsonschema:"title=Entry Price"`
	TakeProfit float64              `json:"take_profit" jsonschema:"title=Take Profit"`
	StopLoss   float64              `json:"stop_loss" jsonschema:"title=Stop Loss"`
	Direction  types.TradeDirection `json:"direction" validate:"required,oneof=long short" jsonschema:"title=Direction,enum=long,enum=short"`
}

// StrategyParams converts the request into engine strategy parameters.
func (r *BacktestRequest) StrategyParams() types.StrategyParams {
	return types.StrategyParams{
		EntryPrice: r.EntryPrice,
		TakeProfit: r.TakeProfit,
		StopLoss:   r.StopLoss,
		Direction:  r.Direction,
	}
}

// GenerateSchema generates a JSON schema for the BacktestRequest.
func (r *BacktestRequest) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: false,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if strings.Contains(t.String(), "types.TradeDirection") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{string(types.TradeDirectionLong), string(types.TradeDirectionShort)},
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(r)
	schema.Title = "backtest-request"
	schema.Description = "Request schema for POST /backtest"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestRequest.
func (r *BacktestRequest) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(r.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
