package apiclient

import (
	"context"
	"net/url"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// SimulationRequest describes a Monte Carlo run of one strategy.
type SimulationRequest struct {
	InitialBankroll float64       `json:"initial_bankroll"`
	NumRounds       int           `json:"num_rounds"`
	BaseBetAmount   float64       `json:"base_bet_amount"`
	StrategyName    string        `json:"strategy_name"`
	StrategyParams  payload.Value `json:"strategy_params"`
}

// OptimizationRequest asks the backend to search ParamRanges for the best
// parameters of a strategy.
type OptimizationRequest struct {
	StrategyName    string        `json:"strategy_name"`
	InitialBankroll float64       `json:"initial_bankroll"`
	NumRounds       int           `json:"num_rounds"`
	ParamRanges     payload.Value `json:"param_ranges"`
	NumSimulations  int           `json:"num_simulations"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type strategyAdviceRequest struct {
	StrategyName string `json:"strategy_name"`
}

type riskConfigRequest struct {
	StopLoss                 float64 `json:"stop_loss"`
	StopWin                  float64 `json:"stop_win"`
	BankrollManagementAdvice string  `json:"bankroll_management_advice"`
}

// TrainAIModel retrains the prediction model on the user's history.
func (c *Client) TrainAIModel(ctx context.Context) (payload.Value, error) {
	return c.Post(ctx, "/api/ai/train", nil)
}

// GetAISuggestion returns a suggestion for the next bet.
func (c *Client) GetAISuggestion(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/suggestion")
}

func (c *Client) GetAIPrediction(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/predict")
}

func (c *Client) GetAIStatistics(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/statistics")
}

// ChatWithAI sends one chat message and returns the assistant's reply.
func (c *Client) ChatWithAI(ctx context.Context, message string) (payload.Value, error) {
	return c.Post(ctx, "/api/ai/chat", chatRequest{Message: message})
}

func (c *Client) GetStrategyAdvice(ctx context.Context, strategyName string) (payload.Value, error) {
	return c.Post(ctx, "/api/ai/strategy-advice", strategyAdviceRequest{StrategyName: strategyName})
}

func (c *Client) GetResponsibleGamingTips(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/responsible-gaming")
}

// AnswerFAQ fetches the canned answer for questionType. The type is escaped as
// a single path segment.
func (c *Client) AnswerFAQ(ctx context.Context, questionType string) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/faq/"+url.PathEscape(questionType))
}

func (c *Client) GetChatHistory(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/chat/history")
}

func (c *Client) GetPersonalRecommendations(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/recommendations")
}

func (c *Client) GetPersonalInsights(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/insights")
}

func (c *Client) GetPredictOutcome(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/predict-outcome")
}

// GetRiskAnalysis returns the risk and bankroll-management analysis.
func (c *Client) GetRiskAnalysis(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/ai/risk-analysis")
}

// SaveRiskConfig stores the user's stop-loss and stop-win limits.
func (c *Client) SaveRiskConfig(ctx context.Context, stopLoss, stopWin float64, advice string) (payload.Value, error) {
	return c.Post(ctx, "/api/ai/risk-config", riskConfigRequest{
		StopLoss:                 stopLoss,
		StopWin:                  stopWin,
		BankrollManagementAdvice: advice,
	})
}

// SimulateBets runs a simulation on the backend.
func (c *Client) SimulateBets(ctx context.Context, req SimulationRequest) (payload.Value, error) {
	return c.Post(ctx, "/api/ai/simulate-bets", req)
}

// OptimizeStrategy runs a parameter search on the backend.
func (c *Client) OptimizeStrategy(ctx context.Context, req OptimizationRequest) (payload.Value, error) {
	return c.Post(ctx, "/api/ai/optimize-strategy", req)
}
