package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"testing"

	"github.com/roletapro/roleta-client/pkg/payload"
)

func TestEndpoints(t *testing.T) {
	params := payload.Object(payload.Field("base_bet", payload.Int(5)))

	tests := []struct {
		name   string
		call   func(ctx context.Context, c *Client) error
		method string
		path   string
		query  string
		body   string // empty means no body
	}{
		{"GetCurrentUser", func(ctx context.Context, c *Client) error { _, err := c.GetCurrentUser(ctx); return err },
			http.MethodGet, "/api/auth/me", "", ""},
		{"GetStrategies", func(ctx context.Context, c *Client) error { _, err := c.GetStrategies(ctx); return err },
			http.MethodGet, "/api/strategies/", "", ""},
		{"GetStrategy", func(ctx context.Context, c *Client) error { _, err := c.GetStrategy(ctx, 7); return err },
			http.MethodGet, "/api/strategies/7", "", ""},
		{"CreateStrategy", func(ctx context.Context, c *Client) error {
			_, err := c.CreateStrategy(ctx, "Mart", "martingale", params, true)
			return err
		}, http.MethodPost, "/api/strategies/", "", `{"name":"Mart","type":"martingale","config":{"base_bet":5},"is_active":true}`},
		{"UpdateStrategy", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateStrategy(ctx, 7, map[string]any{"name": "New"})
			return err
		}, http.MethodPut, "/api/strategies/7", "", `{"name":"New"}`},
		{"DeleteStrategy", func(ctx context.Context, c *Client) error { _, err := c.DeleteStrategy(ctx, 7); return err },
			http.MethodDelete, "/api/strategies/7", "", ""},
		{"ToggleStrategy", func(ctx context.Context, c *Client) error { _, err := c.ToggleStrategy(ctx, 7); return err },
			http.MethodPost, "/api/strategies/7/toggle", "", ""},
		{"GetBankrollConfig", func(ctx context.Context, c *Client) error { _, err := c.GetBankrollConfig(ctx); return err },
			http.MethodGet, "/api/bankroll/config", "", ""},
		{"SaveBankrollConfig", func(ctx context.Context, c *Client) error {
			_, err := c.SaveBankrollConfig(ctx, map[string]any{"initial_balance": 100})
			return err
		}, http.MethodPost, "/api/bankroll/config", "", `{"initial_balance":100}`},
		{"GetBankrollHistoryDefault", func(ctx context.Context, c *Client) error { _, err := c.GetBankrollHistory(ctx, 0); return err },
			http.MethodGet, "/api/bankroll/history", "limit=30", ""},
		{"GetBankrollHistory", func(ctx context.Context, c *Client) error { _, err := c.GetBankrollHistory(ctx, 5); return err },
			http.MethodGet, "/api/bankroll/history", "limit=5", ""},
		{"GetBankrollStats", func(ctx context.Context, c *Client) error { _, err := c.GetBankrollStats(ctx); return err },
			http.MethodGet, "/api/bankroll/stats", "", ""},
		{"ExecuteBet", func(ctx context.Context, c *Client) error { _, err := c.ExecuteBet(ctx, 3, true); return err },
			http.MethodPost, "/api/bets/execute", "", `{"strategy_id":3,"manual":true}`},
		{"CreateBet", func(ctx context.Context, c *Client) error { _, err := c.CreateBet(ctx, 10, "win", 20); return err },
			http.MethodPost, "/api/bets/", "", `{"bet_amount":10,"result":"win","payout":20}`},
		{"GetBetsHistoryDefault", func(ctx context.Context, c *Client) error { _, err := c.GetBetsHistory(ctx, 0); return err },
			http.MethodGet, "/api/bets/history", "limit=50", ""},
		{"GetRouletteHistoryDefault", func(ctx context.Context, c *Client) error { _, err := c.GetRouletteHistory(ctx, -1); return err },
			http.MethodGet, "/api/bets/roulette/history", "limit=10", ""},
		{"SpinRoulette", func(ctx context.Context, c *Client) error { _, err := c.SpinRoulette(ctx); return err },
			http.MethodPost, "/api/bets/spin", "", ""},
		{"TrainAIModel", func(ctx context.Context, c *Client) error { _, err := c.TrainAIModel(ctx); return err },
			http.MethodPost, "/api/ai/train", "", ""},
		{"GetAISuggestion", func(ctx context.Context, c *Client) error { _, err := c.GetAISuggestion(ctx); return err },
			http.MethodGet, "/api/ai/suggestion", "", ""},
		{"GetAIPrediction", func(ctx context.Context, c *Client) error { _, err := c.GetAIPrediction(ctx); return err },
			http.MethodGet, "/api/ai/predict", "", ""},
		{"GetAIStatistics", func(ctx context.Context, c *Client) error { _, err := c.GetAIStatistics(ctx); return err },
			http.MethodGet, "/api/ai/statistics", "", ""},
		{"ChatWithAI", func(ctx context.Context, c *Client) error { _, err := c.ChatWithAI(ctx, "hi"); return err },
			http.MethodPost, "/api/ai/chat", "", `{"message":"hi"}`},
		{"GetStrategyAdvice", func(ctx context.Context, c *Client) error {
			_, err := c.GetStrategyAdvice(ctx, "fibonacci")
			return err
		},
			http.MethodPost, "/api/ai/strategy-advice", "", `{"strategy_name":"fibonacci"}`},
		{"GetResponsibleGamingTips", func(ctx context.Context, c *Client) error { _, err := c.GetResponsibleGamingTips(ctx); return err },
			http.MethodGet, "/api/ai/responsible-gaming", "", ""},
		{"AnswerFAQ", func(ctx context.Context, c *Client) error { _, err := c.AnswerFAQ(ctx, "limits"); return err },
			http.MethodGet, "/api/ai/faq/limits", "", ""},
		{"GetChatHistory", func(ctx context.Context, c *Client) error { _, err := c.GetChatHistory(ctx); return err },
			http.MethodGet, "/api/ai/chat/history", "", ""},
		{"GetPersonalRecommendations", func(ctx context.Context, c *Client) error { _, err := c.GetPersonalRecommendations(ctx); return err },
			http.MethodGet, "/api/ai/recommendations", "", ""},
		{"GetPersonalInsights", func(ctx context.Context, c *Client) error { _, err := c.GetPersonalInsights(ctx); return err },
			http.MethodGet, "/api/ai/insights", "", ""},
		{"GetPredictOutcome", func(ctx context.Context, c *Client) error { _, err := c.GetPredictOutcome(ctx); return err },
			http.MethodGet, "/api/ai/predict-outcome", "", ""},
		{"GetRiskAnalysis", func(ctx context.Context, c *Client) error { _, err := c.GetRiskAnalysis(ctx); return err },
			http.MethodGet, "/api/ai/risk-analysis", "", ""},
		{"SaveRiskConfig", func(ctx context.Context, c *Client) error {
			_, err := c.SaveRiskConfig(ctx, 50, 200, "keep it small")
			return err
		},
			http.MethodPost, "/api/ai/risk-config", "", `{"stop_loss":50,"stop_win":200,"bankroll_management_advice":"keep it small"}`},
		{"SimulateBets", func(ctx context.Context, c *Client) error {
			_, err := c.SimulateBets(ctx, SimulationRequest{
				InitialBankroll: 1000, NumRounds: 100, BaseBetAmount: 5,
				StrategyName: "martingale", StrategyParams: params,
			})
			return err
		}, http.MethodPost, "/api/ai/simulate-bets", "",
			`{"initial_bankroll":1000,"num_rounds":100,"base_bet_amount":5,"strategy_name":"martingale","strategy_params":{"base_bet":5}}`},
		{"OptimizeStrategy", func(ctx context.Context, c *Client) error {
			_, err := c.OptimizeStrategy(ctx, OptimizationRequest{
				StrategyName: "martingale", InitialBankroll: 1000, NumRounds: 100,
				ParamRanges: params, NumSimulations: 20,
			})
			return err
		}, http.MethodPost, "/api/ai/optimize-strategy", "",
			`{"strategy_name":"martingale","initial_bankroll":1000,"num_rounds":100,"param_ranges":{"base_bet":5},"num_simulations":20}`},
		{"GetNotificationsDefault", func(ctx context.Context, c *Client) error { _, err := c.GetNotifications(ctx, -3, 0); return err },
			http.MethodGet, "/api/notifications/", "skip=0&limit=100", ""},
		{"GetNotifications", func(ctx context.Context, c *Client) error { _, err := c.GetNotifications(ctx, 20, 10); return err },
			http.MethodGet, "/api/notifications/", "skip=20&limit=10", ""},
		{"MarkNotificationAsRead", func(ctx context.Context, c *Client) error { _, err := c.MarkNotificationAsRead(ctx, 4); return err },
			http.MethodPut, "/api/notifications/4/read", "", `{}`},
		{"CreateNotificationDefaultType", func(ctx context.Context, c *Client) error {
			_, err := c.CreateNotification(ctx, "hello", "")
			return err
		},
			http.MethodPost, "/api/notifications/", "", `{"message":"hello","type":"info"}`},
		{"CreateNotification", func(ctx context.Context, c *Client) error {
			_, err := c.CreateNotification(ctx, "stop", "warning")
			return err
		},
			http.MethodPost, "/api/notifications/", "", `{"message":"stop","type":"warning"}`},
		{"UpdateUserProfile", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateUserProfile(ctx, map[string]any{"name": "Ana"})
			return err
		}, http.MethodPut, "/api/users/me", "", `{"name":"Ana"}`},
		{"UpdateUserPassword", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateUserPassword(ctx, "old", "new")
			return err
		},
			http.MethodPut, "/api/users/me/password", "", `{"old_password":"old","new_password":"new"}`},
		{"GetSubscriptionPlans", func(ctx context.Context, c *Client) error { _, err := c.GetSubscriptionPlans(ctx); return err },
			http.MethodGet, "/api/subscriptions/plans/", "", ""},
		{"GetUserActiveSubscription", func(ctx context.Context, c *Client) error { _, err := c.GetUserActiveSubscription(ctx); return err },
			http.MethodGet, "/api/subscriptions/user-subscriptions/me", "", ""},
		{"CreateCheckoutSession", func(ctx context.Context, c *Client) error { _, err := c.CreateCheckoutSession(ctx, 2); return err },
			http.MethodPost, "/api/subscriptions/checkout", "", `{"plan_id":2}`},
		{"CancelUserSubscription", func(ctx context.Context, c *Client) error { _, err := c.CancelUserSubscription(ctx, 11); return err },
			http.MethodPost, "/api/subscriptions/user-subscriptions/11/cancel", "", ""},
		{"ReactivateUserSubscription", func(ctx context.Context, c *Client) error {
			_, err := c.ReactivateUserSubscription(ctx, 11, 3)
			return err
		}, http.MethodPost, "/api/subscriptions/user-subscriptions/11/reactivate", "", `{"new_plan_id":3}`},
		{"GetUserPayments", func(ctx context.Context, c *Client) error { _, err := c.GetUserPayments(ctx); return err },
			http.MethodGet, "/api/subscriptions/payments/me", "", ""},
		{"HealthCheck", func(ctx context.Context, c *Client) error { _, err := c.HealthCheck(ctx); return err },
			http.MethodGet, "/health", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, srv := newRecorder(t, http.StatusOK, `{}`)
			c := newTestClient(t, srv.URL, "tok")

			if err := tt.call(context.Background(), c); err != nil {
				t.Fatalf("call: %v", err)
			}

			got := rec.last(t)
			if got.Method != tt.method {
				t.Fatalf("method: got %s, want %s", got.Method, tt.method)
			}
			if got.Path != tt.path {
				t.Fatalf("path: got %s, want %s", got.Path, tt.path)
			}
			if got.Query != tt.query {
				t.Fatalf("query: got %q, want %q", got.Query, tt.query)
			}

			if tt.body == "" {
				if len(got.Body) != 0 {
					t.Fatalf("expected no body, got %s", got.Body)
				}
				return
			}
			var gotBody, wantBody any
			if err := json.Unmarshal(got.Body, &gotBody); err != nil {
				t.Fatalf("invalid request body %q: %v", got.Body, err)
			}
			if err := json.Unmarshal([]byte(tt.body), &wantBody); err != nil {
				t.Fatalf("invalid expected body: %v", err)
			}
			if !reflect.DeepEqual(gotBody, wantBody) {
				t.Fatalf("body: got %s, want %s", got.Body, tt.body)
			}
		})
	}
}

func TestHandleStripeWebhook_ForwardsRawBody(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK, `{"received":true}`)
	c := newTestClient(t, srv.URL, "tok")

	raw := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	if _, err := c.HandleStripeWebhook(context.Background(), raw, "t=1,v1=abc"); err != nil {
		t.Fatalf("HandleStripeWebhook: %v", err)
	}

	got := rec.last(t)
	if got.Method != http.MethodPost || got.Path != "/webhooks/stripe" {
		t.Fatalf("unexpected request %s %s", got.Method, got.Path)
	}
	if string(got.Body) != string(raw) {
		t.Fatalf("body changed in transit: %s", got.Body)
	}
	if got.Header.Get(HeaderStripeSignature) != "t=1,v1=abc" {
		t.Fatalf("missing signature header")
	}
	if got.Header.Get("Authorization") != "Bearer tok" {
		t.Fatalf("webhook forwarding is authenticated by default")
	}
}

func TestAnswerFAQ_EscapesSegment(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, "")

	if _, err := c.AnswerFAQ(context.Background(), "a/b"); err != nil {
		t.Fatalf("AnswerFAQ: %v", err)
	}
	if got := rec.last(t).Raw; got != "/api/ai/faq/a%2Fb" {
		t.Fatalf("unexpected path %q", got)
	}
}
