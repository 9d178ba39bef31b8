package cli

import (
	"context"
	"strings"

	"github.com/roletapro/roleta-client/pkg/apiclient"
	"github.com/roletapro/roleta-client/pkg/payload"
)

func (a *App) runAI(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("ai", args)
	if err != nil {
		return err
	}

	// Commands without flags or arguments.
	simple := map[string]func(context.Context) (payload.Value, error){
		"train":           a.client.TrainAIModel,
		"suggestion":      a.client.GetAISuggestion,
		"predict":         a.client.GetAIPrediction,
		"stats":           a.client.GetAIStatistics,
		"tips":            a.client.GetResponsibleGamingTips,
		"chat-history":    a.client.GetChatHistory,
		"recommendations": a.client.GetPersonalRecommendations,
		"insights":        a.client.GetPersonalInsights,
		"predict-outcome": a.client.GetPredictOutcome,
		"risk":            a.client.GetRiskAnalysis,
	}
	if call, ok := simple[cmd]; ok {
		if err := parse(a.flags("ai "+cmd), args); err != nil {
			return err
		}
		return a.show(call(ctx))
	}

	switch cmd {
	case "chat":
		fs := a.flags("ai chat")
		if err := parseFlags(fs, args); err != nil {
			return err
		}
		message := strings.TrimSpace(strings.Join(fs.Args(), " "))
		if message == "" {
			return usagef("usage: roleta ai chat MESSAGE")
		}
		return a.show(a.client.ChatWithAI(ctx, message))

	case "advice":
		fs := a.flags("ai advice")
		if err := parse(fs, args, "strategy"); err != nil {
			return err
		}
		return a.show(a.client.GetStrategyAdvice(ctx, fs.Arg(0)))

	case "faq":
		fs := a.flags("ai faq")
		if err := parse(fs, args, "type"); err != nil {
			return err
		}
		return a.show(a.client.AnswerFAQ(ctx, fs.Arg(0)))

	case "risk-config":
		fs := a.flags("ai risk-config")
		stopLoss := fs.Float64("stop-loss", 0, "Stop-loss amount")
		stopWin := fs.Float64("stop-win", 0, "Stop-win amount")
		advice := fs.String("advice", "", "Bankroll management notes")
		if err := parse(fs, args); err != nil {
			return err
		}
		return a.show(a.client.SaveRiskConfig(ctx, *stopLoss, *stopWin, *advice))

	case "simulate":
		fs := a.flags("ai simulate")
		req := apiclient.SimulationRequest{}
		fs.Float64Var(&req.InitialBankroll, "bankroll", 1000, "Initial bankroll")
		fs.IntVar(&req.NumRounds, "rounds", 100, "Rounds to simulate")
		fs.Float64Var(&req.BaseBetAmount, "bet", 10, "Base bet amount")
		fs.StringVar(&req.StrategyName, "strategy", "", "Strategy to simulate")
		params := fs.String("params", "{}", "Strategy parameters as JSON, @file or -")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"strategy": req.StrategyName}); err != nil {
			return err
		}
		if req.StrategyParams, err = a.readBody(*params); err != nil {
			return err
		}
		return a.show(a.client.SimulateBets(ctx, req))

	case "optimize":
		fs := a.flags("ai optimize")
		req := apiclient.OptimizationRequest{}
		fs.StringVar(&req.StrategyName, "strategy", "", "Strategy to optimize")
		fs.Float64Var(&req.InitialBankroll, "bankroll", 1000, "Initial bankroll")
		fs.IntVar(&req.NumRounds, "rounds", 100, "Rounds per simulation")
		fs.IntVar(&req.NumSimulations, "simulations", 10, "Simulations per parameter set")
		ranges := fs.String("ranges", "", "Parameter ranges as JSON, @file or -")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"strategy": req.StrategyName, "ranges": *ranges}); err != nil {
			return err
		}
		if req.ParamRanges, err = a.readBody(*ranges); err != nil {
			return err
		}
		return a.show(a.client.OptimizeStrategy(ctx, req))

	default:
		return unknown("ai", cmd)
	}
}
