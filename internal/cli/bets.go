package cli

import (
	"context"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/pkg/apiclient"
)

func (a *App) runBets(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("bets", args)
	if err != nil {
		return err
	}

	switch cmd {
	case "execute":
		fs := a.flags("bets execute")
		manual := fs.Bool("manual", false, "Mark the bet as placed by hand")
		if err := parse(fs, args, "strategy_id"); err != nil {
			return err
		}
		id, err := intArg(fs, 0, "strategy_id")
		if err != nil {
			return err
		}
		return a.show(a.client.ExecuteBet(ctx, id, *manual))

	case "create":
		fs := a.flags("bets create")
		amount := fs.Float64("amount", 0, "Amount staked")
		result := fs.String("result", "", "Outcome: win or loss")
		payout := fs.Float64("payout", 0, "Amount paid out")
		if err := parse(fs, args); err != nil {
			return err
		}
		if *amount <= 0 {
			return usagef("bets create: -amount must be positive")
		}
		if *result != domain.BetResultWin && *result != domain.BetResultLoss {
			return usagef("bets create: -result must be %s or %s", domain.BetResultWin, domain.BetResultLoss)
		}
		return a.show(a.client.CreateBet(ctx, *amount, *result, *payout))

	case "history":
		fs := a.flags("bets history")
		limit := fs.Int("limit", apiclient.DefaultBetsHistoryLimit, "Maximum entries")
		if err := parse(fs, args); err != nil {
			return err
		}
		return a.show(a.client.GetBetsHistory(ctx, *limit))

	case "roulette":
		fs := a.flags("bets roulette")
		limit := fs.Int("limit", apiclient.DefaultRouletteHistoryLimit, "Maximum spins")
		if err := parse(fs, args); err != nil {
			return err
		}
		return a.show(a.client.GetRouletteHistory(ctx, *limit))

	case "spin":
		if err := parse(a.flags("bets spin"), args); err != nil {
			return err
		}
		return a.show(a.client.SpinRoulette(ctx))

	case "import":
		fs := a.flags("bets import")
		file := fs.String("file", "", "JSON lines file of bets, or - for stdin")
		workers := fs.Int("workers", 4, "Concurrent senders")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"file": *file}); err != nil {
			return err
		}
		if *workers <= 0 {
			return usagef("bets import: -workers must be positive, got %d", *workers)
		}
		return a.runImport(ctx, *file, *workers)

	default:
		return unknown("bets", cmd)
	}
}
