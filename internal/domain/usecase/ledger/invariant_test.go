package ledger

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// TestEngine_LedgerInvariant drives random operation sequences and checks after every
// step that each wallet equals its opening balance plus its ledger, and that every
// tournament's slot count matches its participants.
func TestEngine_LedgerInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(t)
		ctx := context.Background()

		players := []string{adminID}
		for i := 0; i < 3; i++ {
			user, err := h.engine.Register(ctx, Registration{
				Name:  fmt.Sprintf("player%d", i),
				Phone: fmt.Sprintf("0171000000%d", i),
			})
			if err != nil {
				rt.Fatalf("register: %v", err)
			}
			players = append(players, user.ID)
		}
		tournaments := []string{"1001", "1002"}

		amounts := rapid.SampledFrom([]string{"0", "5", "9.99", "10", "55.25", "100", "250", "-40", "abc"})
		userGen := rapid.SampledFrom(players)
		tournamentGen := rapid.SampledFrom(tournaments)

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			userID := userGen.Draw(rt, "user")
			amount := amounts.Draw(rt, "amount")

			var err error
			switch op := rapid.IntRange(0, 4).Draw(rt, "op"); op {
			case 0:
				_, err = h.engine.Deposit(ctx, userID, amount)
			case 1:
				_, err = h.engine.Withdraw(ctx, userID, amount)
			case 2:
				_, err = h.engine.JoinTournament(ctx, userID, tournamentGen.Draw(rt, "tournament"))
			case 3:
				_, err = h.engine.AdminAdjustWallet(ctx, adminID, userID, amount)
			case 4:
				_, err = h.engine.AwardWinning(ctx, adminID, userID, tournamentGen.Draw(rt, "tournament"), amount)
			}
			if err != nil && !errs.IsBusinessError(err) {
				rt.Fatalf("step %d: unexpected failure: %v", i, err)
			}

			checkInvariant(rt, h)
		}
	})
}

func checkInvariant(rt *rapid.T, h *harness) {
	ctx := context.Background()

	users, err := h.repos.Users.Load(ctx)
	if err != nil {
		rt.Fatalf("load users: %v", err)
	}
	for _, u := range users {
		entries, err := h.repos.Transactions.Load(ctx, u.ID)
		if err != nil {
			rt.Fatalf("load ledger: %v", err)
		}
		if want := entity.LedgerBalance(u.InitialWallet(), entries); want != u.Wallet() {
			rt.Fatalf("user %s: wallet %s, ledger says %s", u.Name, u.GetWallet(), entity.FormatAmount(want))
		}
	}

	tournaments, err := h.repos.Tournaments.Load(ctx)
	if err != nil {
		rt.Fatalf("load tournaments: %v", err)
	}
	for _, t := range tournaments {
		if err := t.CheckConsistency(); err != nil {
			rt.Fatalf("%v", err)
		}
	}

	if current, ok := h.engine.Session().Current(); ok {
		registry, found := users.ByID(current.ID)
		if !found {
			rt.Fatalf("session user %s missing from registry", current.ID)
		}
		if registry.Wallet() != current.Wallet() {
			rt.Fatalf("session wallet %s differs from registry %s", current.GetWallet(), registry.GetWallet())
		}
	}
}
