package ledger

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// WalletResult is the outcome of a wallet mutation
type WalletResult struct {
	User        *entity.User
	Transaction *entity.Transaction
}

// Deposit credits amount to the user's wallet
func (e *Engine) Deposit(ctx context.Context, userID, amount string) (*WalletResult, error) {
	return e.walletOp(ctx, "deposit", userID, amount, func(t *tx, user *entity.User) (*entity.Transaction, error) {
		minor, err := e.validator.ValidateDeposit(amount)
		if err != nil {
			return nil, err
		}
		user.Credit(minor, e.timeProvider)
		return t.AppendTransaction(user.ID, entity.TypeDeposit, minor, "")
	})
}

// Withdraw debits amount from the user's wallet
func (e *Engine) Withdraw(ctx context.Context, userID, amount string) (*WalletResult, error) {
	return e.walletOp(ctx, "withdraw", userID, amount, func(t *tx, user *entity.User) (*entity.Transaction, error) {
		minor, err := e.validator.ValidateWithdrawal(amount)
		if err != nil {
			return nil, err
		}
		if err := user.Debit(minor, e.timeProvider); err != nil {
			return nil, err
		}
		return t.AppendTransaction(user.ID, entity.TypeWithdrawal, minor, "")
	})
}

// AdminAdjustWallet applies a signed delta to the target wallet and records it in the ledger
func (e *Engine) AdminAdjustWallet(ctx context.Context, actorID, targetUserID, delta string) (*WalletResult, error) {
	var result *WalletResult

	err := e.mutate(ctx, "admin_adjust_wallet", map[string]any{
		"actor_id": actorID,
		"user_id":  targetUserID,
		"amount":   delta,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		minor, err := e.validator.ValidateDelta(delta)
		if err != nil {
			return err
		}
		user, err := t.User(targetUserID)
		if err != nil {
			return err
		}

		txType, abs := entity.TypeDeposit, minor
		if minor < 0 {
			txType, abs = entity.TypeWithdrawal, -minor
		}
		user.Adjust(minor, e.timeProvider)

		entry, err := t.AppendTransaction(user.ID, txType, abs, entity.ReferenceAdmin)
		if err != nil {
			return err
		}
		if err := t.SaveUsers(user); err != nil {
			return err
		}

		result = &WalletResult{User: user.Clone(), Transaction: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AwardWinning credits a tournament prize and settles the user's pending match
func (e *Engine) AwardWinning(ctx context.Context, actorID, targetUserID, tournamentID, amount string) (*WalletResult, error) {
	var result *WalletResult

	err := e.mutate(ctx, "award_winning", map[string]any{
		"actor_id":      actorID,
		"user_id":       targetUserID,
		"tournament_id": tournamentID,
		"amount":        amount,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		minor, err := e.validator.ValidatePrize(amount)
		if err != nil {
			return err
		}
		user, err := t.User(targetUserID)
		if err != nil {
			return err
		}
		tournament, err := t.Tournament(tournamentID)
		if err != nil {
			return err
		}

		user.Credit(minor, e.timeProvider)
		entry, err := t.AppendTransaction(user.ID, entity.TypeWinning, minor, tournament.ID)
		if err != nil {
			return err
		}

		history, err := t.History(user.ID)
		if err != nil {
			return err
		}
		match, ok := entity.FindMatch(history, tournament.ID)
		if !ok {
			match = entity.NewPendingMatch(e.ids.NewID(), user.ID, tournament, e.timeProvider.Now())
			history = append(history, match)
		}
		match.Status = entity.MatchWin
		match.PrizeWon += minor
		if err := t.SaveHistory(user.ID, history); err != nil {
			return err
		}

		message := fmt.Sprintf("%s won %s in %s", user.Name, entity.FormatAmount(minor), tournament.Title)
		if _, err := t.Notify("Prize credited", message, entity.NotificationSuccess); err != nil {
			return err
		}
		if err := t.SaveUsers(user); err != nil {
			return err
		}

		result = &WalletResult{User: user.Clone(), Transaction: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) walletOp(
	ctx context.Context,
	operation string,
	userID string,
	amount string,
	apply func(t *tx, user *entity.User) (*entity.Transaction, error),
) (*WalletResult, error) {
	var result *WalletResult

	err := e.mutate(ctx, operation, map[string]any{
		"user_id": userID,
		"amount":  amount,
	}, func(t *tx) error {
		user, err := t.User(userID)
		if err != nil {
			return err
		}
		entry, err := apply(t, user)
		if err != nil {
			return err
		}
		if err := t.SaveUsers(user); err != nil {
			return err
		}

		result = &WalletResult{User: user.Clone(), Transaction: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
