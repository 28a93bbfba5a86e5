// Package settle turns a group roster and its expenses into per person
// paid/share/balance totals and a list of transfer transactions that clears
// the balances. Everything here is derived state; nothing is persisted.
package settle

import (
	"math"

	"github.com/s-min-sys/billsplitbe/internal/model"
	"golang.org/x/exp/slices"
)

// epsilon absorbs floating point division noise; balances inside it count as
// settled.
const epsilon = 0.01

type Transaction struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Result keys every map by participant name. Names referenced by an expense
// but no longer on the roster stay in the maps so the totals keep adding up.
type Result struct {
	Paid         map[string]float64 `json:"paid"`
	Share        map[string]float64 `json:"share"`
	Balance      map[string]float64 `json:"balance"`
	Transactions []Transaction      `json:"transactions"`
}

// Compute derives the settlement for one group. It is deterministic for a
// given input and cheap enough to re-run after every mutation.
//
// The transaction list comes from a greedy largest-first matching of debtors
// against creditors. That keeps the list short in practice but is not a
// minimal-transaction-count solver.
func Compute(participants []model.Participant, expenses []model.Expense) Result {
	res := Result{
		Paid:         make(map[string]float64, len(participants)),
		Share:        make(map[string]float64, len(participants)),
		Balance:      make(map[string]float64, len(participants)),
		Transactions: make([]Transaction, 0),
	}

	for _, p := range participants {
		res.Paid[p.Name] = 0
		res.Share[p.Name] = 0
	}

	for _, expense := range expenses {
		if expense.MultiplePayers {
			for name, amount := range expense.PayerDetails {
				res.Paid[name] += amount
			}
		} else if expense.PaidBy != "" {
			res.Paid[expense.PaidBy] += expense.Amount
		}

		addShares(res.Share, expense)
	}

	for name, paid := range res.Paid {
		res.Balance[name] = paid - res.Share[name]
	}

	for name, share := range res.Share {
		if _, ok := res.Balance[name]; !ok {
			res.Balance[name] = res.Paid[name] - share
		}
	}

	res.Transactions = settleBalances(res.Balance)

	return res
}

func addShares(shares map[string]float64, expense model.Expense) {
	if expense.SplitType == model.SplitTypeCustom && expense.SplitDetails != nil {
		for _, name := range expense.SplitAmong {
			shares[name] += expense.SplitDetails[name]
		}

		return
	}

	if len(expense.SplitAmong) == 0 {
		return
	}

	perHead := expense.Amount / float64(len(expense.SplitAmong))

	for _, name := range expense.SplitAmong {
		shares[name] += perHead
	}
}

// settleBalances matches debtors against creditors, biggest first on both
// sides, transferring min(owed, remaining credit) each step. Amounts are
// rounded to cents only when a transaction is recorded; the walk itself runs
// on full precision.
func settleBalances(balances map[string]float64) []Transaction {
	var creditors, debtors []string

	for name, balance := range balances {
		switch {
		case balance > epsilon:
			creditors = append(creditors, name)
		case balance < -epsilon:
			debtors = append(debtors, name)
		}
	}

	// Name tiebreak keeps the output stable when balances are equal.
	slices.SortFunc(creditors, func(a, b string) int {
		if balances[a] != balances[b] {
			if balances[a] > balances[b] {
				return -1
			}

			return 1
		}

		return cmpNames(a, b)
	})

	slices.SortFunc(debtors, func(a, b string) int {
		if balances[a] != balances[b] {
			if balances[a] < balances[b] {
				return -1
			}

			return 1
		}

		return cmpNames(a, b)
	})

	remaining := make(map[string]float64, len(creditors))
	for _, name := range creditors {
		remaining[name] = balances[name]
	}

	transactions := make([]Transaction, 0)

	for _, debtor := range debtors {
		owed := -balances[debtor]

		for _, creditor := range creditors {
			if owed <= 0 || remaining[creditor] <= 0 {
				continue
			}

			amount := math.Min(owed, remaining[creditor])
			if amount <= epsilon {
				continue
			}

			transactions = append(transactions, Transaction{
				From:   debtor,
				To:     creditor,
				Amount: roundCents(amount),
			})

			owed -= amount
			remaining[creditor] -= amount
		}
	}

	return transactions
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func cmpNames(a, b string) int {
	if a < b {
		return -1
	}

	if a > b {
		return 1
	}

	return 0
}
