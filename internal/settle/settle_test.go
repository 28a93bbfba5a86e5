package settle

import (
	"math"
	"testing"

	"github.com/s-min-sys/billsplitbe/internal/model"
	"github.com/stretchr/testify/assert"
)

func utParticipants(names ...string) (participants []model.Participant) {
	for idx, name := range names {
		participants = append(participants, model.Participant{
			ID:   string(rune('a' + idx)),
			Name: name,
		})
	}

	return
}

// utApplyTransactions replays the transactions against a copy of the balances
// and returns the leftover per name.
func utApplyTransactions(result Result) map[string]float64 {
	leftover := make(map[string]float64, len(result.Balance))

	for name, balance := range result.Balance {
		leftover[name] = balance
	}

	for _, transaction := range result.Transactions {
		leftover[transaction.From] += transaction.Amount
		leftover[transaction.To] -= transaction.Amount
	}

	return leftover
}

func utAssertSettled(t *testing.T, result Result) {
	t.Helper()

	var total float64

	for _, balance := range result.Balance {
		total += balance
	}

	assert.InDelta(t, 0, total, 0.01)

	for name, leftover := range utApplyTransactions(result) {
		assert.InDelta(t, 0, leftover, 0.011, "leftover for %s", name)
	}

	for _, transaction := range result.Transactions {
		assert.NotEqual(t, transaction.From, transaction.To)
		assert.True(t, transaction.Amount > 0)
	}
}

func TestComputeEmpty(t *testing.T) {
	result := Compute(nil, nil)
	assert.Empty(t, result.Paid)
	assert.Empty(t, result.Share)
	assert.Empty(t, result.Balance)
	assert.Empty(t, result.Transactions)

	result = Compute(utParticipants("Alice", "Bob"), nil)
	assert.Empty(t, result.Transactions)
	assert.EqualValues(t, 0, result.Paid["Alice"])
	assert.EqualValues(t, 0, result.Share["Alice"])
	assert.EqualValues(t, 0, result.Balance["Alice"])
	assert.EqualValues(t, 0, result.Balance["Bob"])
}

func TestComputeSinglePayerEqualSplit(t *testing.T) {
	participants := utParticipants("Alice", "Bob", "Carol")

	result := Compute(participants, []model.Expense{
		{
			Description: "hotel",
			Amount:      90,
			PaidBy:      "Alice",
			SplitAmong:  []string{"Alice", "Bob", "Carol"},
			SplitType:   model.SplitTypeEqual,
		},
	})

	assert.InDelta(t, 90, result.Paid["Alice"], 0.01)
	assert.InDelta(t, 0, result.Paid["Bob"], 0.01)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		assert.InDelta(t, 30, result.Share[name], 0.01)
	}

	assert.InDelta(t, 60, result.Balance["Alice"], 0.01)
	assert.InDelta(t, -30, result.Balance["Bob"], 0.01)
	assert.InDelta(t, -30, result.Balance["Carol"], 0.01)

	assert.EqualValues(t, []Transaction{
		{From: "Bob", To: "Alice", Amount: 30},
		{From: "Carol", To: "Alice", Amount: 30},
	}, result.Transactions)

	utAssertSettled(t, result)
}

func TestComputeMultiplePayers(t *testing.T) {
	participants := utParticipants("Alice", "Bob", "Carol")

	result := Compute(participants, []model.Expense{
		{
			Description: "hotel",
			Amount:      90,
			PaidBy:      "Alice",
			SplitAmong:  []string{"Alice", "Bob", "Carol"},
			SplitType:   model.SplitTypeEqual,
		},
		{
			Description:    "dinner",
			Amount:         60,
			MultiplePayers: true,
			PayerDetails:   map[string]float64{"Bob": 60},
			SplitAmong:     []string{"Alice", "Bob", "Carol"},
			SplitType:      model.SplitTypeEqual,
		},
	})

	assert.InDelta(t, 90, result.Paid["Alice"], 0.01)
	assert.InDelta(t, 60, result.Paid["Bob"], 0.01)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		assert.InDelta(t, 50, result.Share[name], 0.01)
	}

	assert.InDelta(t, 40, result.Balance["Alice"], 0.01)
	assert.InDelta(t, 10, result.Balance["Bob"], 0.01)
	assert.InDelta(t, -50, result.Balance["Carol"], 0.01)

	// Largest creditor is served first.
	assert.EqualValues(t, []Transaction{
		{From: "Carol", To: "Alice", Amount: 40},
		{From: "Carol", To: "Bob", Amount: 10},
	}, result.Transactions)

	utAssertSettled(t, result)
}

func TestComputeCustomSplit(t *testing.T) {
	participants := utParticipants("Alice", "Bob")

	result := Compute(participants, []model.Expense{
		{
			Description:  "groceries",
			Amount:       100,
			PaidBy:       "Bob",
			SplitAmong:   []string{"Alice", "Bob"},
			SplitType:    model.SplitTypeCustom,
			SplitDetails: map[string]float64{"Alice": 70, "Bob": 30},
		},
	})

	// Custom amounts pass through untouched.
	assert.EqualValues(t, 70, result.Share["Alice"])
	assert.EqualValues(t, 30, result.Share["Bob"])

	assert.EqualValues(t, []Transaction{
		{From: "Alice", To: "Bob", Amount: 70},
	}, result.Transactions)

	utAssertSettled(t, result)
}

func TestComputeZeroActivityParticipant(t *testing.T) {
	participants := utParticipants("Alice", "Bob", "Dave")

	result := Compute(participants, []model.Expense{
		{
			Description: "taxi",
			Amount:      40,
			PaidBy:      "Alice",
			SplitAmong:  []string{"Alice", "Bob"},
			SplitType:   model.SplitTypeEqual,
		},
	})

	assert.EqualValues(t, 0, result.Paid["Dave"])
	assert.EqualValues(t, 0, result.Share["Dave"])
	assert.EqualValues(t, 0, result.Balance["Dave"])

	for _, transaction := range result.Transactions {
		assert.NotEqual(t, "Dave", transaction.From)
		assert.NotEqual(t, "Dave", transaction.To)
	}

	utAssertSettled(t, result)
}

func TestComputeStaleNames(t *testing.T) {
	// Mallory paid and was split in, then got removed from the roster. The
	// expense keeps her name and the computation must carry it through.
	participants := utParticipants("Alice", "Bob")

	result := Compute(participants, []model.Expense{
		{
			Description: "tickets",
			Amount:      90,
			PaidBy:      "Mallory",
			SplitAmong:  []string{"Alice", "Bob", "Mallory"},
			SplitType:   model.SplitTypeEqual,
		},
	})

	assert.InDelta(t, 90, result.Paid["Mallory"], 0.01)
	assert.InDelta(t, 60, result.Balance["Mallory"], 0.01)
	assert.InDelta(t, -30, result.Balance["Alice"], 0.01)
	assert.InDelta(t, -30, result.Balance["Bob"], 0.01)

	utAssertSettled(t, result)
}

func TestComputeDuplicateNamesCollide(t *testing.T) {
	participants := []model.Participant{
		{ID: "1", Name: "Alice"},
		{ID: "2", Name: "Alice"},
		{ID: "3", Name: "Bob"},
	}

	result := Compute(participants, []model.Expense{
		{
			Description: "lunch",
			Amount:      30,
			PaidBy:      "Alice",
			SplitAmong:  []string{"Alice", "Bob"},
			SplitType:   model.SplitTypeEqual,
		},
	})

	// Two roster entries, one balance key.
	assert.Len(t, result.Balance, 2)
	assert.InDelta(t, 15, result.Balance["Alice"], 0.01)

	utAssertSettled(t, result)
}

func TestComputeUnevenDivision(t *testing.T) {
	participants := utParticipants("Alice", "Bob", "Carol")

	result := Compute(participants, []model.Expense{
		{
			Description: "wine",
			Amount:      100,
			PaidBy:      "Alice",
			SplitAmong:  []string{"Alice", "Bob", "Carol"},
			SplitType:   model.SplitTypeEqual,
		},
	})

	// 100/3 leaves repeating decimals; shares still sum to the amount.
	var total float64
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		total += result.Share[name]
	}

	assert.InDelta(t, 100, total, 0.01)

	// Recorded amounts are rounded to cents.
	for _, transaction := range result.Transactions {
		assert.EqualValues(t, transaction.Amount, math.Round(transaction.Amount*100)/100)
	}

	utAssertSettled(t, result)
}

func TestComputeManyExpenses(t *testing.T) {
	participants := utParticipants("Alice", "Bob", "Carol", "Dave")

	expenses := []model.Expense{
		{Amount: 120, PaidBy: "Alice", SplitAmong: []string{"Alice", "Bob", "Carol", "Dave"}, SplitType: model.SplitTypeEqual},
		{Amount: 33.5, PaidBy: "Bob", SplitAmong: []string{"Bob", "Carol"}, SplitType: model.SplitTypeEqual},
		{Amount: 47.25, MultiplePayers: true, PayerDetails: map[string]float64{"Carol": 27.25, "Dave": 20},
			SplitAmong: []string{"Alice", "Carol", "Dave"}, SplitType: model.SplitTypeEqual},
		{Amount: 60, PaidBy: "Dave", SplitAmong: []string{"Alice", "Bob"},
			SplitType: model.SplitTypeCustom, SplitDetails: map[string]float64{"Alice": 45, "Bob": 15}},
	}

	result := Compute(participants, expenses)

	utAssertSettled(t, result)
}
