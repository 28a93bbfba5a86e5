package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type SplitType string

const (
	SplitTypeEqual  SplitType = "equal"
	SplitTypeCustom SplitType = "custom"
)

// amountTolerance absorbs floating point error when comparing currency sums.
const amountTolerance = 0.01

// FieldErrors carries expense validation failures keyed by field name.
type FieldErrors map[string]string

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Expense is a recorded cost inside one group. Payers and split members are
// referenced by participant name; removing a participant later leaves the
// names here dangling on purpose.
type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"groupId"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	At          int64   `json:"date"`

	PaidBy         string             `json:"paidBy"`
	MultiplePayers bool               `json:"multiplePayers"`
	PayerDetails   map[string]float64 `json:"payerDetails,omitempty"`

	SplitAmong   []string           `json:"splitAmong"`
	SplitType    SplitType          `json:"splitType"`
	SplitDetails map[string]float64 `json:"splitDetails,omitempty"`
}

// Validate checks the expense against the roster it is being recorded into.
// It returns field keyed messages and leaves the expense untouched except for
// trimming the description and defaulting the timestamp and split type.
func (e *Expense) Validate(participants []Participant) FieldErrors {
	errs := FieldErrors{}

	names := make(map[string]bool, len(participants))
	for _, p := range participants {
		names[p.Name] = true
	}

	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		errs["description"] = "description is required"
	}

	if e.Amount <= 0 {
		errs["amount"] = "valid amount is required"
	}

	if e.SplitType == "" {
		e.SplitType = SplitTypeEqual
	}

	if e.SplitType != SplitTypeEqual && e.SplitType != SplitTypeCustom {
		errs["splitType"] = fmt.Sprintf("unknown split type '%s'", e.SplitType)
	}

	if e.At <= 0 {
		e.At = time.Now().Unix()
	}

	e.validatePayers(names, errs)
	e.validateSplit(names, errs)

	if errs.Empty() {
		return nil
	}

	return errs
}

func (e *Expense) validatePayers(names map[string]bool, errs FieldErrors) {
	if !e.MultiplePayers {
		if e.PaidBy == "" {
			errs["paidBy"] = "paid by is required"
		} else if !names[e.PaidBy] {
			errs["paidBy"] = fmt.Sprintf("'%s' is not in the group", e.PaidBy)
		}

		return
	}

	if len(e.PayerDetails) == 0 {
		errs["payerDetails"] = "at least one person must have paid something"

		return
	}

	var payersTotal float64

	for name, amount := range e.PayerDetails {
		if !names[name] {
			errs["payerDetails"] = fmt.Sprintf("payer '%s' is not in the group", name)

			return
		}

		if amount <= 0 {
			errs["payerDetails"] = fmt.Sprintf("amount for %s is invalid", name)

			return
		}

		payersTotal += amount
	}

	if math.Abs(payersTotal-e.Amount) > amountTolerance {
		errs["payerDetails"] = fmt.Sprintf("the sum of individual payments (%.2f) must equal the total (%.2f)",
			payersTotal, e.Amount)
	}
}

func (e *Expense) validateSplit(names map[string]bool, errs FieldErrors) {
	if len(e.SplitAmong) == 0 {
		errs["splitAmong"] = "at least one participant must be selected"

		return
	}

	for _, name := range e.SplitAmong {
		if !names[name] {
			errs["splitAmong"] = fmt.Sprintf("'%s' is not in the group", name)

			return
		}
	}

	if e.SplitType != SplitTypeCustom {
		return
	}

	var splitTotal float64

	for _, name := range e.SplitAmong {
		amount, ok := e.SplitDetails[name]
		if !ok {
			errs["splitDetails"] = fmt.Sprintf("missing amount for %s", name)

			return
		}

		if amount < 0 {
			errs["splitDetails"] = fmt.Sprintf("amount for %s is invalid", name)

			return
		}

		splitTotal += amount
	}

	if math.Abs(splitTotal-e.Amount) > amountTolerance {
		errs["splitDetails"] = fmt.Sprintf("the split amounts (%.2f) must equal the total (%.2f)",
			splitTotal, e.Amount)
	}
}
