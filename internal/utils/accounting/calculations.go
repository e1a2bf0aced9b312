package accounting

import (
	"github.com/retailsuite/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Totals sums the debit and credit sides of a line set.
func Totals(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether debits equal credits within epsilon. The epsilon
// tolerates rounding in amounts that arrive from upstream systems.
func IsBalanced(lines []domain.JournalLine, epsilon decimal.Decimal) bool {
	totalDebit, totalCredit := Totals(lines)
	return totalDebit.Sub(totalCredit).Abs().LessThanOrEqual(epsilon)
}

// NetMovement computes the net (debit - credit) effect of a line set on a
// single account. Lines touching other accounts are ignored.
func NetMovement(lines []domain.JournalLine, accountID string) decimal.Decimal {
	net := decimal.Zero
	for _, line := range lines {
		if line.AccountID != accountID {
			continue
		}
		net = net.Add(line.Debit).Sub(line.Credit)
	}
	return net
}

// SignedAmount applies the account-type convention to a line amount:
// debits increase asset/expense balances, credits increase
// liability/equity/revenue balances.
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) decimal.Decimal {
	net := line.Debit.Sub(line.Credit)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net
	default:
		return net.Neg()
	}
}
