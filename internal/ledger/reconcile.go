package ledger

import "github.com/gastos-dev/gastos/internal/model"

// Result partitions an incoming batch.
type Result struct {
	New        []model.ExpenseRecord
	Duplicates []model.ExpenseRecord
}

// Reconcile splits incoming into records not yet in existing and records that
// are. A record repeated inside the same batch counts as a duplicate of its
// first occurrence. Both lists keep the incoming order.
//
// The scan is linear in len(existing)*len(incoming); ledgers here hold a
// household's receipts, not a bank's.
func Reconcile(existing, incoming []model.ExpenseRecord) Result {
	var res Result
	for _, rec := range incoming {
		if contains(existing, rec) || contains(res.New, rec) {
			res.Duplicates = append(res.Duplicates, rec)
			continue
		}
		res.New = append(res.New, rec)
	}
	return res
}

func contains(records []model.ExpenseRecord, rec model.ExpenseRecord) bool {
	for _, r := range records {
		if r.SameEntry(rec) {
			return true
		}
	}
	return false
}
