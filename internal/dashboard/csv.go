package dashboard

import "strings"

// CSVHeader is the first line of an export
const CSVHeader = "Description,Amount,Category"

// ExportCSV writes the ledger as "description,amount,category" rows under the header.
// Fields are not quoted and the last row has no trailing newline.
func ExportCSV(expenses []Expense) string {
	rows := make([]string, len(expenses))
	for i, e := range expenses {
		rows[i] = e.Description + "," + e.Amount.String() + "," + e.Type
	}
	return CSVHeader + "\n" + strings.Join(rows, "\n")
}
