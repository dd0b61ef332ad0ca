package store

import (
	"fmt"
	"strings"
)

// ledgerTemplate renders the starter file for new ledgers: an account
// catalog oriented at Indian personal accounting, with tax-deduction
// and GST accounts, every account opened on the given date.
func ledgerTemplate(openDate, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "option %q %q\n", "title", "Friday Ledger")
	fmt.Fprintf(&b, "option %q %q\n", "operating_currency", currency)

	sections := []struct {
		comment  string
		accounts []string
	}{
		{"; Assets", []string{
			"Assets:Bank:Checking",
			"Assets:Bank:Savings",
			"Assets:Cash",
			"Assets:Investments:FD",
			"Assets:Investments:Equity",
			"Assets:Investments:MF",
			"Assets:Property",
		}},
		{"; Liabilities", []string{
			"Liabilities:CreditCard",
			"Liabilities:Loan:Home",
			"Liabilities:Loan:Personal",
			"Liabilities:Loan:Education",
		}},
		{"; Income", []string{
			"Income:Salary",
			"Income:Salary:Allowances",
			"Income:Interest:FD",
			"Income:Interest:Savings",
			"Income:Dividends",
			"Income:CapitalGains:STCG",
			"Income:CapitalGains:LTCG",
			"Income:Business:Profession",
			"Income:Other:HouseProperty",
		}},
		{"; Expenses", []string{
			"Expenses:Food",
			"Expenses:Transport",
			"Expenses:Utilities",
			"Expenses:Entertainment",
			"Expenses:Medical",
			"Expenses:Education",
			"Expenses:Home:Maintenance",
			"Expenses:Home:PropertyTax",
		}},
		{"; Tax Deductions (Income Tax Act sections)", []string{
			"Expenses:Tax:80C",
			"Expenses:Tax:80D",
			"Expenses:Tax:80G",
			"Expenses:Tax:24B",
			"Expenses:Tax:80E",
			"Expenses:Tax:80TTA",
			"Expenses:Tax:80CCD",
			"Expenses:Tax:80DDB",
			"Expenses:Tax:80U",
		}},
		{"; GST", []string{
			"Expenses:GST:Input:CGST",
			"Expenses:GST:Input:SGST",
			"Expenses:GST:Input:IGST",
			"Income:GST:Output:CGST",
			"Income:GST:Output:SGST",
			"Income:GST:Output:IGST",
		}},
		{"; Equity", []string{
			"Equity:Opening-Balances",
		}},
	}

	for _, section := range sections {
		b.WriteByte('\n')
		b.WriteString(section.comment)
		b.WriteByte('\n')
		for _, account := range section.accounts {
			fmt.Fprintf(&b, "%s open %s\n", openDate, account)
		}
	}

	return b.String()
}
