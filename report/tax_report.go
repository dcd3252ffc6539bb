package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxbot/domain"
)

const (
	Title       = "TaxBot India - Tax Report"
	ContentType = "application/pdf"

	Disclaimer = "Disclaimer: This report is for informational purposes only and should not be considered as tax advice. " +
		"Tax laws are subject to change. Please consult with a qualified tax professional for specific advice " +
		"related to your tax situation."
)

func NewMeta(now time.Time) Meta {
	return Meta{ID: uuid.NewString(), GeneratedAt: now}
}

// Filename is the download name for a report generated on day t.
func Filename(t time.Time) string {
	return "TaxBot_Report_" + t.Format("02-01-2006") + ".pdf"
}

// Build lays out the tax report for cmp. Tips and the disclaimer always
// start on a fresh page.
func Build(cmp domain.TaxComparison, meta Meta) Document {
	in := cmp.Input
	rs := domain.FormatRupees

	b := NewBuilder(Title, meta)

	b.Heading("Your Income Details").Paragraph(
		"Annual Income: "+rs(in.Income),
		"Section 80C Investments: "+rs(in.Investments),
		"Health Insurance Premium: "+rs(in.HealthInsurance),
		"Home Loan Interest: "+rs(in.HomeLoan),
		"Education Loan Interest: "+rs(in.EduLoan),
		"HRA Exemption: "+rs(in.HRA),
		"Total Deductions: "+rs(cmp.TotalDeductions),
	)

	b.Heading("Tax Calculation").BoldParagraph(
		"Old Regime Taxable Income: "+rs(cmp.OldTaxable),
		"New Regime Taxable Income: "+rs(cmp.NewTaxable),
	).Space(5)

	b.Heading("Tax Regime Comparison").Table(
		[]string{"Details", string(domain.OldRegime), string(domain.NewRegime)},
		[]string{"Base Tax", rs(cmp.Old.BaseTax), rs(cmp.New.BaseTax)},
		[]string{"Cess (4%)", rs(cmp.Old.Cess), rs(cmp.New.Cess)},
		[]string{"Total Tax", rs(cmp.Old.TotalTax), rs(cmp.New.TotalTax)},
	).Space(5)

	b.Heading("Recommended Tax Regime").Highlight(
		fmt.Sprintf("Based on your inputs, the %s is better for you.", cmp.Recommendation.Regime),
		fmt.Sprintf("You will save approximately %s by choosing this regime.", rs(cmp.Recommendation.Savings)),
	)

	b.PageBreak().
		Heading("Tax Saving Recommendations").
		NumberedList(cmp.Tips).
		Space(10).
		Note(Disclaimer)

	return b.Document()
}
