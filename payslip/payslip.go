// Package payslip renders a salary calculation as a one-page A4 PDF.
package payslip

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/warp/payroll-engine/calculator"
	"github.com/warp/payroll-engine/payroll"
)

const (
	labelWidth  = 120.0
	amountWidth = 60.0
	rowHeight   = 7.0
)

// Render writes the payslip for res to w. Warnings, when given, are listed
// after the totals.
func Render(w io.Writer, res *calculator.SalaryCalculationResult, warnings []calculator.Warning) error {
	if res == nil {
		return fmt.Errorf("payslip: nil result")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; other runes are replaced.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Payslip "+res.Month.String(), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	name := res.Employee.Name()
	if name == "" {
		name = "-"
	}
	pdf.Cell(0, rowHeight, tr(fmt.Sprintf("Employee: %s", name)))
	pdf.Ln(rowHeight)
	pdf.Cell(0, rowHeight, fmt.Sprintf("Period: %s   Wage type: %s   Hourly wage: %s",
		res.Month, res.WageType, res.HourlyWage.Format()))
	pdf.Ln(rowHeight + 3)

	section(pdf, "Earnings")
	row(pdf, "Base salary", res.BaseSalary)
	for _, a := range res.Allowances {
		label := a.Name()
		if a.IsNonTaxable() {
			label += " (non-taxable)"
		}
		row(pdf, tr(label), a.Amount())
	}
	optionalRow(pdf, "Overtime pay", res.Overtime.OvertimePay)
	optionalRow(pdf, "Inclusive overtime pay", res.InclusiveOvertimePay)
	optionalRow(pdf, "Night work premium", res.Overtime.NightPay)
	optionalRow(pdf, "Holiday work pay", res.Overtime.HolidayPay)
	optionalRow(pdf, "Weekly holiday pay", res.WeeklyHoliday.WeeklyHolidayPay)
	optionalRow(pdf, "Contract guarantee allowance", res.ContractGuaranteeAllowance)
	total(pdf, "Total gross", res.TotalGross)

	section(pdf, "Deductions")
	row(pdf, "National pension", res.Insurance.NationalPension)
	row(pdf, "Health insurance", res.Insurance.HealthInsurance)
	row(pdf, "Long-term care insurance", res.Insurance.LongTermCare)
	row(pdf, "Employment insurance", res.Insurance.EmploymentInsurance)
	row(pdf, "Income tax", res.Tax.IncomeTax)
	row(pdf, "Local income tax", res.Tax.LocalIncomeTax)
	total(pdf, "Total deductions", res.TotalDeductions)

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(labelWidth, rowHeight+2, "Net pay", "", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight+2, res.NetPay.Format(), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	ws := res.WorkSummary
	if ws.Shifts > 0 {
		section(pdf, "Work summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, rowHeight, fmt.Sprintf("%d shifts on %d days, %s total, %s overtime, %s night, %s holiday",
			ws.Shifts, ws.WorkDays, ws.TotalHours, res.Overtime.OvertimeHours, ws.NightHours, ws.HolidayHours))
		pdf.Ln(rowHeight)
		if a := res.Absence; a != nil && a.AbsentDays > 0 {
			pdf.Cell(0, rowHeight, fmt.Sprintf("Absent %d of %d scheduled days (%s policy): %s deducted",
				a.AbsentDays, a.ScheduledDays, a.Policy, a.TotalDeduction.Format()))
			pdf.Ln(rowHeight)
		}
		pdf.Ln(3)
	}

	if len(warnings) > 0 {
		section(pdf, "Warnings")
		pdf.SetFont("Helvetica", "", 9)
		for _, wr := range warnings {
			pdf.MultiCell(labelWidth+amountWidth, 5, tr(fmt.Sprintf("[%s] %s", wr.Level, wr.Message)), "", "L", false)
		}
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelWidth+amountWidth, rowHeight+1, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func row(pdf *gofpdf.Fpdf, label string, amount payroll.Money) {
	pdf.CellFormat(labelWidth, rowHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, amount.Format(), "", 1, "R", false, 0, "")
}

func optionalRow(pdf *gofpdf.Fpdf, label string, amount payroll.Money) {
	if amount.IsZero() {
		return
	}
	row(pdf, label, amount)
}

func total(pdf *gofpdf.Fpdf, label string, amount payroll.Money) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelWidth, rowHeight, label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, amount.Format(), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(3)
}
