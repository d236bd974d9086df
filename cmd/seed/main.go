// Command seed generates the demo dataset: reference CSVs (vendors,
// budgets, contracts) and a batch of PDF invoices in three different
// layouts to exercise the extractor heuristics.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var departments = []string{"IT", "Marketing", "HR", "Operations", "Legal"}

type vendor struct {
	Name      string
	IBAN      string
	RiskLevel string
}

// Fixed vendor directory. The last two rows are the known demo cases: a
// flagged supplier and one with a malformed IBAN.
var vendors = []vendor{
	{"Acme Tooling GmbH", "DE44500105175407324931", "Low"},
	{"Northwind Services", "NL91ABNA0417164300", "Low"},
	{"Globex Corporation", "FR1420041010050500013M02606", "Low"},
	{"Initech Solutions", "DE89370400440532013000", "Low"},
	{"Umbrella Logistics", "GB29NWBK60161331926819", "Medium"},
	{"Stark Industrial Supply", "ES9121000418450200051332", "Low"},
	{"Wayne Facilities BV", "NL39RABO0300065264", "Low"},
	{"Tyrell Data Systems", "IT60X0542811101000000123456", "Medium"},
	{"Soylent Catering", "BE68539007547034", "Low"},
	{"Cyberdyne Robotics", "DE02120300000000202051", "High"},
	{"Amazon Web Services", "IE29AIBK93115212345678", "Low"},
	{"McKenzie Consulting", "CH9300762011623852957", "Medium"},
	{"Aperture Laboratories", "AT611904300234573201", "Low"},
	{"Hooli Cloud Europe", "PT50000201231234567890154", "Low"},
	{"Vandelay Imports", "PL61109010140000071219812874", "Low"},
	{"Dark Web Corp", "LT121000011101001000", "High"},
	{"Fraud Inc", "XXINVALIDIBAN", "Low"},
}

func main() {
	dataDir := flag.String("data", "data", "output directory for reference data")
	count := flag.Int("invoices", 12, "number of PDF invoices to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	invoiceDir := filepath.Join(*dataDir, "invoices")
	if err := os.MkdirAll(invoiceDir, 0755); err != nil {
		fatal("failed to create invoice directory: %v", err)
	}

	if err := writeReferenceData(*dataDir, rng); err != nil {
		fatal("failed to write reference data: %v", err)
	}
	if err := writeInvoices(invoiceDir, *count, rng); err != nil {
		fatal("failed to write invoices: %v", err)
	}

	fmt.Printf("Generated reference data and %d invoices under %s\n", *count, *dataDir)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeReferenceData(dir string, rng *rand.Rand) error {
	vendorRows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		vendorRows = append(vendorRows, []string{v.Name, v.IBAN, v.RiskLevel})
	}
	if err := writeCSV(filepath.Join(dir, "vendors.csv"),
		[]string{"vendor_name", "iban", "risk_level"}, vendorRows); err != nil {
		return err
	}

	budgetRows := make([][]string, 0, len(departments))
	for _, dept := range departments {
		total := 50000 + rng.Float64()*150000
		remaining := 1000 + rng.Float64()*49000
		budgetRows = append(budgetRows, []string{
			dept,
			fmt.Sprintf("%.2f", total),
			fmt.Sprintf("%.2f", remaining),
		})
	}
	if err := writeCSV(filepath.Join(dir, "budgets.csv"),
		[]string{"department", "total_budget", "remaining_budget"}, budgetRows); err != nil {
		return err
	}

	// Most vendors get an active contract window around today.
	today := time.Now()
	var contractRows [][]string
	for _, v := range vendors {
		if rng.Float64() >= 0.8 {
			continue
		}
		start := today.AddDate(0, 0, -(30 + rng.Intn(270)))
		end := today.AddDate(0, 0, 30+rng.Intn(270))
		contractRows = append(contractRows, []string{
			v.Name,
			start.Format("2006-01-02"),
			end.Format("2006-01-02"),
			"true",
		})
	}
	return writeCSV(filepath.Join(dir, "contracts.csv"),
		[]string{"vendor_name", "start_date", "end_date", "is_active"}, contractRows)
}

func writeInvoices(dir string, count int, rng *rand.Rand) error {
	for i := 0; i < count; i++ {
		v := vendors[rng.Intn(len(vendors))]
		dept := departments[rng.Intn(len(departments))]
		invNum := fmt.Sprintf("INV-%d-%d", 2023+rng.Intn(2), 1000+rng.Intn(9000))
		invDate := time.Now().AddDate(0, 0, -rng.Intn(180)).Format("2006-01-02")
		amount := 100 + rng.Float64()*14900

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.SetHeaderFunc(func() {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")
		})
		pdf.AddPage()
		pdf.SetFont("Arial", "", 10)

		switch rng.Intn(3) {
		case 0:
			// Plain labeled layout.
			cell(pdf, "L", "Vendor: "+v.Name)
			cell(pdf, "L", "Date: "+invDate)
			cell(pdf, "L", "Invoice #: "+invNum)
			cell(pdf, "L", "IBAN: "+v.IBAN)
			cell(pdf, "L", "Department: "+dept)
			pdf.Ln(20)
			cell(pdf, "L", fmt.Sprintf("Total Amount: EUR %.2f", amount))
		case 1:
			// Right-aligned letterhead with a centered balance line.
			cell(pdf, "R", v.Name)
			cell(pdf, "R", "IBAN: "+v.IBAN)
			pdf.Ln(20)
			cell(pdf, "L", "Invoice #: "+invNum)
			cell(pdf, "L", "Date: "+invDate)
			cell(pdf, "L", "Department: "+dept)
			pdf.Ln(10)
			cell(pdf, "C", fmt.Sprintf("BALANCE DUE: %.2f EUR", amount))
		default:
			// Courier remittance layout with a combined reference line.
			pdf.SetFont("Courier", "", 12)
			cell(pdf, "L", "FROM: "+v.Name)
			cell(pdf, "L", "PAY TO: "+v.IBAN)
			pdf.Ln(10)
			cell(pdf, "L", fmt.Sprintf("REF: %s / %s", invNum, invDate))
			cell(pdf, "L", "DEPT: "+dept)
			pdf.Ln(20)
			cell(pdf, "L", fmt.Sprintf("TOTAL: %.2f", amount))
		}

		name := fmt.Sprintf("invoice_%03d_%s.pdf", i+1, strings.ReplaceAll(v.Name, " ", "_"))
		if err := pdf.OutputFileAndClose(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func cell(pdf *gofpdf.Fpdf, align, txt string) {
	pdf.CellFormat(200, 10, txt, "", 1, align, false, 0, "")
}
