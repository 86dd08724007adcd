package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Certificate holds the fields rendered onto a completion certificate.
type Certificate struct {
	StudentName string
	CourseName  string
	ModuleName  string
	Grade       *int
	CompletedAt time.Time
	SignerName  string
}

// CertificateRenderer renders course completion certificates as PDF.
type CertificateRenderer struct{}

// NewCertificateRenderer constructs a certificate renderer.
func NewCertificateRenderer() *CertificateRenderer {
	return &CertificateRenderer{}
}

// Render creates a landscape A4 certificate document.
func (r *CertificateRenderer) Render(cert Certificate) ([]byte, error) {
	if cert.StudentName == "" || cert.CourseName == "" {
		return nil, fmt.Errorf("certificate requires a student and a course name")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 28)
	pdf.CellFormat(0, 16, "Certificate of Completion", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 12, cert.StudentName, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 8, "has completed the course", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, cert.CourseName, "", 1, "C", false, 0, "")
	if cert.ModuleName != "" {
		pdf.SetFont("Arial", "I", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("module: %s", cert.ModuleName), "", 1, "C", false, 0, "")
	}
	if cert.Grade != nil {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("with grade %d", *cert.Grade), "", 1, "C", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, cert.CompletedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")
	if cert.SignerName != "" {
		pdf.Ln(12)
		pdf.CellFormat(0, 8, cert.SignerName, "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 6, "Teacher in charge", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
