package pdfexport

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

type DisclosureData struct {
	OrganizationName string
	CandidateName    string
	Jurisdictions    []string
	GeneratedAt      time.Time
}

type CertificateData struct {
	OrganizationName string
	UserName         string
	ModuleName       string
	CompletedAt      time.Time
}

const disclosureBody = `<b>AI Hiring Tool Disclosure Notice</b><br><br>
Dear {{.CandidateName}},<br><br>
{{.OrganizationName}} informs you that automated employment decision tools,
including artificial intelligence based assessment systems, may be used to
evaluate your candidacy. You have the right to request information about the
tools used and, where applicable law provides, to request an alternative
selection process or accommodation.<br><br>
This notice is provided under the hiring regulations applicable in your
location{{if .Jurisdictions}}:<br>{{range .Jurisdictions}}&nbsp;&nbsp;- {{.}}<br>{{end}}{{end}}<br>
If you have questions about this notice, contact the employer named above.`

const certificateBody = `<b>Certificate of Completion</b><br><br>
This certifies that<br><br>
<b>{{.UserName}}</b><br><br>
has completed the compliance training module<br><br>
<b>{{.ModuleName}}</b><br><br>
at {{.OrganizationName}}.`

// GenerateDisclosureNotice renders a candidate-facing AI usage disclosure.
func GenerateDisclosureNotice(data DisclosureData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateDisclosureNotice panic recover: %v", r)
		}
	}()
	footer := fmt.Sprintf("Generated on %v by %v", data.GeneratedAt.Format("January 2, 2006"), data.OrganizationName)
	return render("disclosure_body", disclosureBody, data, footer)
}

// GenerateTrainingCertificate renders a completion certificate for an org user.
func GenerateTrainingCertificate(data CertificateData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateTrainingCertificate panic recover: %v", r)
		}
	}()
	footer := fmt.Sprintf("Completed on %v", data.CompletedAt.Format("January 2, 2006"))
	return render("certificate_body", certificateBody, data, footer)
}

func render(name, body string, data any, footer string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	tpl, err := template.New(name).Parse(body)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err = tpl.Execute(buf, data); err != nil {
		return nil, err
	}

	_, lineHt := pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	html.Write(lineHt+2, buf.String())

	pdf.SetY(pdf.GetY() + 15)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Write(lineHt, footer)

	out := new(bytes.Buffer)
	if err = pdf.Output(out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
