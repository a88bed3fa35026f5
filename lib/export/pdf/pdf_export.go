package pdfexport

import (
	"bytes"
	"fmt"
	"hr-pipeline-backend/models"
	"html/template"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const offerLetterTemplate = `<b>Dear {{.CandidateName}},</b><br><br>` +
	`We are pleased to offer you the position of <b>{{.JobTitle}}</b>.<br><br>` +
	`Offered salary: <b>{{.Salary}}</b><br>` +
	`{{if .Benefits}}Benefits: {{.Benefits}}<br>{{end}}` +
	`{{if .JoiningDate}}Expected joining date: {{.JoiningDate}}<br>{{end}}` +
	`Offer date: {{.OfferDate}}<br>` +
	`This offer is valid until <b>{{.ExpiryDate}}</b>.<br><br>` +
	`{{if .Notes}}{{.Notes}}<br><br>{{end}}` +
	`Sincerely,<br>{{.CompanyName}}`

// GenerateOfferLetter печатная форма оффера
func GenerateOfferLetter(data models.OfferLetterData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateOfferLetter panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	err = putImg(pdf, data.Logo)
	if err != nil {
		return nil, err
	}

	// лого заголовок
	if data.Logo != nil {
		pdf.Image(data.Logo.FileName, 10, 12, 30, 0, false, "", 0, "")
	}

	pdf.SetLeftMargin(45)
	_, lineHt := pdf.GetFontSize()
	htmlStr := fmt.Sprintf("%v<br>", data.CompanyName) +
		fmt.Sprintf("%v<br>", data.CompanyContact) +
		fmt.Sprintf("%v<br>", data.CompanyAddress)
	html := pdf.HTMLBasicNew()
	html.Write(lineHt, tr(htmlStr))
	pdf.SetLeftMargin(10)

	posY := pdf.GetY()
	if posY < 50 {
		posY = 50
		pdf.SetY(posY)
	}

	// текст
	tpl, err := template.New("offer_body").Parse(offerLetterTemplate)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	err = tpl.Execute(buf, data)
	if err != nil {
		return nil, err
	}
	html = pdf.HTMLBasicNew()
	html.Write(lineHt, tr(buf.String()))

	buf = new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func putImg(pdf *fpdf.Fpdf, fileData *models.File) (err error) {
	if fileData == nil {
		return nil
	}
	options := fpdf.ImageOptions{
		ReadDpi: false,
	}
	options.ImageType, err = GetImgType(fileData.FileName)
	if err != nil {
		return err
	}
	reader := bytes.NewReader(fileData.Body)
	pdf.RegisterImageOptionsReader(fileData.FileName, options, reader)
	return pdf.Error()
}

func GetImgType(fileName string) (string, error) {
	pos := strings.LastIndex(fileName, ".")
	if pos < 0 {
		return "", errors.Errorf("не удалось получить расширение файла: %s", fileName)
	}
	return fileName[pos+1:], nil
}
