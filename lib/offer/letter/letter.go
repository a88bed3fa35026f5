package offerletter

import (
	pdfexport "hr-pipeline-backend/lib/export/pdf"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
)

const (
	FileName    = "offer-letter.pdf"
	ContentType = "application/pdf"
)

// Build формирует печатную форму оффера по текущим условиям
func Build(company models.CompanyInfo, offer dbmodels.JobOffer, candidate *dbmodels.Candidate) ([]byte, error) {
	data := models.OfferLetterData{
		CompanyName:    company.Name,
		CompanyAddress: company.Address,
		CompanyContact: company.Contact,
		JobTitle:       offer.JobTitle,
		Salary:         offer.OfferedSalary.String(),
		Benefits:       offer.Benefits,
		OfferDate:      offer.OfferDate.Format("02.01.2006"),
		ExpiryDate:     offer.ExpiryDate.Format("02.01.2006 15:04 MST"),
		Notes:          offer.Notes,
	}
	if candidate != nil {
		data.CandidateName = candidate.GetFullName()
	}
	if offer.JoiningDate != nil {
		data.JoiningDate = offer.JoiningDate.Format("02.01.2006")
	}
	return pdfexport.GenerateOfferLetter(data)
}

func File(body []byte) models.File {
	return models.File{
		FileName:    FileName,
		ContentType: ContentType,
		Body:        body,
	}
}
