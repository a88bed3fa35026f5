package models

// OfferLetterData данные для печатной формы оффера
type OfferLetterData struct {
	CompanyName    string
	CompanyAddress string
	CompanyContact string
	CandidateName  string
	JobTitle       string
	Salary         string
	Benefits       string
	OfferDate      string
	ExpiryDate     string
	JoiningDate    string
	Notes          string
	Logo           *File
}

type File struct {
	FileName    string
	ContentType string
	Body        []byte
}

// CompanyInfo реквизиты компании для печатных форм
type CompanyInfo struct {
	Name    string
	Address string
	Contact string
}
