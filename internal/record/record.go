// Package record models the provider enrollment row and synthesizes rows
// from a seeded random source.
package record

import (
	"strconv"
)

// Provider types.
const (
	TypeIndividual   = "Individual"
	TypeOrganization = "Organization"
)

// Columns is the dataset header, in the exact order the analyzer expects.
var Columns = []string{
	"NPI",
	"Provider_Type",
	"Provider_Name",
	"SSN",
	"ssn_ein",
	"Contact_Email",
	"DOB",
	"Gender",
	"Contact_Phone",
	"Practice_Address",
	"Mailing_Address",
	"State_License_Number",
	"License_State",
	"License_Expiration",
	"DEA_Number",
	"Specialty_Code",
	"Board_Certification",
	"Accreditation_Org",
	"Accreditation_Exp",
	"Ownership_Type",
	"Adverse_Actions",
	"Bank_Account_Number",
	"Bank_Routing_Number",
	"BANK",
	"Billing_Agency",
	"Reassignment_Of_Benefits",
	"Enrollment_Date",
	"Last_Updated",
	"Risk_Score",
	"Claim_Amount",
}

// Record is one provider enrollment row. Absent values are empty strings and
// serialize as blank CSV fields.
type Record struct {
	NPI                    string
	ProviderType           string
	ProviderName           string
	SSN                    string
	EIN                    string
	ContactEmail           string
	DOB                    string
	Gender                 string
	ContactPhone           string
	PracticeAddress        string
	MailingAddress         string
	StateLicenseNumber     string
	LicenseState           string
	LicenseExpiration      string
	DEANumber              string
	SpecialtyCode          string
	BoardCertification     string
	AccreditationOrg       string
	AccreditationExp       string
	OwnershipType          string
	AdverseActions         string
	BankAccountNumber      string
	BankRoutingNumber      string
	Bank                   string
	BillingAgency          string
	ReassignmentOfBenefits string
	EnrollmentDate         string
	LastUpdated            string
	RiskScore              int
	ClaimAmount            int
}

// IsIndividual reports whether the row describes an individual provider.
func (r *Record) IsIndividual() bool {
	return r.ProviderType == TypeIndividual
}

// Row serializes the record in Columns order.
func (r *Record) Row() []string {
	return []string{
		r.NPI,
		r.ProviderType,
		r.ProviderName,
		r.SSN,
		r.EIN,
		r.ContactEmail,
		r.DOB,
		r.Gender,
		r.ContactPhone,
		r.PracticeAddress,
		r.MailingAddress,
		r.StateLicenseNumber,
		r.LicenseState,
		r.LicenseExpiration,
		r.DEANumber,
		r.SpecialtyCode,
		r.BoardCertification,
		r.AccreditationOrg,
		r.AccreditationExp,
		r.OwnershipType,
		r.AdverseActions,
		r.BankAccountNumber,
		r.BankRoutingNumber,
		r.Bank,
		r.BillingAgency,
		r.ReassignmentOfBenefits,
		r.EnrollmentDate,
		r.LastUpdated,
		strconv.Itoa(r.RiskScore),
		strconv.Itoa(r.ClaimAmount),
	}
}
