package dataset

import (
	"path/filepath"
	"testing"

	"provider-synth/internal/record"
)

func sampleRecords() []*record.Record {
	individual := &record.Record{
		NPI:                    "2000000001",
		ProviderType:           record.TypeIndividual,
		ProviderName:           "Jordan Avery",
		SSN:                    "123-45-6789",
		ContactEmail:           "jordan.avery@example.org",
		DOB:                    "03/14/1975",
		Gender:                 "Female",
		ContactPhone:           "+555-123-4567",
		PracticeAddress:        "12 Main St, Springfield, IL 62701",
		MailingAddress:         "12 Main St, Springfield, IL 62701",
		StateLicenseNumber:     "IL123456",
		LicenseState:           "IL",
		LicenseExpiration:      "01/01/2030",
		DEANumber:              "AB1234567",
		SpecialtyCode:          "01",
		BoardCertification:     "Yes",
		AccreditationOrg:       "JCAHO",
		AccreditationExp:       "01/01/2030",
		OwnershipType:          "Sole Proprietor",
		AdverseActions:         "None",
		BankAccountNumber:      "12345678",
		BankRoutingNumber:      "123456789",
		Bank:                   "12345678-123456789",
		ReassignmentOfBenefits: "Y",
		EnrollmentDate:         "06/01/2015",
		LastUpdated:            "06/15/2025",
		RiskScore:              0,
		ClaimAmount:            125000,
	}
	org := &record.Record{
		NPI:                    "2000000002",
		ProviderType:           record.TypeOrganization,
		ProviderName:           "Riverside Health Partners",
		EIN:                    "12-3456789",
		ContactEmail:           "billing@riverside.example.org",
		ContactPhone:           "+555-987-6543",
		PracticeAddress:        "400 Oak Ave, Portland, OR 97201",
		MailingAddress:         "400 Oak Ave, Portland, OR 97201",
		StateLicenseNumber:     "OR654321",
		LicenseState:           "OR",
		LicenseExpiration:      "05/05/2029",
		SpecialtyCode:          "30",
		BoardCertification:     "No",
		AccreditationExp:       "05/05/2029",
		OwnershipType:          "LLC",
		AdverseActions:         "Malpractice",
		BankAccountNumber:      "987654321",
		BankRoutingNumber:      "987654321",
		Bank:                   "987654321-987654321",
		BillingAgency:          "Acme Billing LLC",
		ReassignmentOfBenefits: "N",
		EnrollmentDate:         "02/20/2010",
		LastUpdated:            "06/15/2025",
		RiskScore:              15,
		ClaimAmount:            9_800_000,
	}
	return []*record.Record{individual, org}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"data.csv", "data.csv.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			records := sampleRecords()
			if err := Write(path, records); err != nil {
				t.Fatalf("failed to write dataset: %v", err)
			}

			table, err := Load(path)
			if err != nil {
				t.Fatalf("failed to load dataset: %v", err)
			}
			if table.Len() != len(records) {
				t.Fatalf("loaded %d rows, want %d", table.Len(), len(records))
			}
			if len(table.Header()) != len(record.Columns) {
				t.Fatalf("loaded %d columns, want %d", len(table.Header()), len(record.Columns))
			}

			names, err := table.Column("Provider_Name")
			if err != nil {
				t.Fatalf("column lookup failed: %v", err)
			}
			if names[0] != "Jordan Avery" || names[1] != "Riverside Health Partners" {
				t.Fatalf("unexpected Provider_Name column: %v", names)
			}

			// Blank fields must survive the round trip as blanks.
			ssns, err := table.Column("SSN")
			if err != nil {
				t.Fatalf("column lookup failed: %v", err)
			}
			if ssns[1] != "" {
				t.Fatalf("organization SSN should be blank, got %q", ssns[1])
			}
			dobs, err := table.Column("DOB")
			if err != nil {
				t.Fatalf("column lookup failed: %v", err)
			}
			if dobs[0] != "03/14/1975" || dobs[1] != "" {
				t.Fatalf("unexpected DOB column: %v", dobs)
			}
		})
	}
}

func TestColumnLookupError(t *testing.T) {
	table := FromRecords(sampleRecords())
	if _, err := table.Column("No_Such_Column"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing dataset file")
	}
}
