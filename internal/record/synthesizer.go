package record

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"provider-synth/internal/npi"
	"provider-synth/pkg/profile"
)

const contactPoolSize = 10000

// Subset of actual CMS specialty codes (internal med, general surgery, ...).
var specialtyCodes = []string{"01", "02", "03", "06", "08", "10", "11", "20", "30"}

var accreditationOrgs = []string{"JCAHO", "URAC", "NCQA", "DNV", ""}

// Nine clean entries to two adverse ones keeps adverse actions at ~18%.
var adverseActions = []string{
	"None", "None", "None", "None", "None", "None", "None", "None", "None",
	"Malpractice", "Suspension",
}

// Synthesizer fills provider rows from a seeded random source and faker.
// Addresses and phone numbers are pre-rendered into fixed pools so rows share
// contact values the way real enrollment data does.
type Synthesizer struct {
	rnd    *rand.Rand
	fake   *gofakeit.Faker
	prof   *profile.Profile
	anchor time.Time

	addresses []string
	phones    []string
}

// NewSynthesizer builds a synthesizer over a seeded rand and faker. The same
// seed and profile reproduce the same rows.
func NewSynthesizer(rnd *rand.Rand, fake *gofakeit.Faker, prof *profile.Profile) *Synthesizer {
	s := &Synthesizer{
		rnd:    rnd,
		fake:   fake,
		prof:   prof,
		anchor: prof.Anchor(),
	}
	s.addresses = make([]string, contactPoolSize)
	for i := range s.addresses {
		s.addresses[i] = strings.ReplaceAll(fake.Address().Address, "\n", ", ")
	}
	s.phones = make([]string, contactPoolSize)
	for i := range s.phones {
		s.phones[i] = s.randomPhone()
	}
	return s
}

// Generate synthesizes one row, taking its NPI from the sequence. A pool
// exhaustion error aborts the run.
func (s *Synthesizer) Generate(seq *npi.Sequence) (*Record, error) {
	id, err := seq.Next()
	if err != nil {
		return nil, err
	}

	rec := &Record{
		NPI:          id,
		ProviderType: s.prof.ProviderType.Pick(s.rnd),
	}

	if rec.IsIndividual() {
		rec.ProviderName = s.fake.Name()
		rec.SSN = s.randomSSN()
		rec.DOB = s.randomDate(1930, 2000).Format(profile.DateLayout)
		rec.Gender = []string{"Male", "Female"}[s.rnd.Intn(2)]
		rec.DEANumber = s.randomDEA()
	} else {
		rec.ProviderName = s.fake.Company()
		rec.EIN = s.randomEIN()
	}

	rec.ContactEmail = s.fake.Email()
	rec.LicenseState = s.fake.StateAbr()
	rec.StateLicenseNumber = s.randomLicense(rec.LicenseState)
	rec.LicenseExpiration = s.futureDate(6).Format(profile.DateLayout)

	rec.ContactPhone = s.phones[s.rnd.Intn(len(s.phones))]
	rec.PracticeAddress = s.addresses[s.rnd.Intn(len(s.addresses))]
	rec.MailingAddress = s.addresses[s.rnd.Intn(len(s.addresses))]

	rec.SpecialtyCode = specialtyCodes[s.rnd.Intn(len(specialtyCodes))]
	rec.BoardCertification = s.prof.BoardCertification.Pick(s.rnd)
	rec.AccreditationOrg = accreditationOrgs[s.rnd.Intn(len(accreditationOrgs))]
	rec.AccreditationExp = s.futureDate(6).Format(profile.DateLayout)
	rec.OwnershipType = s.prof.Ownership.Pick(s.rnd)
	rec.AdverseActions = adverseActions[s.rnd.Intn(len(adverseActions))]

	rec.BankAccountNumber = s.digits(8 + s.rnd.Intn(5))
	rec.BankRoutingNumber = s.digits(9)
	rec.Bank = rec.BankAccountNumber + "-" + rec.BankRoutingNumber

	if s.rnd.Intn(2) == 0 {
		rec.BillingAgency = s.fake.Company()
	}
	rec.ReassignmentOfBenefits = []string{"Y", "N"}[s.rnd.Intn(2)]
	rec.EnrollmentDate = s.randomDate(2005, 2023).Format(profile.DateLayout)
	rec.LastUpdated = s.anchor.Format(profile.DateLayout)
	rec.RiskScore = s.randomRiskScore()
	rec.ClaimAmount = 1000 + s.rnd.Intn(10_000_000-1000+1)

	return rec, nil
}

// GenerateAll synthesizes count rows.
func (s *Synthesizer) GenerateAll(seq *npi.Sequence, count int) ([]*Record, error) {
	records := make([]*Record, 0, count)
	for i := 0; i < count; i++ {
		rec, err := s.Generate(seq)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Synthesizer) randomSSN() string {
	return fmt.Sprintf("%03d-%02d-%04d",
		100+s.rnd.Intn(800),
		10+s.rnd.Intn(90),
		1000+s.rnd.Intn(9000))
}

func (s *Synthesizer) randomEIN() string {
	return fmt.Sprintf("%02d-%07d", 10+s.rnd.Intn(90), 1_000_000+s.rnd.Intn(9_000_000))
}

func (s *Synthesizer) randomDEA() string {
	letters := make([]byte, 2)
	for i := range letters {
		letters[i] = byte('A' + s.rnd.Intn(26))
	}
	return string(letters) + s.digits(7)
}

func (s *Synthesizer) randomLicense(state string) string {
	return fmt.Sprintf("%s%06d", state, 100_000+s.rnd.Intn(900_000))
}

func (s *Synthesizer) randomPhone() string {
	return fmt.Sprintf("+%03d-%03d-%04d",
		200+s.rnd.Intn(800),
		100+s.rnd.Intn(900),
		1000+s.rnd.Intn(9000))
}

// randomDate draws a day uniformly between Jan 1 of startYear and Dec 31 of
// endYear.
func (s *Synthesizer) randomDate(startYear, endYear int) time.Time {
	start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	span := int(end.Sub(start).Hours()/24) + 1
	return start.AddDate(0, 0, s.rnd.Intn(span))
}

// futureDate draws a day 30 days to yearsAhead years past the anchor date.
func (s *Synthesizer) futureDate(yearsAhead int) time.Time {
	days := 30 + s.rnd.Intn(365*yearsAhead-30+1)
	return s.anchor.AddDate(0, 0, days)
}

// randomRiskScore is 0 with 90% probability, else uniform in [1, 20].
func (s *Synthesizer) randomRiskScore() int {
	if s.rnd.Float64() < 0.1 {
		return 1 + s.rnd.Intn(20)
	}
	return 0
}

func (s *Synthesizer) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + s.rnd.Intn(10))
	}
	return string(b)
}
