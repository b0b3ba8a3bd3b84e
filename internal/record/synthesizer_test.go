package record

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"provider-synth/internal/npi"
	"provider-synth/pkg/profile"
)

var (
	ssnPattern     = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
	einPattern     = regexp.MustCompile(`^\d{2}-\d{7}$`)
	licensePattern = regexp.MustCompile(`^[A-Z]{2}\d{6}$`)
	deaPattern     = regexp.MustCompile(`^[A-Z]{2}\d{7}$`)
	phonePattern   = regexp.MustCompile(`^\+\d{3}-\d{3}-\d{4}$`)
)

func testProfile() *profile.Profile {
	prof := profile.Default()
	prof.Rows = 300
	prof.NPI.Count = 300
	prof.LastUpdated = "06/15/2025"
	return prof
}

func generateBatch(t *testing.T, seed int64, count int) []*Record {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	fake := gofakeit.New(uint64(seed))
	prof := testProfile()

	pool, err := npi.GeneratePool(rnd, count, prof.NPI.Prefix, prof.NPI.Length)
	if err != nil {
		t.Fatalf("failed to generate pool: %v", err)
	}
	seq, err := npi.NewSequenceFromPool(pool, "test-pool", 0, 0)
	if err != nil {
		t.Fatalf("failed to build sequence: %v", err)
	}

	synth := NewSynthesizer(rnd, fake, prof)
	records, err := synth.GenerateAll(seq, count)
	if err != nil {
		t.Fatalf("failed to synthesize records: %v", err)
	}
	return records
}

func TestSynthesizedFieldShapes(t *testing.T) {
	records := generateBatch(t, 42, 300)
	if len(records) != 300 {
		t.Fatalf("expected 300 records, got %d", len(records))
	}

	individuals, orgs := 0, 0
	for i, rec := range records {
		if rec.NPI == "" {
			t.Fatalf("record %d missing NPI", i)
		}
		if rec.IsIndividual() {
			individuals++
			if !ssnPattern.MatchString(rec.SSN) {
				t.Fatalf("record %d: individual SSN %q malformed", i, rec.SSN)
			}
			if rec.EIN != "" {
				t.Fatalf("record %d: individual carries EIN %q", i, rec.EIN)
			}
			if !deaPattern.MatchString(rec.DEANumber) {
				t.Fatalf("record %d: DEA number %q malformed", i, rec.DEANumber)
			}
			if _, err := time.Parse(profile.DateLayout, rec.DOB); err != nil {
				t.Fatalf("record %d: bad DOB %q: %v", i, rec.DOB, err)
			}
			if rec.Gender != "Male" && rec.Gender != "Female" {
				t.Fatalf("record %d: unexpected gender %q", i, rec.Gender)
			}
		} else {
			orgs++
			if !einPattern.MatchString(rec.EIN) {
				t.Fatalf("record %d: organization EIN %q malformed", i, rec.EIN)
			}
			if rec.SSN != "" || rec.DOB != "" || rec.Gender != "" || rec.DEANumber != "" {
				t.Fatalf("record %d: organization carries individual-only fields", i)
			}
		}

		if !licensePattern.MatchString(rec.StateLicenseNumber) {
			t.Fatalf("record %d: license %q malformed", i, rec.StateLicenseNumber)
		}
		if !phonePattern.MatchString(rec.ContactPhone) {
			t.Fatalf("record %d: phone %q malformed", i, rec.ContactPhone)
		}
		if rec.Bank != rec.BankAccountNumber+"-"+rec.BankRoutingNumber {
			t.Fatalf("record %d: BANK composite %q does not match parts", i, rec.Bank)
		}
		if rec.RiskScore < 0 || rec.RiskScore > 20 {
			t.Fatalf("record %d: risk score %d out of range", i, rec.RiskScore)
		}
		if rec.ClaimAmount < 1000 || rec.ClaimAmount > 10_000_000 {
			t.Fatalf("record %d: claim amount %d out of range", i, rec.ClaimAmount)
		}
		if rec.LastUpdated != "06/15/2025" {
			t.Fatalf("record %d: Last_Updated %q not pinned to profile anchor", i, rec.LastUpdated)
		}
	}

	// 70/30 split should leave both types present in any non-trivial batch.
	if individuals == 0 || orgs == 0 {
		t.Fatalf("expected both provider types, got %d individuals / %d orgs", individuals, orgs)
	}
}

func TestUniqueNPIAssignment(t *testing.T) {
	records := generateBatch(t, 42, 300)
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.NPI]; dup {
			t.Fatalf("NPI %q assigned twice", rec.NPI)
		}
		seen[rec.NPI] = struct{}{}
	}
}

func TestSynthesizerDeterminism(t *testing.T) {
	first := generateBatch(t, 99, 150)
	second := generateBatch(t, 99, 150)
	for i := range first {
		a, b := first[i].Row(), second[i].Row()
		for col := range a {
			if a[col] != b[col] {
				t.Fatalf("row %d column %s diverges: %q vs %q", i, Columns[col], a[col], b[col])
			}
		}
	}
}

func TestSequenceExhaustionAborts(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	fake := gofakeit.New(5)
	prof := testProfile()

	pool, err := npi.GeneratePool(rnd, 10, prof.NPI.Prefix, prof.NPI.Length)
	if err != nil {
		t.Fatalf("failed to generate pool: %v", err)
	}
	seq, err := npi.NewSequenceFromPool(pool, "tiny-pool", 0, 0)
	if err != nil {
		t.Fatalf("failed to build sequence: %v", err)
	}

	synth := NewSynthesizer(rnd, fake, prof)
	if _, err := synth.GenerateAll(seq, 11); err == nil {
		t.Fatal("expected exhaustion error when rows exceed the pool")
	}
}
