// Package dupes injects duplicate identifying fields into a synthesized
// dataset: fuzzy near-copies of display fields and verbatim copies of
// tax / license / bank identifiers, both sourced from randomly chosen donor
// rows.
package dupes

import (
	"math/rand"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"provider-synth/internal/record"
)

// similarityFloor is the minimum fuzzywuzzy ratio (Levenshtein-based, 0-100,
// full-string) a mutated value must keep against its original to count as a
// fuzzy duplicate.
const similarityFloor = 90

const (
	maxMutationTries = 10
	maxDonorTries    = 100
)

// Exact-copy field choices. EIN rides along under the original column name.
var exactFields = []string{"SSN", "ssn_ein", "State_License_Number", "BANK"}

// Summary reports what an injection pass actually changed.
type Summary struct {
	FuzzyApplied  int
	FuzzyFallback int // recipients that kept the donor's value verbatim
	ExactApplied  int
	ExactSkipped  int // recipients for which no populated donor was found
}

// Injector selects recipient rows and rewires their identifying fields to
// donor rows. All selection is driven by the seeded rand, so a run is
// reproducible.
type Injector struct {
	rnd       *rand.Rand
	fuzzyRate float64
	exactRate float64
}

// NewInjector builds an injector with the given fractions of rows to receive
// fuzzy and exact duplicates.
func NewInjector(rnd *rand.Rand, fuzzyRate, exactRate float64) *Injector {
	return &Injector{rnd: rnd, fuzzyRate: fuzzyRate, exactRate: exactRate}
}

// Inject runs the fuzzy pass then the exact pass over the records in place.
func (in *Injector) Inject(records []*record.Record) Summary {
	var sum Summary
	in.injectFuzzy(records, &sum)
	in.injectExact(records, &sum)
	return sum
}

func (in *Injector) injectFuzzy(records []*record.Record, sum *Summary) {
	n := len(records)
	count := int(float64(n) * in.fuzzyRate)
	for _, idx := range in.sample(n, count) {
		donor := records[in.randomDonor(n, idx)]

		name := in.mutate(donor.ProviderName, in.similarName)
		email := in.mutate(donor.ContactEmail, in.similarEmail)
		if name == donor.ProviderName && email == donor.ContactEmail {
			sum.FuzzyFallback++
		} else {
			sum.FuzzyApplied++
		}
		records[idx].ProviderName = name
		records[idx].ContactEmail = email
	}
}

func (in *Injector) injectExact(records []*record.Record, sum *Summary) {
	n := len(records)
	count := int(float64(n) * in.exactRate)
	for _, idx := range in.sample(n, count) {
		field := exactFields[in.rnd.Intn(len(exactFields))]
		donorIdx := in.exactDonor(records, idx, field)
		if donorIdx < 0 {
			sum.ExactSkipped++
			continue
		}
		donor := records[donorIdx]
		rec := records[idx]
		switch field {
		case "SSN":
			rec.SSN = donor.SSN
		case "ssn_ein":
			rec.EIN = donor.EIN
		case "State_License_Number":
			rec.StateLicenseNumber = donor.StateLicenseNumber
		case "BANK":
			// The composite and its two underlying fields travel together.
			rec.BankAccountNumber = donor.BankAccountNumber
			rec.BankRoutingNumber = donor.BankRoutingNumber
			rec.Bank = donor.Bank
		}
		sum.ExactApplied++
	}
}

// mutate retries the mutation until it differs from the original while still
// scoring at or above the similarity floor. Failing that within the retry
// budget, it returns the original unchanged: a best-effort guarantee, never
// an error.
func (in *Injector) mutate(original string, fn func(string) string) string {
	for i := 0; i < maxMutationTries; i++ {
		candidate := fn(original)
		if candidate != original && fuzzy.Ratio(original, candidate) >= similarityFloor {
			return candidate
		}
	}
	return original
}

// similarName drops a middle token or doubles the first letter, after
// stripping the commas org names carry.
func (in *Injector) similarName(name string) string {
	name = strings.ReplaceAll(name, ",", "")
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return name
	}
	if len(tokens) > 2 && in.rnd.Float64() < 0.5 {
		tokens = append(tokens[:1], tokens[2:]...)
	} else {
		tokens[0] = tokens[0][:1] + tokens[0]
	}
	return strings.Join(tokens, " ")
}

// similarEmail rewrites the local part: dots removed, or dots to underscores.
func (in *Injector) similarEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	user, domain := email[:at], email[at+1:]
	if strings.Contains(user, ".") && in.rnd.Float64() < 0.5 {
		user = strings.ReplaceAll(user, ".", "")
	} else {
		user = strings.ReplaceAll(user, ".", "_")
	}
	return user + "@" + domain
}

// sample draws count distinct indices from [0, n).
func (in *Injector) sample(n, count int) []int {
	if count > n {
		count = n
	}
	return in.rnd.Perm(n)[:count]
}

// randomDonor picks a donor index uniformly, never the recipient itself.
func (in *Injector) randomDonor(n, recipient int) int {
	for {
		donor := in.rnd.Intn(n)
		if donor != recipient {
			return donor
		}
	}
}

// exactDonor redraws donors until one has the requested field populated, so
// e.g. an EIN copy only ever comes from an organization that has one.
// Returns -1 when no populated donor turns up within the retry budget.
func (in *Injector) exactDonor(records []*record.Record, recipient int, field string) int {
	n := len(records)
	for i := 0; i < maxDonorTries; i++ {
		donor := in.rnd.Intn(n)
		if donor == recipient {
			continue
		}
		if fieldPopulated(records[donor], field) {
			return donor
		}
	}
	return -1
}

func fieldPopulated(rec *record.Record, field string) bool {
	switch field {
	case "SSN":
		return rec.SSN != ""
	case "ssn_ein":
		return rec.EIN != ""
	case "State_License_Number":
		return rec.StateLicenseNumber != ""
	case "BANK":
		return rec.BankAccountNumber != "" && rec.BankRoutingNumber != ""
	}
	return false
}
