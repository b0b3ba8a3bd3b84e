// Package report computes the distribution analysis over a finished dataset:
// value counts per categorical field, summary statistics for the monetary
// fields, and a rule-based fraud label.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"provider-synth/internal/dataset"
	"provider-synth/internal/record"
	"provider-synth/pkg/profile"
)

// Fraud label rule thresholds.
const (
	riskScoreFloor  = 10 // fraud indicator when Risk_Score strictly exceeds this
	claimPercentile = 95 // fraud indicator when Claim_Amount strictly exceeds this percentile
)

var adverseFraudActions = map[string]bool{
	"Malpractice": true,
	"Suspension":  true,
}

// Analyzer is a pure read-and-report pass over a loaded table.
type Analyzer struct {
	table *dataset.Table
}

// New wraps a loaded dataset table.
func New(t *dataset.Table) *Analyzer {
	return &Analyzer{table: t}
}

// Write renders the full distribution report.
func (a *Analyzer) Write(w io.Writer) error {
	total := a.table.Len()
	if total == 0 {
		return fmt.Errorf("dataset is empty")
	}

	providerTypes, err := a.table.Column("Provider_Type")
	if err != nil {
		return err
	}
	riskScores, err := a.intColumn("Risk_Score")
	if err != nil {
		return err
	}
	claims, err := a.floatColumn("Claim_Amount")
	if err != nil {
		return err
	}
	adverse, err := a.table.Column("Adverse_Actions")
	if err != nil {
		return err
	}
	ssns, err := a.table.Column("SSN")
	if err != nil {
		return err
	}
	eins, err := a.table.Column("ssn_ein")
	if err != nil {
		return err
	}
	banks, err := a.table.Column("BANK")
	if err != nil {
		return err
	}

	divider := strings.Repeat("=", 70)
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "SYNTHETIC HEALTHCARE DATASET DISTRIBUTION ANALYSIS")
	fmt.Fprintln(w, divider)

	fmt.Fprintf(w, "\n1. DATASET SIZE:\n")
	fmt.Fprintf(w, "   Total records: %s\n", comma(total))
	fmt.Fprintf(w, "   Total columns: %d\n", len(a.table.Header()))

	fmt.Fprintf(w, "\n2. PROVIDER TYPE DISTRIBUTION:\n")
	a.writeCounts(w, countValues(providerTypes), total)

	fmt.Fprintf(w, "\n3. RISK SCORE DISTRIBUTION:\n")
	for _, vc := range countInts(riskScores) {
		fmt.Fprintf(w, "   Risk Score %2d: %8s (%5.2f%%)\n", vc.score, comma(vc.count), pct(vc.count, total))
	}

	fmt.Fprintf(w, "\n4. CLAIM AMOUNT STATISTICS:\n")
	if err := writeClaimStats(w, claims); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n5. ADVERSE ACTIONS DISTRIBUTION:\n")
	a.writeCounts(w, countValues(adverse), total)

	fmt.Fprintf(w, "\n6. BOARD CERTIFICATION:\n")
	if err := a.writeColumnCounts(w, "Board_Certification", total); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n7. REASSIGNMENT OF BENEFITS:\n")
	if err := a.writeColumnCounts(w, "Reassignment_Of_Benefits", total); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n8. TOP 10 LICENSE STATES:\n")
	states, err := a.table.Column("License_State")
	if err != nil {
		return err
	}
	a.writeCounts(w, top(countValues(states), 10), total)

	fmt.Fprintf(w, "\n9. TOP 10 SPECIALTY CODES:\n")
	specialties, err := a.table.Column("Specialty_Code")
	if err != nil {
		return err
	}
	a.writeCounts(w, top(countValues(specialties), 10), total)

	fmt.Fprintf(w, "\n10. BILLING AGENCY:\n")
	agencies, err := a.table.Column("Billing_Agency")
	if err != nil {
		return err
	}
	hasBilling := countNonBlank(agencies)
	fmt.Fprintf(w, "   Has Billing Agency:  %8s (%5.2f%%)\n", comma(hasBilling), pct(hasBilling, total))
	fmt.Fprintf(w, "   No Billing Agency:   %8s (%5.2f%%)\n", comma(total-hasBilling), pct(total-hasBilling, total))

	ssnDups := duplicatedMask(ssns)
	einDups := duplicatedMask(eins)
	bankDups := duplicatedMask(banks)
	fmt.Fprintf(w, "\n11. DUPLICATE ANALYSIS:\n")
	fmt.Fprintf(w, "   Duplicate SSN:       %8s (%5.2f%%)\n", comma(countTrue(ssnDups)), pct(countTrue(ssnDups), total))
	fmt.Fprintf(w, "   Duplicate EIN:       %8s (%5.2f%%)\n", comma(countTrue(einDups)), pct(countTrue(einDups), total))
	fmt.Fprintf(w, "   Shared Bank Accts:   %8s (%5.2f%%)\n", comma(countTrue(bankDups)), pct(countTrue(bankDups), total))

	highClaim, err := highClaimMask(claims)
	if err != nil {
		return err
	}
	highRisk := 0
	adverseHits := 0
	idDups := 0
	fraudCount := 0
	for i := 0; i < total; i++ {
		risky := riskScores[i] > riskScoreFloor
		flagged := adverseFraudActions[adverse[i]]
		duplicated := ssnDups[i] || einDups[i]
		if risky {
			highRisk++
		}
		if flagged {
			adverseHits++
		}
		if duplicated {
			idDups++
		}
		if risky || flagged || duplicated || bankDups[i] || highClaim[i] {
			fraudCount++
		}
	}

	fmt.Fprintf(w, "\n12. FRAUD LABEL DISTRIBUTION (Based on indicators):\n")
	fmt.Fprintf(w, "   Fraudulent:          %8s (%5.2f%%)\n", comma(fraudCount), pct(fraudCount, total))
	fmt.Fprintf(w, "   Legitimate:          %8s (%5.2f%%)\n", comma(total-fraudCount), pct(total-fraudCount, total))
	fmt.Fprintf(w, "\n   Fraud Breakdown by Indicator:\n")
	fmt.Fprintf(w, "   - High Risk Score (>%d):     %8s\n", riskScoreFloor, comma(highRisk))
	fmt.Fprintf(w, "   - Adverse Actions:           %8s\n", comma(adverseHits))
	fmt.Fprintf(w, "   - Duplicate SSN/EIN:         %8s\n", comma(idDups))
	fmt.Fprintf(w, "   - Shared Bank Accounts:      %8s\n", comma(countTrue(bankDups)))
	fmt.Fprintf(w, "   - High Claims (top %d%%):      %8s\n", 100-claimPercentile, comma(countTrue(highClaim)))

	fmt.Fprintf(w, "\n13. ENROLLMENT DATE RANGE:\n")
	if err := a.writeEnrollmentRange(w); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n14. GENDER DISTRIBUTION (Individuals only):\n")
	genders, err := a.table.Column("Gender")
	if err != nil {
		return err
	}
	individual := filterBy(providerTypes, record.TypeIndividual, genders)
	a.writeCounts(w, countValues(individual), len(individual))

	fmt.Fprintf(w, "\n15. OWNERSHIP TYPE DISTRIBUTION (Organizations only):\n")
	ownership, err := a.table.Column("Ownership_Type")
	if err != nil {
		return err
	}
	orgs := filterBy(providerTypes, record.TypeOrganization, ownership)
	a.writeCounts(w, countValues(orgs), len(orgs))

	fmt.Fprintf(w, "\n16. UNIQUE VALUES:\n")
	fmt.Fprintf(w, "   Unique Banks:        %8s\n", comma(uniqueNonBlank(banks)))
	fmt.Fprintf(w, "   Unique Billing Agencies: %8s\n", comma(uniqueNonBlank(agencies)))
	fmt.Fprintf(w, "   Unique States:       %8s\n", comma(uniqueNonBlank(states)))
	fmt.Fprintf(w, "   Unique Specialties:  %8s\n", comma(uniqueNonBlank(specialties)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	return nil
}

func writeClaimStats(w io.Writer, claims []float64) error {
	data := stats.Float64Data(claims)
	mean, err := stats.Mean(data)
	if err != nil {
		return fmt.Errorf("claim amount stats: %w", err)
	}
	median, _ := stats.Median(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	p25, _ := stats.Percentile(data, 25)
	p75, _ := stats.Percentile(data, 75)
	p95, _ := stats.Percentile(data, claimPercentile)

	// Sample (n-1) standard deviation.
	stddev := 0.0
	if len(claims) > 1 {
		stddev, _ = stats.StandardDeviationSample(data)
	}

	fmt.Fprintf(w, "   Mean:       %s\n", money(mean))
	fmt.Fprintf(w, "   Median:     %s\n", money(median))
	fmt.Fprintf(w, "   Std Dev:    %s\n", money(stddev))
	fmt.Fprintf(w, "   Min:        %s\n", money(min))
	fmt.Fprintf(w, "   Max:        %s\n", money(max))
	fmt.Fprintf(w, "   25th pct:   %s\n", money(p25))
	fmt.Fprintf(w, "   75th pct:   %s\n", money(p75))
	fmt.Fprintf(w, "   95th pct:   %s\n", money(p95))
	return nil
}

func (a *Analyzer) writeEnrollmentRange(w io.Writer) error {
	values, err := a.table.Column("Enrollment_Date")
	if err != nil {
		return err
	}
	var earliest, latest time.Time
	for _, v := range values {
		if v == "" {
			continue
		}
		parsed, err := time.Parse(profile.DateLayout, v)
		if err != nil {
			return fmt.Errorf("bad Enrollment_Date %q: %w", v, err)
		}
		if earliest.IsZero() || parsed.Before(earliest) {
			earliest = parsed
		}
		if latest.IsZero() || parsed.After(latest) {
			latest = parsed
		}
	}
	if earliest.IsZero() {
		fmt.Fprintln(w, "   No enrollment dates present")
		return nil
	}
	spanDays := int(latest.Sub(earliest).Hours() / 24)
	fmt.Fprintf(w, "   Earliest: %s\n", earliest.Format("2006-01-02"))
	fmt.Fprintf(w, "   Latest:   %s\n", latest.Format("2006-01-02"))
	fmt.Fprintf(w, "   Span:     %d days (%.1f years)\n", spanDays, float64(spanDays)/365)
	return nil
}

func (a *Analyzer) writeColumnCounts(w io.Writer, column string, total int) error {
	values, err := a.table.Column(column)
	if err != nil {
		return err
	}
	a.writeCounts(w, countValues(values), total)
	return nil
}

func (a *Analyzer) writeCounts(w io.Writer, counts []valueCount, total int) {
	for _, vc := range counts {
		label := vc.value
		if label == "" {
			label = "(blank)"
		}
		fmt.Fprintf(w, "   %-20s: %8s (%5.2f%%)\n", label, comma(vc.count), pct(vc.count, total))
	}
}

func (a *Analyzer) intColumn(name string) ([]int, error) {
	values, err := a.table.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad %s value %q: %w", name, v, err)
		}
		out[i] = n
	}
	return out, nil
}

func (a *Analyzer) floatColumn(name string) ([]float64, error) {
	values, err := a.table.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad %s value %q: %w", name, v, err)
		}
		out[i] = f
	}
	return out, nil
}

// highClaimMask marks claims strictly above the fraud percentile.
func highClaimMask(claims []float64) ([]bool, error) {
	threshold, err := stats.Percentile(stats.Float64Data(claims), claimPercentile)
	if err != nil {
		return nil, fmt.Errorf("claim percentile: %w", err)
	}
	mask := make([]bool, len(claims))
	for i, v := range claims {
		mask[i] = v > threshold
	}
	return mask, nil
}

type valueCount struct {
	value string
	count int
}

// countValues tallies values sorted by count descending; ties keep first
// appearance order so the report is stable across runs.
func countValues(values []string) []valueCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]valueCount, 0, len(order))
	for _, v := range order {
		out = append(out, valueCount{value: v, count: counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	return out
}

// top keeps the n highest-count entries.
func top(counts []valueCount, n int) []valueCount {
	if len(counts) <= n {
		return counts
	}
	return counts[:n]
}

type scoreCount struct {
	score int
	count int
}

// countInts tallies integer values sorted ascending by value.
func countInts(values []int) []scoreCount {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}
	scores := make([]int, 0, len(counts))
	for score := range counts {
		scores = append(scores, score)
	}
	sort.Ints(scores)
	out := make([]scoreCount, 0, len(scores))
	for _, score := range scores {
		out = append(out, scoreCount{score: score, count: counts[score]})
	}
	return out
}

// duplicatedMask marks every row whose non-blank value occurs more than once.
func duplicatedMask(values []string) []bool {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = v != "" && counts[v] > 1
	}
	return mask
}

// filterBy returns the target values of rows whose key matches want.
func filterBy(keys []string, want string, targets []string) []string {
	out := make([]string, 0)
	for i, k := range keys {
		if k == want {
			out = append(out, targets[i])
		}
	}
	return out
}

func countNonBlank(values []string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

func uniqueNonBlank(values []string) int {
	seen := make(map[string]struct{})
	for _, v := range values {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func countTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// comma renders an integer with thousands separators.
func comma(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + comma(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// money renders a dollar amount with separators and two decimals.
func money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := int(v)
	cents := int((v-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s$%s.%02d", sign, comma(whole), cents)
}
