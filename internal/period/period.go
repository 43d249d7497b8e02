// =============================================================================
// Challan Generator - Billing Periods
// =============================================================================
//
// A Period is either a single month-year or an inclusive range of
// month-years that may cross one or more year boundaries.
//
// LABELS:
//   single              : "November 2025"
//   same-year range     : "January, February - 2026"
//   cross-year range    : "November, December - 2025 and January, February - 2026"
//
// =============================================================================

package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MonthYear identifies one billing month.
type MonthYear struct {
	Month time.Month
	Year  int
}

// Of builds a MonthYear from a time.
func Of(t time.Time) MonthYear {
	return MonthYear{Month: t.Month(), Year: t.Year()}
}

// Next returns the following month, wrapping December into January.
func (m MonthYear) Next() MonthYear {
	if m.Month == time.December {
		return MonthYear{Month: time.January, Year: m.Year + 1}
	}
	return MonthYear{Month: m.Month + 1, Year: m.Year}
}

// Before reports whether m is strictly earlier than o.
func (m MonthYear) Before(o MonthYear) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Valid reports whether the month is in range and the year is plausible.
func (m MonthYear) Valid() bool {
	return m.Month >= time.January && m.Month <= time.December && m.Year >= 1900 && m.Year <= 9999
}

// String renders "November 2025".
func (m MonthYear) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Short renders the abbreviated column label form, "Nov-25".
func (m MonthYear) Short() string {
	return fmt.Sprintf("%s-%02d", m.Month.String()[:3], m.Year%100)
}

// =============================================================================
// PERIOD
// =============================================================================

// Period is an inclusive range of months. A single month has From == To.
type Period struct {
	From MonthYear
	To   MonthYear
}

// Single returns the period covering exactly one month.
func Single(m MonthYear) Period {
	return Period{From: m, To: m}
}

// Range returns the inclusive period between from and to.
func Range(from, to MonthYear) (Period, error) {
	if !from.Valid() || !to.Valid() {
		return Period{}, fmt.Errorf("invalid period %s to %s", from, to)
	}
	if to.Before(from) {
		return Period{}, fmt.Errorf("period end %s is before start %s", to, from)
	}
	return Period{From: from, To: to}, nil
}

// IsSingle reports whether the period covers one month.
func (p Period) IsSingle() bool {
	return p.From == p.To
}

// Months lists every month in the period, in order.
func (p Period) Months() []MonthYear {
	var months []MonthYear
	for m := p.From; !p.To.Before(m); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// byYear groups the months of the period by calendar year, in order.
func (p Period) byYear() (years []int, names map[int][]string) {
	names = make(map[int][]string)
	for _, m := range p.Months() {
		if _, ok := names[m.Year]; !ok {
			years = append(years, m.Year)
		}
		names[m.Year] = append(names[m.Year], m.Month.String())
	}
	return years, names
}

// Label renders the human-readable period label.
func (p Period) Label() string {
	if p.IsSingle() {
		return p.From.String()
	}

	years, names := p.byYear()
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%s - %d", strings.Join(names[y], ", "), y)
	}
	return strings.Join(parts, " and ")
}

// MonthText is the month part printed by the template.
func (p Period) MonthText() string {
	if p.IsSingle() {
		return p.From.Month.String()
	}

	years, names := p.byYear()
	if len(years) == 1 {
		return strings.Join(names[years[0]], ", ")
	}
	return p.Label()
}

// YearText is the year part printed by the template.
func (p Period) YearText() string {
	if p.From.Year == p.To.Year {
		return strconv.Itoa(p.From.Year)
	}
	return fmt.Sprintf("%d-%d", p.From.Year, p.To.Year)
}

// String implements fmt.Stringer.
func (p Period) String() string {
	return p.Label()
}

// =============================================================================
// PARSING
// =============================================================================

// labelPattern matches "Nov-25", "Nov 25", "NOV25", "Nov-2025",
// "November 2025", "November, 2025" and "Nov'25".
var labelPattern = regexp.MustCompile(`^([A-Za-z]{3,9})[\s\-_,'./]*(\d{2}|\d{4})$`)

// numericPattern matches "11/2025", "11-2025", "2025-11" and "2025/11".
var numericPattern = regexp.MustCompile(`^(\d{1,4})[\-/.](\d{1,4})$`)

// ParseMonth resolves an English month name or its three-letter
// abbreviation, case-insensitively.
func ParseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return time.Month(n), n >= 1 && n <= 12
	}
	if len(s) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		// "sept" and "sep" both resolve to September.
		if strings.HasPrefix(strings.ToLower(m.String()), s) {
			return m, true
		}
	}
	return 0, false
}

// ParseLabel parses a textual month-year label such as "Nov-25" or
// "November 2025". Two-digit years are taken as 20xx.
func ParseLabel(s string) (MonthYear, bool) {
	s = strings.TrimSpace(s)

	if m := labelPattern.FindStringSubmatch(s); m != nil {
		month, ok := ParseMonth(m[1])
		if !ok {
			return MonthYear{}, false
		}
		return MonthYear{Month: month, Year: expandYear(m[2])}, true
	}

	if m := numericPattern.FindStringSubmatch(s); m != nil {
		a, b := m[1], m[2]
		if len(a) == 4 {
			a, b = b, a
		}
		if len(b) != 4 {
			return MonthYear{}, false
		}
		month, ok := ParseMonth(a)
		if !ok {
			return MonthYear{}, false
		}
		year, _ := strconv.Atoi(b)
		return MonthYear{Month: month, Year: year}, true
	}

	return MonthYear{}, false
}

// MustParseLabel is ParseLabel for fixtures and tests.
func MustParseLabel(s string) MonthYear {
	m, ok := ParseLabel(s)
	if !ok {
		panic(fmt.Sprintf("period: cannot parse %q", s))
	}
	return m
}

// Parse builds a period from a start label and an optional end label.
func Parse(from, to string) (Period, error) {
	start, ok := ParseLabel(from)
	if !ok {
		return Period{}, fmt.Errorf("cannot parse period '%s'", from)
	}
	if strings.TrimSpace(to) == "" {
		return Single(start), nil
	}
	end, ok := ParseLabel(to)
	if !ok {
		return Period{}, fmt.Errorf("cannot parse period '%s'", to)
	}
	return Range(start, end)
}

func expandYear(s string) int {
	year, _ := strconv.Atoi(s)
	if len(s) == 2 {
		year += 2000
	}
	return year
}
