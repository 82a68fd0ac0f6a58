package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	monthRe    = regexp.MustCompile(`^\d{4}-\d{2}$`)
	nameRe     = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	nameJunkRe = regexp.MustCompile(`^[\s\-'.]+$`)
	categoryRe = regexp.MustCompile(`[<>"']`)
	tagNameRe  = regexp.MustCompile(`^[a-z0-9\-_]+$`)
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	phoneSepRe = regexp.MustCompile(`[\s\-()+]`)
	digitsRe   = regexp.MustCompile(`^\d+$`)

	titleCaser = cases.Title(language.English)
)

// Month is a calendar year-month period, the unit for budgets and reports.
type Month struct {
	Year int
	Mon  time.Month
}

// ParseMonth parses a "YYYY-MM" period string.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Month{}, invalid("month", "cannot be empty")
	}
	if !monthRe.MatchString(s) {
		return Month{}, invalid("month", "use YYYY-MM format (e.g. 2025-01)")
	}
	var year, mon int
	fmt.Sscanf(s, "%d-%d", &year, &mon)
	if year < 1900 || year > 2100 {
		return Month{}, invalid("month", "year must be between 1900 and 2100")
	}
	if mon < 1 || mon > 12 {
		return Month{}, invalid("month", "month must be between 01 and 12")
	}
	return Month{Year: year, Mon: time.Month(mon)}, nil
}

// MonthOf returns the period containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// Contains reports whether t falls inside the period.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Mon
}

// Start is the first instant of the period, End the first instant of the
// next one; together they bound the period as [Start, End).
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "02-01-2006", "02/01/2006"}

var (
	minDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
)

// ParseDate parses a transaction date. ISO 8601 (YYYY-MM-DD) is canonical;
// a few common day-first layouts are accepted as well.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid("date", "cannot be empty")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Before(minDate) {
			return time.Time{}, invalid("date", "is too far in the past")
		}
		if t.After(maxDate) {
			return time.Time{}, invalid("date", "is too far in the future")
		}
		return t, nil
	}
	return time.Time{}, invalid("date", "use YYYY-MM-DD format")
}

// FormatDate renders a date as ISO 8601, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ValidateEmail normalizes and structurally checks an email address.
func ValidateEmail(s string) (string, error) {
	email := strings.TrimSpace(s)
	if email == "" {
		return "", invalid("email", "cannot be empty")
	}
	if len(email) > 255 {
		return "", invalid("email", "is too long")
	}
	if !emailRe.MatchString(email) {
		return "", invalid("email", "must look like local@domain.tld")
	}
	return strings.ToLower(email), nil
}

func validateEmailString(s string) error {
	_, err := ValidateEmail(s)
	return err
}

// ValidateName normalizes a person or goal name to title case.
func ValidateName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", invalid("name", "cannot be empty")
	}
	if len(name) < 2 {
		return "", invalid("name", "must be at least 2 characters")
	}
	if len(name) > 100 {
		return "", invalid("name", "too long (max 100 characters)")
	}
	if !nameRe.MatchString(name) || nameJunkRe.MatchString(name) {
		return "", invalid("name", "contains invalid characters")
	}
	return titleCaser.String(name), nil
}

func validateName(s string) error {
	_, err := ValidateName(s)
	return err
}

// ValidateCategory normalizes a category label to title case so that
// "groceries" and "Groceries" aggregate together.
func ValidateCategory(s string) (string, error) {
	category := strings.TrimSpace(s)
	if category == "" {
		return "", invalid("category", "cannot be empty")
	}
	if len(category) > 100 {
		return "", invalid("category", "too long (max 100 characters)")
	}
	if categoryRe.MatchString(category) {
		return "", invalid("category", "contains invalid characters")
	}
	return titleCaser.String(category), nil
}

func validateCategoryString(s string) error {
	_, err := ValidateCategory(s)
	return err
}

// ValidateDescription accepts empty descriptions and bounds the rest.
func ValidateDescription(s string) (string, error) {
	desc := strings.TrimSpace(s)
	if desc == "" {
		return "", nil
	}
	if len(desc) > 255 {
		return "", invalid("description", "too long (max 255 characters)")
	}
	if strings.ContainsAny(desc, "<>") {
		return "", invalid("description", "contains invalid characters")
	}
	return desc, nil
}

func validateDescriptionString(s string) error {
	_, err := ValidateDescription(s)
	return err
}

// DefaultTagColor is applied when no display color is given.
const DefaultTagColor = "#007bff"

// ValidateHexColor normalizes a display color to "#rrggbb" form. Empty
// input falls back to DefaultTagColor.
func ValidateHexColor(s string) (string, error) {
	color := strings.TrimSpace(s)
	if color == "" {
		return DefaultTagColor, nil
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	if !hexColorRe.MatchString(color) {
		return "", invalid("color", "use hex format like #FF0000")
	}
	return strings.ToLower(color), nil
}

// ValidatePhone accepts empty input (phone is optional) and common
// separators, requiring 7-15 digits otherwise.
func ValidatePhone(s string) (string, error) {
	phone := strings.TrimSpace(s)
	if phone == "" {
		return "", nil
	}
	cleaned := phoneSepRe.ReplaceAllString(phone, "")
	if !digitsRe.MatchString(cleaned) {
		return "", invalid("phone", "only digits and common separators allowed")
	}
	if len(cleaned) < 7 || len(cleaned) > 15 {
		return "", invalid("phone", "must be between 7 and 15 digits")
	}
	return phone, nil
}

// ParseTags splits a comma-separated tag string into a sorted, de-duplicated
// set of normalized tag names. Malformed entries are dropped, matching the
// forgiving treatment of free-form user input.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || len(tag) > 50 || !tagNameRe.MatchString(tag) {
			continue
		}
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// TruncateText shortens text to maxLen with a trailing ellipsis.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}
