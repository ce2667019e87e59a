package scv

// validators.go holds the per-data-type predicates. Every validator is a pure
// function over Value and is total: an absent cell always validates, because
// mandatoriness is a separate rule.

import (
	"regexp"
	"strings"
)

var (
	alphaNumericRegex = regexp.MustCompile(`^[A-Za-z0-9 '\-().,]+$`)
	alphaRegex        = regexp.MustCompile(`^[A-Za-z '\-]+$`)
	decimalRegex      = regexp.MustCompile(`^\d+\.\d+$`)
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex        = regexp.MustCompile(`^(\+|00)?[0-9]{1,15}$`)
	ibanRegex         = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	bicRegex          = regexp.MustCompile(`^[A-Z]{6}[A-Z2-9][A-NP-Z0-9]([A-Z0-9]{3})?$`)
	bfpoRegex         = regexp.MustCompile(`^BFPO\s+\d+$`)
)

// domesticJurisdictions is the allow-list for country and branch-jurisdiction
// codes: the scheme covers the UK and Gibraltar only.
var domesticJurisdictions = map[string]bool{
	"GBR": true,
	"GIB": true,
}

// IsAlphaNumeric accepts letters, digits, space, apostrophe, hyphen,
// parentheses, period and comma. Numeric values also pass: identifying fields
// such as account numbers legitimately arrive as pure numbers.
func IsAlphaNumeric(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	if _, err := v.CanonicalNumeric(); err == nil {
		return true
	}
	return alphaNumericRegex.MatchString(v.Display())
}

// IsAlpha accepts letters, space, apostrophe and hyphen only.
func IsAlpha(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	return alphaRegex.MatchString(v.Display())
}

// IsNumeric accepts digit-only values after canonicalization (spaces
// stripped, scientific and float representations collapsed to an integer
// string).
func IsNumeric(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	s, err := v.CanonicalNumeric()
	if err != nil {
		return false
	}
	return isDigits(s)
}

// IsDecimal accepts exactly one decimal point with digits on both sides.
func IsDecimal(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	return decimalRegex.MatchString(v.Display())
}

// IsValidDate accepts an 8-digit DDMMYYYY string. A 7-digit value is
// left-padded with one zero (a leading-zero day lost to numeric storage).
// Day must be 1-31, month 1-12, year 1900-2099; there is no days-per-month
// calendar check.
func IsValidDate(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	s, err := v.CanonicalNumeric()
	if err != nil {
		return false
	}
	if len(s) == 7 {
		s = "0" + s
	}
	if len(s) != 8 || !isDigits(s) {
		return false
	}
	day := int(s[0]-'0')*10 + int(s[1]-'0')
	month := int(s[2]-'0')*10 + int(s[3]-'0')
	year := 0
	for i := 4; i < 8; i++ {
		year = year*10 + int(s[i]-'0')
	}
	return day >= 1 && day <= 31 && month >= 1 && month <= 12 && year >= 1900 && year <= 2099
}

// IsValidEmail accepts a single-@ address with a dotted domain and a
// top-level segment of at least two letters.
func IsValidEmail(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	return emailRegex.MatchString(v.Display())
}

// IsValidPhone accepts an optional + or 00 prefix followed by 1-15 digits,
// after stripping spaces. Numbers that were mangled into scientific notation
// are canonicalized first.
func IsValidPhone(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	s := strings.ReplaceAll(strings.TrimSpace(v.Display()), " ", "")
	if canon, err := v.CanonicalNumeric(); err == nil {
		s = canon
	}
	return phoneRegex.MatchString(s)
}

// IsValidIBAN accepts two letters, two digits, then 11-30 alphanumerics;
// case- and space-insensitive.
func IsValidIBAN(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	clean := strings.ReplaceAll(v.Upper(), " ", "")
	return ibanRegex.MatchString(clean)
}

// IsValidBIC accepts an 8 or 11 character SWIFT code.
func IsValidBIC(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	return bicRegex.MatchString(v.Upper())
}

// IsASCIIRange accepts values whose every character falls in code points
// 32-127.
func IsASCIIRange(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	for _, r := range v.Display() {
		if r < 32 || r > 127 {
			return false
		}
	}
	return true
}

// IsValidCountryCode accepts the domestic jurisdiction codes only.
func IsValidCountryCode(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	return domesticJurisdictions[v.Upper()]
}

// IsValidBFPO accepts a "BFPO <number>" forces address.
func IsValidBFPO(v Value) bool {
	if v.IsAbsent() {
		return true
	}
	return bfpoRegex.MatchString(v.Upper())
}

// typeValidator returns the predicate for a catalog data type.
func typeValidator(t DataType) func(Value) bool {
	switch t {
	case TypeAlphaNumeric:
		return IsAlphaNumeric
	case TypeAlpha:
		return IsAlpha
	case TypeNumeric:
		return IsNumeric
	case TypeDecimal:
		return IsDecimal
	case TypeEmail:
		return IsValidEmail
	case TypePhone:
		return IsValidPhone
	case TypeIBAN:
		return IsValidIBAN
	case TypeBIC:
		return IsValidBIC
	case TypeASCII:
		return IsASCIIRange
	case TypeDate:
		return IsValidDate
	default:
		return func(Value) bool { return true }
	}
}

// typeFailureReason is the verdict wording for a failed type check.
func typeFailureReason(t DataType) string {
	if t == TypeDate {
		return "Invalid Date Format (Should be DDMMYYYY)"
	}
	return "Invalid " + t.String() + " Format"
}
