// Package phone converts between canonical E.164 storage and an editable
// dial-code/national-number pair, plus a display-only pretty printer.
package phone

import (
	"regexp"
	"sort"
	"strings"
)

// Parts is the editable decomposition of a stored E.164 number. DialCode
// holds the country calling code digits without the leading "+".
type Parts struct {
	DialCode string
	National string
}

// e164Pattern: leading "+", 8-15 digits total, first digit 1-9.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// IsValid reports whether s is a syntactically valid E.164 number.
func IsValid(s string) bool {
	return e164Pattern.MatchString(s)
}

// dialCodes is the fixed table of recognized country calling codes. Matching
// always prefers the longest prefix so three-digit codes are never shadowed
// by their one-digit ancestors (e.g. +234 vs +2).
var dialCodes = []string{
	"1", "7",
	"20", "27", "30", "31", "32", "33", "34", "36", "39",
	"40", "41", "43", "44", "45", "46", "47", "48", "49",
	"51", "52", "53", "54", "55", "56", "57", "58",
	"60", "61", "62", "63", "64", "65", "66",
	"81", "82", "84", "86", "90", "91", "92", "93", "94", "95", "98",
	"211", "212", "213", "216", "218", "220", "221", "222", "223", "224",
	"225", "226", "227", "228", "229", "230", "231", "232", "233", "234",
	"235", "236", "237", "238", "239", "240", "241", "242", "243", "244",
	"245", "246", "248", "249", "250", "251", "252", "253", "254", "255",
	"256", "257", "258", "260", "261", "262", "263", "264", "265", "266",
	"267", "268", "269",
	"290", "291", "297", "298", "299",
	"350", "351", "352", "353", "354", "355", "356", "357", "358", "359",
	"370", "371", "372", "373", "374", "375", "376", "377", "378", "380",
	"381", "382", "383", "385", "386", "387", "389",
	"420", "421", "423",
	"500", "501", "502", "503", "504", "505", "506", "507", "508", "509",
	"590", "591", "592", "593", "594", "595", "596", "597", "598", "599",
	"670", "672", "673", "674", "675", "676", "677", "678", "679",
	"680", "681", "682", "683", "685", "686", "687", "688", "689",
	"690", "691", "692",
	"850", "852", "853", "855", "856", "880", "886",
	"960", "961", "962", "963", "964", "965", "966", "967", "968",
	"970", "971", "972", "973", "974", "975", "976", "977",
	"992", "993", "994", "995", "996", "998",
}

var dialCodesByLength = func() []string {
	sorted := append([]string(nil), dialCodes...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}()

// Decompose splits an E.164 string into its dial code and national digits.
// It returns false when the input does not start with "+" or no known dial
// code matches. Non-digit characters in the national remainder are dropped.
func Decompose(e164 string) (Parts, bool) {
	trimmed := strings.TrimSpace(e164)
	if !strings.HasPrefix(trimmed, "+") {
		return Parts{}, false
	}
	rest := trimmed[1:]
	for _, code := range dialCodesByLength {
		if strings.HasPrefix(rest, code) {
			return Parts{
				DialCode: code,
				National: digitsOnly(rest[len(code):]),
			}, true
		}
	}
	return Parts{}, false
}

// Compose rebuilds canonical E.164 storage from a dial code (with or without
// a leading "+") and a raw national number. Non-digits are stripped from
// both parts.
func Compose(dialCode, rawNational string) string {
	return "+" + digitsOnly(dialCode) + digitsOnly(rawNational)
}

// Format pretty-prints an E.164 number for display: the dial code followed
// by the national digits in groups of three (a trailing single digit merges
// into the previous group). Storage and validation never use this form. If
// the input cannot be decomposed it is returned unchanged.
func Format(e164 string) string {
	parts, ok := Decompose(e164)
	if !ok {
		return e164
	}
	groups := groupDigits(parts.National)
	if len(groups) == 0 {
		return "+" + parts.DialCode
	}
	return "+" + parts.DialCode + " " + strings.Join(groups, " ")
}

func groupDigits(digits string) []string {
	var groups []string
	for i := 0; i < len(digits); i += 3 {
		end := i + 3
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	if n := len(groups); n > 1 && len(groups[n-1]) == 1 {
		groups[n-2] += groups[n-1]
		groups = groups[:n-1]
	}
	return groups
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
