package labeling

import (
	"regexp"
	"strings"

	"github.com/sewflow/backend/internal/domain/shared"
)

// GS1GroupSeparator is the FNC1 group separator character inside GS1 payloads.
// Scanners and text layers often replace it with a pipe for display.
const GS1GroupSeparator = "\x1d"

var (
	gtinParenRe = regexp.MustCompile(`\(01\)(\d{14})`)
	gtinBareRe  = regexp.MustCompile(`01(\d{14})`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// RestoreGroupSeparators converts display pipes back into FNC1 separators
// so a re-encoded symbol scans identically to the original.
func RestoreGroupSeparators(payload string) string {
	return strings.ReplaceAll(payload, "|", GS1GroupSeparator)
}

// EAN13CheckDigit computes the check digit for a 12-digit EAN-13 body using
// the alternating 1,3 weight mod-10 scheme.
func EAN13CheckDigit(body string) (int, error) {
	if len(body) != 12 || !digitsRe.MatchString(body) {
		return 0, shared.NewDomainError("INVALID_BARCODE", "EAN-13 body must be exactly 12 digits")
	}
	sum := 0
	for i, r := range body {
		d := int(r - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return (10 - sum%10) % 10, nil
}

// NormalizeEAN13 accepts a 12- or 13-digit numeric code and returns the full
// 13-digit EAN-13. A 12-digit input gets its check digit appended.
func NormalizeEAN13(code string) (string, error) {
	code = strings.TrimSpace(code)
	if !digitsRe.MatchString(code) {
		return "", shared.NewDomainError("INVALID_BARCODE", "barcode must be numeric")
	}
	switch len(code) {
	case 13:
		return code, nil
	case 12:
		check, err := EAN13CheckDigit(code)
		if err != nil {
			return "", err
		}
		return code + string(rune('0'+check)), nil
	default:
		return "", shared.NewDomainError("INVALID_BARCODE", "barcode must be 12 or 13 digits")
	}
}

// ExtractEAN13FromGS1 derives an EAN-13 from the AI 01 GTIN-14 inside a GS1
// payload. Only GTIN-14 values with a leading zero map onto EAN-13: the zero
// is stripped and the check digit recomputed over the remaining 12 digits.
// Returns an empty string when the payload carries no usable GTIN.
func ExtractEAN13FromGS1(payload string) string {
	compact := spaceRe.ReplaceAllString(payload, "")
	var gtin string
	if m := gtinParenRe.FindStringSubmatch(compact); m != nil {
		gtin = m[1]
	} else if m := gtinBareRe.FindStringSubmatch(compact); m != nil {
		gtin = m[1]
	}
	if gtin == "" || gtin[0] != '0' {
		return ""
	}
	body := gtin[1:13]
	check, err := EAN13CheckDigit(body)
	if err != nil {
		return ""
	}
	return body + string(rune('0'+check))
}
