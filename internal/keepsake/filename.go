package keepsake

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9\s]+`)

const fallbackName = "Recipient"

// SanitizeName reduces s to ASCII letters and digits joined by underscores.
// Accents are folded ("Zoë" becomes "Zoe"); everything else is dropped.
func SanitizeName(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	words := strings.Fields(nonAlphanumeric.ReplaceAllString(folded, ""))
	if len(words) == 0 {
		return fallbackName
	}
	return strings.Join(words, "_")
}

// Filename is <brand>_<recipient>_<YYYYMMDD>.pdf.
func Filename(brand, recipient string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf", SanitizeName(brand), SanitizeName(recipient), at.Format("20060102"))
}
