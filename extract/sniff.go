package extract

import (
	"regexp"
	"strings"
	"unicode"

	"property-extractor/models"
)

var (
	currencyRe     = regexp.MustCompile(`\$\s*\d[\d,]*(?:\.\d{2})?`)
	dateTokenRe    = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	streetSuffixRe = regexp.MustCompile(`(?i)\b(?:ST|AVE|RD|DR|LN|CT|PL|WAY|BLVD|CIR|TER|HWY|STREET|AVENUE|ROAD|DRIVE|LANE|COURT|PLACE|BOULEVARD|CIRCLE|TERRACE)\b`)
	leadingNumRe   = regexp.MustCompile(`^\d+\s`)
	cityStateZipRe = regexp.MustCompile(`[A-Za-z][A-Za-z ]+,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?`)
)

// municipalityWords disqualify capitalized text from the owner-name guess;
// jurisdiction names look like person names otherwise.
var municipalityWords = []string{"county", "city", "town", "village", "township", "beach", "municipality"}

var monetaryFields = []string{
	models.FieldSalePrice,
	models.FieldAssessedValue,
	models.FieldMarketValue,
	models.FieldTaxableValue,
	models.FieldPropertyValue,
}

// SniffCell inspects one cell's text and backfills canonical fields that are
// still empty. It is the low-confidence second pass over every cell, mapped or
// not: it never overwrites a value produced by header-based mapping, and a
// token identical to an amount already captured is the same value seen again
// through a mapped cell, never a new field.
func SniffCell(text string, record models.Record) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if m := currencyRe.FindString(text); m != "" {
		for _, field := range monetaryFields {
			if record.Get(field) == m {
				return
			}
		}
		// Monetary token: first open monetary field wins, generic value last.
		switch {
		case record.Get(models.FieldSalePrice) == "":
			record.SetIfEmpty(models.FieldSalePrice, m)
		case record.Get(models.FieldAssessedValue) == "":
			record.SetIfEmpty(models.FieldAssessedValue, m)
		default:
			record.SetIfEmpty(models.FieldPropertyValue, m)
		}
		return
	}

	if m := dateTokenRe.FindString(text); m != "" {
		record.SetIfEmpty(models.FieldSaleDate, m)
		return
	}

	if m := cityStateZipRe.FindString(text); m != "" {
		record.SetIfEmpty(models.FieldMailCityStateZip, m)
		return
	}

	if leadingNumRe.MatchString(text) && streetSuffixRe.MatchString(text) {
		record.SetIfEmpty(models.FieldPropertyAddress, text)
		return
	}

	if looksLikeOwnerName(text) {
		record.SetIfEmpty(models.FieldOwnerName, text)
	}
}

func looksLikeCurrency(s string) bool {
	return currencyRe.MatchString(s)
}

func looksLikeDate(s string) bool {
	return dateTokenRe.MatchString(s)
}

// looksLikeOwnerName accepts multi-word capitalized alphabetic text that does
// not resemble an address or a jurisdiction.
func looksLikeOwnerName(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 6 {
		return false
	}
	lower := strings.ToLower(s)
	for _, w := range municipalityWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	if streetSuffixRe.MatchString(s) {
		return false
	}
	for _, word := range words {
		r := []rune(word)
		if !unicode.IsUpper(r[0]) && !unicode.IsLetter(r[0]) {
			return false
		}
		for _, c := range r {
			if !unicode.IsLetter(c) && c != '.' && c != ',' && c != '\'' && c != '-' && c != '&' {
				return false
			}
		}
	}
	return unicode.IsUpper([]rune(words[0])[0])
}
