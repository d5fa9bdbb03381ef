package bot

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DialogType is the verdict on the modal that opens after clicking the price
// adjustment button.
type DialogType string

const (
	DialogSuccess DialogType = "success"
	DialogFailure DialogType = "failure"
	DialogUnknown DialogType = "unknown"
)

// Failure phrases checked before success phrases so a rejection that happens
// to mention "price adjustment" still classifies as a failure. Both English
// and Portuguese storefronts are covered.
var failureIndicators = compileAll(
	`sorry,? you cannot request`,
	`not eligible for price adjustment`,
	`exact same specifications`,
	`same seller`,
	`desculpe,? você não pode solicitar`,
	`não é elegível para ajuste`,
	`mesmas especificações`,
	`mesmo vendedor`,
	`items that are sold out`,
	`discontinued`,
	`out of stock`,
	`no longer available`,
	`refunded`,
	`refund/return`,
)

var successIndicators = compileAll(
	`request a price adjustment`,
	`select refund method`,
	`price adjustment`,
	`refund amount`,
	`reembolso`,
	`ajuste de preço`,
	`solicitar ajuste`,
	`selecionar método`,
)

// Structural markers of the rejection modal, used when the dialog text
// matches no known phrase. Any two of the three is treated as a failure.
var failureClassMarkers = []string{"_39vL3TE4", "_10EiyDKr", "_2OaJDN8Y"}

// ClassifyDialog decides whether a dialog offers the adjustment form or
// rejects the request. Keyword matches on the dialog text win; when neither
// set matches, the page markup is scanned for the rejection modal's class
// markers as a language-independent fallback.
func ClassifyDialog(text, pageHTML string) DialogType {
	lowered := strings.ToLower(text)

	for _, re := range failureIndicators {
		if re.MatchString(lowered) {
			return DialogFailure
		}
	}
	for _, re := range successIndicators {
		if re.MatchString(lowered) {
			return DialogSuccess
		}
	}

	if countClassMarkers(pageHTML) >= 2 {
		return DialogFailure
	}

	return DialogUnknown
}

func countClassMarkers(pageHTML string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return 0
	}

	found := 0
	for _, marker := range failureClassMarkers {
		if doc.Find("."+marker).Length() > 0 {
			found++
		}
	}
	return found
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
