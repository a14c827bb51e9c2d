package checkout

import (
	"strconv"
	"strings"
)

var wordsUnits = []string{"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE"}

var wordsTens = []string{
	"", "DIEZ", "VEINTE", "TREINTA", "CUARENTA",
	"CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var wordsTeens = []string{
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE",
	"QUINCE", "DIECISÉIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE",
}

var wordsHundreds = []string{
	"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS",
	"QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}

// AmountToWords spells the whole-sol amount in uppercase Spanish. It covers
// 0 through 999; larger amounts fall back to plain digits, matching the
// receipts the store already prints.
func AmountToWords(n int) string {
	if n == 0 {
		return "CERO"
	}
	if n >= 1000 || n < 0 {
		return strconv.Itoa(n)
	}

	result := ""
	if n >= 100 {
		if n == 100 {
			result = "CIEN "
		} else {
			result = wordsHundreds[n/100] + " "
		}
	}

	rest := n % 100
	switch {
	case rest >= 10 && rest <= 19:
		result += wordsTeens[rest-10]
	case rest >= 20:
		result += wordsTens[rest/10]
		if rest%10 > 0 {
			result += " Y " + wordsUnits[rest%10]
		}
	case rest > 0:
		result += wordsUnits[rest]
	}

	trimmed := strings.TrimSpace(result)
	if trimmed == "" {
		return "CERO"
	}
	return trimmed
}
