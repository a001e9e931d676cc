package web

import (
	"html/template"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var funcs = template.FuncMap{
	"usd":    USD,
	"number": Number,
	"navURL": func(id int64) string { return "/inv/type/" + strconv.FormatInt(id, 10) },
	"idstr":  func(id int64) string { return strconv.FormatInt(id, 10) },
}

// USD formats an amount as en-US currency, e.g. $25,000.00.
func USD(amount float64) string {
	if amount < 0 {
		return "-" + printer.Sprintf("$%.2f", -amount)
	}
	return printer.Sprintf("$%.2f", amount)
}

// Number adds thousands separators, e.g. 12345 -> 12,345.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}
