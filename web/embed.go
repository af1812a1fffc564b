package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// Templates parses the embedded page templates with the view helpers.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(TemplatesFS, "templates/*.html")
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":       Money,
		"deref":       deref,
		"statusClass": statusClass,
		"isNegative":  func(d decimal.Decimal) bool { return d.IsNegative() },
		"isPositive":  func(d decimal.Decimal) bool { return d.IsPositive() },
	}
}

// Money renders an amount as dollars with two decimals.
func Money(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusClass(status interface{}) string {
	return "status status-" + strings.ToLower(fmt.Sprint(status))
}
