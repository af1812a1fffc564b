package web

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$35.00", Money(decimal.NewFromInt(35)))
	assert.Equal(t, "-$15.50", Money(decimal.RequireFromString("-15.5")))
	assert.Equal(t, "$0.00", Money(decimal.RequireFromString("-0.004")))
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{"dashboard.html", "invoice.html", "reports.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}
