package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSample = `package billing

import "time"

// Invoice is one billable statement.
type Invoice struct {
	ID     string
	Amount int64
	Due    time.Time
}

type (
	// Currency is an ISO 4217 code.
	Currency string
	rateTable map[Currency]float64
)

// NewInvoice builds an empty invoice.
func NewInvoice(id string) *Invoice {
	return &Invoice{ID: id}
}

func (i *Invoice) Total() int64 {
	return i.Amount
}

func (r rateTable) lookup(c Currency) float64 {
	return r[c]
}
`

func TestExtractGo(t *testing.T) {
	file := SourceFile{Path: "billing/invoice.go", RelPath: "billing/invoice.go", Language: LanguageGo}

	data, err := extractGo(file, []byte(goSample), "billing")
	require.NoError(t, err)

	byName := make(map[string]int)
	for i, d := range data {
		byName[d.Name] = i
	}

	require.Contains(t, byName, "Invoice")
	require.Contains(t, byName, "Currency")
	require.Contains(t, byName, "rateTable")
	require.Contains(t, byName, "NewInvoice")
	require.Contains(t, byName, "Total")
	require.Contains(t, byName, "lookup")

	invoice := data[byName["Invoice"]]
	assert.Equal(t, "Invoice is one billable statement.", invoice.Docstring)
	assert.Contains(t, invoice.SourceCode, "// Invoice is one billable statement.")
	assert.Contains(t, invoice.SourceCode, "Amount int64")
	assert.Empty(t, invoice.ParentName)

	currency := data[byName["Currency"]]
	assert.Equal(t, "Currency is an ISO 4217 code.", currency.Docstring)
	assert.NotContains(t, currency.SourceCode, "rateTable", "grouped specs are sliced individually")

	constructor := data[byName["NewInvoice"]]
	assert.Equal(t, "NewInvoice builds an empty invoice.", constructor.Docstring)
	assert.Empty(t, constructor.ParentName)

	total := data[byName["Total"]]
	assert.Equal(t, "Invoice", total.ParentName)
	assert.Empty(t, total.Docstring)

	lookup := data[byName["lookup"]]
	assert.Equal(t, "rateTable", lookup.ParentName)
}

func TestExtractGoInvalidSource(t *testing.T) {
	file := SourceFile{Path: "x.go", RelPath: "x.go", Language: LanguageGo}

	_, err := extractGo(file, []byte("package x\nfunc {"), "demo")
	assert.Error(t, err)
}
