package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kotlinSample = `package com.acme.billing

import com.acme.core.Entity

@Entity
data class Invoice(val id: String) : Entity() {
    fun total(): Long {
        return 0
    }
}

object Rates {
    val table = mapOf<String, Double>()
}

fun topLevel(amount: Long): Long {
    return amount * 2
}

fun expressionBody(amount: Long): Long = amount + 1
`

func TestExtractKotlin(t *testing.T) {
	file := SourceFile{Path: "billing/Invoice.kt", RelPath: "billing/Invoice.kt", Language: LanguageKotlin}

	data := extractBraces(file, []byte(kotlinSample), "billing", LanguageKotlin)

	names := make(map[string]int)
	for i, d := range data {
		names[d.Name] = i
	}

	require.Contains(t, names, "Invoice")
	require.Contains(t, names, "Rates")
	require.Contains(t, names, "topLevel")
	require.Contains(t, names, "expressionBody")
	assert.NotContains(t, names, "total", "member functions stay with their class")

	invoice := data[names["Invoice"]]
	assert.Contains(t, invoice.SourceCode, "@Entity")
	assert.Contains(t, invoice.SourceCode, "fun total()")

	expr := data[names["expressionBody"]]
	assert.Equal(t, "fun expressionBody(amount: Long): Long = amount + 1", expr.SourceCode)
}

const javaSample = `package com.acme;

public class Billing {
    public long total() {
        return 0;
    }

    static class Nested {
        int x;
    }
}
`

func TestExtractJava(t *testing.T) {
	file := SourceFile{Path: "src/Billing.java", RelPath: "src/Billing.java", Language: LanguageJava}

	data := extractBraces(file, []byte(javaSample), "acme", LanguageJava)

	names := make(map[string]int)
	for i, d := range data {
		names[d.Name] = i
	}

	require.Contains(t, names, "Billing")
	require.Contains(t, names, "Nested")
	assert.NotContains(t, names, "total", "Java methods are never standalone")

	billing := data[names["Billing"]]
	assert.Contains(t, billing.SourceCode, "public long total()")
}

const jsSample = `import { api } from "./api";

export class Cart {
  checkout() {
    return api.post("/checkout");
  }
}

export async function loadCart(id) {
  return api.get("/cart/" + id);
}

const arrow = () => 42;
`

func TestExtractJavaScript(t *testing.T) {
	file := SourceFile{Path: "web/cart.js", RelPath: "web/cart.js", Language: LanguageJavaScript}

	data := extractBraces(file, []byte(jsSample), "web", LanguageJavaScript)

	names := make(map[string]int)
	for i, d := range data {
		names[d.Name] = i
	}

	require.Contains(t, names, "Cart")
	require.Contains(t, names, "loadCart")
	assert.NotContains(t, names, "checkout", "methods stay with their class")
	assert.NotContains(t, names, "arrow", "arrow functions are not declarations")
}

func TestBraceBlockEnd(t *testing.T) {
	lines := []string{
		"class Foo(",
		"    val a: Int,",
		") : Bar() {",
		"    fun x() {}",
		"}",
		"val after = 1",
	}

	assert.Equal(t, 5, braceBlockEnd(lines, 0))
}

func TestCCodeOnly(t *testing.T) {
	st := &cState{}

	assert.Equal(t, "val x = ", cCodeOnly(`val x = "literal { brace"`, st))
	assert.Equal(t, "val y = 1 ", cCodeOnly("val y = 1 // trailing {", st))

	assert.Equal(t, "before ", cCodeOnly("before /* open {", st))
	assert.Equal(t, " after", cCodeOnly("still inside */ after", st))
}
