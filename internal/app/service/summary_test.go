package service

import (
	"testing"

	"iol_dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, raw string) map[string]any {
	t.Helper()
	_, doc, err := decodeDocument([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestComputeTotalsCoercesNonNumeric(t *testing.T) {
	doc := mustDecode(t, `{"cuentas":[
		{"total":100,"disponible":50,"titulosValorizados":40,"comprometido":10},
		{"total":"bad"}
	]}`)

	assert.Equal(t, entity.Totals{Total: 100, Disponible: 50, TitulosValorizados: 40, Comprometido: 10}, ComputeTotals(doc))
}

func TestComputeTotalsNumericStringsAndDecimals(t *testing.T) {
	doc := mustDecode(t, `{"cuentas":[
		{"total":"0.1","disponible":null},
		{"total":0.2,"disponible":true,"comprometido":{"x":1}}
	]}`)

	got := ComputeTotals(doc)
	assert.Equal(t, 0.3, got.Total)
	assert.Equal(t, 1.0, got.Disponible)
	assert.Zero(t, got.Comprometido)
}

func TestComputeTotalsMissingOrInvalidCuentas(t *testing.T) {
	for _, raw := range []string{`{}`, `{"cuentas":null}`, `{"cuentas":"x"}`, `{"cuentas":{"total":5}}`} {
		assert.Equal(t, entity.Totals{}, ComputeTotals(mustDecode(t, raw)), raw)
	}
}

func TestSummarizeHoldingsEmpty(t *testing.T) {
	for _, raw := range []string{`{}`, `{"activos":[]}`, `{"activos":null}`, `[1,2]`} {
		got := SummarizeHoldings(mustDecode(t, raw))
		assert.NotNil(t, got, raw)
		assert.Empty(t, got, raw)
	}
}

func TestSummarizeHoldingsNormalizes(t *testing.T) {
	doc := mustDecode(t, `{"activos":[
		{"titulo":{"simbolo":"GGAL"},"valorizado":1000,"cantidad":10,"ultimoPrecio":100},
		{"titulo":{"simbolo":"AL30","descripcion":"Bono AL30"},"valorizado":"250.5"},
		{"cantidad":3},
		{"titulo":{"descripcion":"Sin ticker"}}
	]}`)

	assert.Equal(t, []entity.Holding{
		{Simbolo: "GGAL", Descripcion: "GGAL", Valorizado: 1000, Cantidad: 10, UltimoPrecio: 100},
		{Simbolo: "AL30", Descripcion: "Bono AL30", Valorizado: 250.5},
		{Simbolo: "-", Descripcion: "(sin descripción)", Cantidad: 3},
		{Simbolo: "-", Descripcion: "Sin ticker"},
	}, SummarizeHoldings(doc))
}

func TestBuildAggregateIsPureProjection(t *testing.T) {
	portfolio := []byte(`{"pais":"argentina","activos":[{"titulo":{"simbolo":"YPFD"},"valorizado":20}]}`)
	account := []byte(`{"cuentas":[{"total":7}]}`)

	first, err := BuildAggregate(portfolio, account)
	require.NoError(t, err)
	second, err := BuildAggregate(portfolio, account)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.JSONEq(t, string(portfolio), string(first.Portfolio))
	assert.JSONEq(t, string(account), string(first.EstadoCuenta))
	assert.Equal(t, 7.0, first.Totales.Total)
	require.Len(t, first.Distribucion, 1)
	assert.Equal(t, "YPFD", first.Distribucion[0].Simbolo)
}

func TestBuildAggregateNullDocumentsBecomeEmptyObjects(t *testing.T) {
	got, err := BuildAggregate([]byte("null"), []byte(" null "))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got.Portfolio))
	assert.JSONEq(t, `{}`, string(got.EstadoCuenta))
	assert.Empty(t, got.Distribucion)
}

func TestBuildAggregateRejectsInvalidJSON(t *testing.T) {
	_, err := BuildAggregate([]byte("<html>"), []byte(`{}`))
	assert.Error(t, err)

	_, err = BuildAggregate([]byte(`{}`), nil)
	assert.Error(t, err)
}

func TestOutOfRangeValuesBecomeZero(t *testing.T) {
	doc := mustDecode(t, `{"cuentas":[{"total":"1e400","disponible":5}],"activos":[{"valorizado":"-1e400","cantidad":2}]}`)

	totals := ComputeTotals(doc)
	assert.Zero(t, totals.Total)
	assert.Equal(t, 5.0, totals.Disponible)

	holdings := SummarizeHoldings(doc)
	require.Len(t, holdings, 1)
	assert.Zero(t, holdings[0].Valorizado)
	assert.Equal(t, 2.0, holdings[0].Cantidad)
}
