package service

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"math"
	"strings"

	"iol_dashboard/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

const (
	missingSymbol      = "-"
	missingDescription = "(sin descripción)"
)

var emptyObject = []byte("{}")

// BuildAggregate decodes both upstream documents and derives the dashboard
// payload from them. A JSON null document is treated as an empty object;
// anything that is not valid JSON is an error.
func BuildAggregate(portfolioRaw, accountStatusRaw []byte) (*entity.AggregateResponse, error) {
	portfolioRaw, portfolio, err := decodeDocument(portfolioRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode portfolio: %w", err)
	}
	accountStatusRaw, accountStatus, err := decodeDocument(accountStatusRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode account status: %w", err)
	}

	return &entity.AggregateResponse{
		Portfolio:    stdjson.RawMessage(portfolioRaw),
		EstadoCuenta: stdjson.RawMessage(accountStatusRaw),
		Totales:      ComputeTotals(accountStatus),
		Distribucion: SummarizeHoldings(portfolio),
	}, nil
}

// decodeDocument returns the raw bytes to pass through and the document as a
// map. Non-object documents (arrays, scalars) decode to an empty map but are
// still passed through as received.
func decodeDocument(raw []byte) ([]byte, map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("empty response body")
	}
	var doc any
	if err := documentJSON.Unmarshal(trimmed, &doc); err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return emptyObject, map[string]any{}, nil
	}
	m, ok := doc.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	return trimmed, m, nil
}

// ComputeTotals sums total, disponible, titulosValorizados and comprometido
// over accountStatus["cuentas"]. Missing or non-list cuentas yields zero totals.
func ComputeTotals(accountStatus map[string]any) entity.Totals {
	var total, disponible, titulos, comprometido decimal.Decimal
	for _, item := range asList(accountStatus["cuentas"]) {
		cuenta, _ := item.(map[string]any)
		total = total.Add(toNumber(cuenta["total"]))
		disponible = disponible.Add(toNumber(cuenta["disponible"]))
		titulos = titulos.Add(toNumber(cuenta["titulosValorizados"]))
		comprometido = comprometido.Add(toNumber(cuenta["comprometido"]))
	}
	return entity.Totals{
		Total:              toFloat(total),
		Disponible:         toFloat(disponible),
		TitulosValorizados: toFloat(titulos),
		Comprometido:       toFloat(comprometido),
	}
}

// SummarizeHoldings maps portfolio["activos"] to normalized holdings, keeping order.
func SummarizeHoldings(portfolio map[string]any) []entity.Holding {
	activos := asList(portfolio["activos"])
	holdings := make([]entity.Holding, 0, len(activos))
	for _, item := range activos {
		activo, _ := item.(map[string]any)
		titulo, _ := activo["titulo"].(map[string]any)

		simbolo := nonEmptyString(titulo["simbolo"])
		descripcion := nonEmptyString(titulo["descripcion"])
		if descripcion == "" {
			descripcion = simbolo
		}
		if descripcion == "" {
			descripcion = missingDescription
		}
		if simbolo == "" {
			simbolo = missingSymbol
		}

		holdings = append(holdings, entity.Holding{
			Simbolo:      simbolo,
			Descripcion:  descripcion,
			Valorizado:   toFloat(toNumber(activo["valorizado"])),
			Cantidad:     toFloat(toNumber(activo["cantidad"])),
			UltimoPrecio: toFloat(toNumber(activo["ultimoPrecio"])),
		})
	}
	return holdings
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return s
}

// toNumber coerces a decoded JSON value to a decimal. Numbers and numeric
// strings convert, true is 1, anything else is 0.
func toNumber(v any) decimal.Decimal {
	switch n := v.(type) {
	case stdjson.Number:
		return parseDecimal(string(n))
	case jsoniter.Number:
		return parseDecimal(string(n))
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		return parseDecimal(n)
	case bool:
		if n {
			return decimal.NewFromInt(1)
		}
	}
	return decimal.Zero
}

// toFloat converts d for JSON output. Values outside float64 range become 0,
// since JSON has no encoding for infinities.
func toFloat(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
