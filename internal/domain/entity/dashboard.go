package entity

import "encoding/json"

// Totals is the per-field sum of every account reported by the account-status endpoint.
type Totals struct {
	Total              float64 `json:"total"`
	Disponible         float64 `json:"disponible"`
	TitulosValorizados float64 `json:"titulosValorizados"`
	Comprometido       float64 `json:"comprometido"`
}

// Holding is one normalized position of the portfolio.
type Holding struct {
	Simbolo      string  `json:"simbolo"`
	Descripcion  string  `json:"descripcion"`
	Valorizado   float64 `json:"valorizado"`
	Cantidad     float64 `json:"cantidad"`
	UltimoPrecio float64 `json:"ultimoPrecio"`
}

// AggregateResponse is the dashboard payload. Portfolio and EstadoCuenta are
// the upstream documents as received; Totales and Distribucion are derived
// from them on every request.
type AggregateResponse struct {
	Portfolio    json.RawMessage `json:"portfolio"`
	EstadoCuenta json.RawMessage `json:"estadoCuenta"`
	Totales      Totals          `json:"totales"`
	Distribucion []Holding       `json:"distribucion"`
}

// CallFailure describes an upstream call that answered with a non-success status.
type CallFailure struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// UpstreamErrorBody is returned with 502 when one or both data calls fail.
type UpstreamErrorBody struct {
	Error        string       `json:"error"`
	Portfolio    *CallFailure `json:"portfolio,omitempty"`
	EstadoCuenta *CallFailure `json:"estadoCuenta,omitempty"`
}

// ErrorBody is the generic error envelope.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// APIResponse is a transport-neutral HTTP answer: the gin handlers and the
// serverless adapter both render it.
type APIResponse struct {
	StatusCode int
	Body       any
}

// FetchResult is the outcome of one authenticated GET against the upstream API.
// On success Body holds the JSON document, otherwise the raw response text.
type FetchResult struct {
	OK     bool
	Status int
	Body   []byte
}

// HTTPResponse is what a transport hands back for any completed exchange.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err converts a failed fetch into an *UpstreamDataError; it returns nil for a successful one.
func (r FetchResult) Err(path string) error {
	if r.OK {
		return nil
	}
	return &UpstreamDataError{Path: path, Status: r.Status, Body: string(r.Body)}
}
