package service

import (
	"context"
	"fmt"
	"net/http"

	"iol_dashboard/internal/domain/entity"
	"iol_dashboard/internal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	serverErrorMessage   = "Server error"
	upstreamErrorMessage = "IOL API error"
)

func serverError(err error) entity.APIResponse {
	return entity.APIResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       entity.ErrorBody{Error: serverErrorMessage, Detail: err.Error()},
	}
}

// guard turns a panic inside handle into a 500 and records the response metric.
func guard(ctx context.Context, name string, logger *zap.Logger, handle func(context.Context) entity.APIResponse) (resp entity.APIResponse) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			logger.Error(name+" handler panicked", zap.Error(err), zap.Stack("stack"))
			resp = serverError(err)
		}
		metrics.Responses.WithLabelValues(name, metrics.StatusLabel(resp.StatusCode)).Inc()
	}()
	return handle(ctx)
}

// recoverInto converts a panic in a fan-out goroutine into an error; a panic
// there would otherwise escape guard and crash the process.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}
