package dynamodb

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"shop-backend/application/ports"
	"shop-backend/domain/catalog"
	"shop-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CircuitBreakerConfig holds configuration for the read-path circuit breaker
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakingProductReader guards a ProductReader with a circuit breaker. Client
// errors such as NOT_FOUND do not count as failures.
type BreakingProductReader struct {
	next   ports.ProductReader
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakingProductReader wraps next
func NewBreakingProductReader(next ports.ProductReader, config CircuitBreakerConfig, logger *zap.Logger) *BreakingProductReader {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.StatusCode(err) < http.StatusInternalServerError
		},
	})

	return &BreakingProductReader{next: next, cb: cb, logger: logger}
}

// List implements ports.ProductReader
func (r *BreakingProductReader) List(ctx context.Context) ([]catalog.ProductView, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, r.translate(err)
	}
	return out.([]catalog.ProductView), nil
}

// Get implements ports.ProductReader
func (r *BreakingProductReader) Get(ctx context.Context, id string) (*catalog.ProductView, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.Get(ctx, id)
	})
	if err != nil {
		return nil, r.translate(err)
	}
	return out.(*catalog.ProductView), nil
}

// State reports the breaker state
func (r *BreakingProductReader) State() gobreaker.State {
	return r.cb.State()
}

func (r *BreakingProductReader) translate(err error) error {
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		appErr := errors.NewInternalError("product store temporarily unavailable").WithCause(err)
		appErr.HTTPStatus = http.StatusServiceUnavailable
		return appErr
	}
	return err
}
