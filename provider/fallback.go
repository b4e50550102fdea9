package provider

import (
	"context"
	"time"

	"github.com/hupe1980/contentmesh/logging"
	"github.com/hupe1980/contentmesh/metrics"
)

// degradedResponse is returned in place of a provider error so that a flaky
// backend degrades a single response instead of failing the whole task.
const degradedResponse = `**Error generating content**

There was an issue with the content provider. Please check:
1. Your API key is valid
2. You have sufficient quota
3. The service is available

Falling back to a degraded response for this request.`

// FallbackOptions configure the Fallback wrapper.
type FallbackOptions struct {
	Logger  logging.Logger
	Metrics *metrics.Collector
}

// Fallback wraps a Generator and converts generation failures into a
// clearly-labeled degraded response. Recovery happens here, at the
// collaborator boundary: the dispatcher core never sees raw provider errors.
type Fallback struct {
	inner   Generator
	logger  logging.Logger
	metrics *metrics.Collector
}

// NewFallback wraps the given generator with the degrade-on-error policy.
func NewFallback(inner Generator, optFns ...func(o *FallbackOptions)) *Fallback {
	opts := FallbackOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Fallback{inner: inner, logger: opts.Logger, metrics: opts.Metrics}
}

// Generate delegates to the wrapped generator. On failure it logs the error
// and returns the degraded response with a nil error.
func (f *Fallback) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	text, err := f.inner.Generate(ctx, prompt)
	f.metrics.ProviderCall(f.inner.Info().Provider, err)
	if err != nil {
		f.logger.Warn("provider call failed, degrading response", "provider", f.inner.Info().Provider, "duration", time.Since(start), "error", err.Error())
		return degradedResponse, nil
	}

	f.logger.Debug("provider call completed", "provider", f.inner.Info().Provider, "duration", time.Since(start))

	return text, nil
}

// Info reports the wrapped generator's metadata.
func (f *Fallback) Info() Info { return f.inner.Info() }
