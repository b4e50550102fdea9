package tool

import (
	"context"
	"strconv"
)

// Analytics returns a synthesized per-metric time series for a property.
// It stands in for a real analytics backend; the shape of the result matches
// what a live integration would return so handlers downstream do not care
// which one they got.
type Analytics struct{}

// NewAnalytics constructs the analytics tool.
func NewAnalytics() *Analytics { return &Analytics{} }

// Name implements Tool.
func (a *Analytics) Name() string { return "analytics" }

// Description implements Tool.
func (a *Analytics) Description() string {
	return "Fetch per-metric analytics data for a property"
}

// Call returns a 7-day series for each requested metric.
//
// Args:
//
//	property_id string   - analytics property identifier (default "demo")
//	metrics     []string - metric names (default sessions/users/pageviews)
func (a *Analytics) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	propertyID, _ := args["property_id"].(string)
	if propertyID == "" {
		propertyID = "demo"
	}

	metricNames := stringSlice(args["metrics"])
	if len(metricNames) == 0 {
		metricNames = []string{"sessions", "users", "pageviews"}
	}

	data := make([]map[string]string, 0, 7)
	for day := 0; day < 7; day++ {
		row := make(map[string]string, len(metricNames))
		for _, metric := range metricNames {
			switch metric {
			case "sessions":
				row[metric] = strconv.Itoa(2000 + day*100)
			case "users":
				row[metric] = strconv.Itoa(1500 + day*80)
			case "pageviews":
				row[metric] = strconv.Itoa(6000 + day*300)
			case "bounceRate":
				row[metric] = strconv.FormatFloat(0.4+float64(day)*0.01, 'f', 2, 64)
			default:
				row[metric] = strconv.Itoa(1000 + day*50)
			}
		}
		data = append(data, row)
	}

	return map[string]any{
		"property_id": propertyID,
		"metrics":     metricNames,
		"data":        data,
	}, nil
}

// stringSlice coerces []string or []any-of-string argument values.
func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
