package ems

import "errors"

var (
	// ErrMissingInterval is returned by GetUsage without an interval.
	ErrMissingInterval = errors.New("usage interval is required")

	// ErrMissingMetric is returned by GetMetricValues without an asset id or
	// metric label.
	ErrMissingMetric = errors.New("asset id and metric label are required")
)
