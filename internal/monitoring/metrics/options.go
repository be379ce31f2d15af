package metrics

// MetricOption configures a metric at creation time.
type MetricOption func(opts *MetricOpts)

type MetricOpts struct {
	Namespace   string
	ConstLabels Labels
	Description string
}

func WithDescription(description string) MetricOption {
	return func(opts *MetricOpts) {
		opts.Description = description
	}
}

func WithConstLabels(labels Labels) MetricOption {
	return func(opts *MetricOpts) {
		opts.ConstLabels = labels
	}
}

// WithNamespace prefixes the metric name with the namespace.
func WithNamespace(namespace string) MetricOption {
	return func(opts *MetricOpts) {
		opts.Namespace = namespace
	}
}

// ApplyOpts folds the options into a MetricOpts value.
func ApplyOpts(opts []MetricOption) MetricOpts {
	var options MetricOpts
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
