package ggwriter

import "log/slog"

// ForkPolicy selects how Fork arranges the records of a child context.
type ForkPolicy uint8

const (
	// ForkGrouped makes each fork a new child group in the tree, so the
	// recording mirrors the structure of the drawing code.
	ForkGrouped ForkPolicy = iota

	// ForkFlat makes a fork share its parent's record list. The tree has
	// no groups and records are attributed to the list owner.
	ForkFlat
)

var forkPolicyNames = [...]string{
	ForkGrouped: "grouped",
	ForkFlat:    "flat",
}

// String returns the policy name.
func (p ForkPolicy) String() string {
	if int(p) < len(forkPolicyNames) {
		return forkPolicyNames[p]
	}
	return "Unknown"
}

// Option configures a root recording context.
//
// Example:
//
//	w := ggwriter.New(
//	    ggwriter.WithCeiling(10000),
//	    ggwriter.WithForkPolicy(ggwriter.ForkFlat),
//	)
type Option func(*options)

type options struct {
	policy      ForkPolicy
	ceiling     int64
	attribution bool
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		policy:      ForkGrouped,
		attribution: AttributionDefault(),
	}
}

// WithForkPolicy sets how forks are arranged in the tree.
// The default is ForkGrouped.
func WithForkPolicy(p ForkPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithCeiling caps the number of tree nodes recorded under the root.
// Draw calls beyond the ceiling are silently dropped. A value of zero or
// less means no limit, which is the default.
func WithCeiling(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.ceiling = int64(n)
	}
}

// WithAttribution enables or disables capturing the call site of every
// record. The default follows SetAttributionDefault.
func WithAttribution(on bool) Option {
	return func(o *options) {
		o.attribution = on
	}
}

// WithLogger sets the logger of this root and all its forks, overriding
// the package-wide Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
