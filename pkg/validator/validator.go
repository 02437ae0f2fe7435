package validator

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// Validator evaluates rule chains against input.
type Validator struct {
	registry *Registry
	resolver Resolver
	logger   *slog.Logger
	names    map[string]string
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry sets the rule registry. Defaults to DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(v *Validator) {
		if r != nil {
			v.registry = r
		}
	}
}

// WithResolver sets the dependency resolver used by the unique rule.
func WithResolver(r Resolver) Option {
	return func(v *Validator) {
		v.resolver = r
	}
}

// WithLogger sets the logger used for fail-open rule events.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithDisplayNames adds field display names used by default messages.
func WithDisplayNames(names map[string]string) Option {
	return func(v *Validator) {
		maps.Copy(v.names, names)
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		registry: defaultRegistry,
		logger:   slog.Default(),
		names:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs each field's chain in order and stops at the first failing
// rule of a field. Missing fields validate as "". Unknown rules pass.
// The message for a failure is messages["field.rule"], then messages["field"],
// then the default message.
func (v *Validator) Validate(ctx context.Context, in Input, rules Rules, messages Messages) Result {
	res := make(Result)
	for _, field := range slices.Sorted(maps.Keys(rules)) {
		for _, rule := range rules[field] {
			if v.check(ctx, in, field, rule) {
				continue
			}
			res.Add(field, v.message(field, rule, messages))
			break
		}
	}
	return res
}

// ValidateWithMessages is Validate with each rule carrying its own message.
func (v *Validator) ValidateWithMessages(ctx context.Context, in Input, spec MessageRules) Result {
	res := make(Result)
	for _, field := range slices.Sorted(maps.Keys(spec)) {
		for _, rm := range spec[field] {
			if v.check(ctx, in, field, rm.Rule) {
				continue
			}
			msg := rm.Message
			if msg == "" {
				msg = DefaultMessage(field, rm.Rule, v.names)
			}
			res.Add(field, msg)
			break
		}
	}
	return res
}

func (v *Validator) check(ctx context.Context, in Input, field string, rule Rule) bool {
	fn, ok := v.registry.Lookup(rule.Name)
	if !ok {
		return true
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(in.Value(field), field, &RuleContext{
		Context:  ctx,
		Rule:     rule,
		Input:    in,
		Resolver: v.resolver,
		Logger:   v.logger,
	})
}

func (v *Validator) message(field string, rule Rule, messages Messages) string {
	if msg, ok := messages[field+"."+rule.Name]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	return DefaultMessage(field, rule, v.names)
}
