// Package validator checks submitted form data against declarative rule chains.
//
// A chain is an ordered list of rules per field. Evaluation stops at the first
// failing rule of a field, so a Result holds at most one message per field.
//
//	v := validator.New(validator.WithResolver(c), validator.WithLogger(log))
//	res := v.Validate(ctx, validator.Values(form), validator.Rules{
//		"telephone": validator.Parse("required|phone_senegal|unique:userRepository,telephone"),
//		"prenom":    validator.Parse("required", "min_length:2", "alpha_spaces"),
//	}, nil)
//	if !res.Valid() {
//		// re-render the form with res
//	}
//
// # Rules
//
// Parameters follow the rule name after a colon and are parsed when the rule
// is built: "min_length:5", "file_max_size:2097152",
// "unique:userRepository,telephone". Rules with no parameter use
// DefaultMinLength, DefaultMaxLength and DefaultFileMaxSize.
//
// The unique rule resolves its repository through the Resolver and calls
// IsUnique. When the repository cannot be reached the rule logs a warning and
// passes.
//
// Unknown rule names pass. Custom rules are added with Registry.Register or
// the package level Register; built-ins never replace them.
//
// # Messages
//
// Validate looks up "field.rule", then "field" in the messages map before
// falling back to DefaultMessage. ValidateWithMessages takes the message from
// each RuleMessage.
package validator
