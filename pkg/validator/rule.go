package validator

import (
	"math"
	"strings"
)

// Built-in rule names.
const (
	Required     = "required"
	Email        = "email"
	PhoneSenegal = "phone_senegal"
	CNISenegal   = "cni_senegal"
	Unique       = "unique"
	MinLength    = "min_length"
	MaxLength    = "max_length"
	AlphaSpaces  = "alpha_spaces"
	AlphaNumeric = "alpha_numeric"
	FileRequired = "file_required"
	FileImage    = "file_image"
	FileMaxSize  = "file_max_size"
	Accepted     = "accepted"
	Numeric      = "numeric"
)

// Defaults applied when a parameterized rule is written without its parameter.
const (
	DefaultMinLength   = 3
	DefaultMaxLength   = 255
	DefaultFileMaxSize = 5 * 1024 * 1024
)

// Rule is one parsed rule of a chain. Parameters are decoded at construction
// according to the rule kind; Param keeps the raw text for custom rules.
type Rule struct {
	Name  string
	Param string

	// Length is the bound of min_length / max_length.
	Length int
	// Size is the byte bound of file_max_size.
	Size int64
	// Repository and Field address the lookup of the unique rule.
	Repository string
	Field      string

	hasParam bool
}

// ParseRule parses "name" or "name:param".
//
//	ParseRule("min_length:5")                    // Length 5
//	ParseRule("unique:userRepository,telephone") // Repository, Field
//	ParseRule("file_max_size:2097152")           // Size 2 MiB
func ParseRule(spec string) Rule {
	name, param, hasParam := strings.Cut(strings.TrimSpace(spec), ":")
	r := Rule{Name: name, Param: param, hasParam: hasParam}

	switch name {
	case MinLength:
		r.Length = DefaultMinLength
		if hasParam {
			r.Length = int(min(leadingInt(param), math.MaxInt))
		}
	case MaxLength:
		r.Length = DefaultMaxLength
		if hasParam {
			r.Length = int(min(leadingInt(param), math.MaxInt))
		}
	case FileMaxSize:
		r.Size = DefaultFileMaxSize
		if hasParam {
			r.Size = leadingInt(param)
		}
	case Unique:
		repo, field, _ := strings.Cut(param, ",")
		r.Repository = strings.TrimSpace(repo)
		r.Field = strings.TrimSpace(field)
	}
	return r
}

// String returns the rule in "name:param" form.
func (r Rule) String() string {
	if !r.hasParam {
		return r.Name
	}
	return r.Name + ":" + r.Param
}

// Chain is the ordered rule list of one field.
type Chain []Rule

// Parse builds a chain from rule specs. Each spec may hold several rules
// separated by "|".
//
//	Parse("required|min_length:3")
//	Parse("required", "unique:userRepository,telephone")
func Parse(specs ...string) Chain {
	var c Chain
	for _, spec := range specs {
		for part := range strings.SplitSeq(spec, "|") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c = append(c, ParseRule(part))
		}
	}
	return c
}

// Rules maps a field name to its rule chain.
type Rules map[string]Chain

// Messages maps "field.rule" or "field" to a custom error message.
type Messages map[string]string

// RuleMessage pairs a rule with the message reported when it fails.
type RuleMessage struct {
	Rule    Rule
	Message string
}

// With pairs a rule spec with its message.
//
//	validator.With("min_length:2", "Le prénom doit contenir au moins 2 caractères.")
func With(spec, message string) RuleMessage {
	return RuleMessage{Rule: ParseRule(spec), Message: message}
}

// MessageRules maps a field to its ordered rules, each carrying its own message.
type MessageRules map[string][]RuleMessage

// leadingInt parses the leading decimal digits of s, ignoring the rest.
// Returns 0 when s does not start with a digit and saturates at
// math.MaxInt64.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			return math.MaxInt64
		}
		n = n*10 + d
	}
	return n
}
