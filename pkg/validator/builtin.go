package validator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

// UniqueChecker is implemented by repositories the unique rule can query.
type UniqueChecker interface {
	IsUnique(ctx context.Context, field, value string) (bool, error)
}

var (
	phoneSenegalRe = regexp.MustCompile(`^(\+221|7[056789])\d{7}$`)
	cniSenegalRe   = regexp.MustCompile(`^\d{13}$`)
	alphaSpacesRe  = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ\s'-]+$`)
	alphaNumRe     = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	numericRe      = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

	emailChecker = playground.New()

	imageTypes  = []string{"image/jpeg", "image/jpg", "image/png"}
	truthyToken = []string{"1", "on", "yes", "true"}
)

func builtins() map[string]RuleFunc {
	return map[string]RuleFunc{
		Required: func(v, _ string, _ *RuleContext) bool {
			return strings.TrimSpace(v) != ""
		},
		Email: func(v, _ string, _ *RuleContext) bool {
			return v != "" && emailChecker.Var(v, "email") == nil
		},
		PhoneSenegal: matches(phoneSenegalRe),
		CNISenegal:   matches(cniSenegalRe),
		Unique:       unique,
		MinLength: func(v, _ string, rc *RuleContext) bool {
			return utf8.RuneCountInString(strings.TrimSpace(v)) >= rc.Rule.Length
		},
		MaxLength: func(v, _ string, rc *RuleContext) bool {
			return utf8.RuneCountInString(strings.TrimSpace(v)) <= rc.Rule.Length
		},
		AlphaSpaces:  matches(alphaSpacesRe),
		AlphaNumeric: matches(alphaNumRe),
		FileRequired: func(_, field string, rc *RuleContext) bool {
			return rc.Input.File(field).Received()
		},
		FileImage: func(_, field string, rc *RuleContext) bool {
			f := rc.Input.File(field)
			if !f.Received() {
				return true
			}
			return slices.Contains(imageTypes, f.ContentType)
		},
		FileMaxSize: func(_, field string, rc *RuleContext) bool {
			f := rc.Input.File(field)
			if !f.Received() {
				return true
			}
			return f.Size <= rc.Rule.Size
		},
		Accepted: func(v, _ string, _ *RuleContext) bool {
			return slices.Contains(truthyToken, v)
		},
		Numeric: matches(numericRe),
	}
}

func matches(re *regexp.Regexp) RuleFunc {
	return func(v, _ string, _ *RuleContext) bool {
		return re.MatchString(v)
	}
}

// unique passes when the repository reports the value unused. Any failure to
// reach the repository is logged and the value is let through.
func unique(value, field string, rc *RuleContext) bool {
	repo := rc.Rule.Repository
	if repo == "" {
		return true
	}
	column := rc.Rule.Field
	if column == "" {
		column = field
	}

	ok, err := checkUnique(rc, repo, column, value)
	if err != nil {
		logger := rc.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.LogAttrs(rc.Context, slog.LevelWarn, "unique rule lookup failed, value accepted",
			slog.String("rule", Unique),
			slog.String("field", field),
			slog.String("repository", repo),
			slog.Any("error", err),
		)
		return true
	}
	return ok
}

func checkUnique(rc *RuleContext, repo, column, value string) (bool, error) {
	if rc.Resolver == nil {
		return false, ErrNoResolver
	}
	dep, err := rc.Resolver.Get(repo)
	if err != nil {
		return false, err
	}
	checker, ok := dep.(UniqueChecker)
	if !ok {
		return false, fmt.Errorf("%w: %q is %T", ErrNotUniqueChecker, repo, dep)
	}
	return checker.IsUnique(rc.Context, column, value)
}
