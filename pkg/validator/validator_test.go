package validator_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxitsa/maxitsa/pkg/validator"
)

type fakeResolver map[string]any

func (r fakeResolver) Get(key string) (any, error) {
	v, ok := r[key]
	if !ok {
		return nil, errors.New("unresolved: " + key)
	}
	return v, nil
}

type fakeRepo struct {
	taken map[string]string
	err   error
	calls []string
}

func (r *fakeRepo) IsUnique(_ context.Context, field, value string) (bool, error) {
	r.calls = append(r.calls, field)
	if r.err != nil {
		return false, r.err
	}
	return r.taken[field] != value, nil
}

func TestValidate_FirstFailureOnly(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	res := v.Validate(context.Background(), validator.Values(map[string]string{"name": ""}), validator.Rules{
		"name": validator.Parse("required", "min_length:3"),
	}, nil)

	require.False(t, res.Valid())
	assert.Equal(t, []string{"name"}, res.Fields())
	assert.Equal(t, "Le champ Name est obligatoire.", res.Get("name"))
}

func TestValidate_MissingFieldIsEmpty(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	res := v.Validate(context.Background(), validator.Input{}, validator.Rules{
		"prenom": validator.Parse("required"),
		"bio":    validator.Parse("max_length:10"),
	}, nil)

	assert.True(t, res.Has("prenom"))
	assert.False(t, res.Has("bio"))
	assert.Equal(t, "Le champ Prénom est obligatoire.", res.Get("prenom"))
}

func TestValidate_MessagePrecedence(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	in := validator.Values(map[string]string{"a": "", "b": "", "c": ""})
	rules := validator.Rules{
		"a": validator.Parse("required"),
		"b": validator.Parse("required"),
		"c": validator.Parse("required"),
	}
	res := v.Validate(context.Background(), in, rules, validator.Messages{
		"a.required": "rule message",
		"a":          "field message",
		"b":          "field message",
	})

	assert.Equal(t, "rule message", res.Get("a"))
	assert.Equal(t, "field message", res.Get("b"))
	assert.Equal(t, "Le champ C est obligatoire.", res.Get("c"))
}

func TestValidateWithMessages(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	spec := validator.MessageRules{
		"prenom": {
			validator.With("required", "Le prénom est obligatoire"),
			validator.With("min_length:2", "Trop court"),
		},
		"telephone": {
			validator.With("required", "Téléphone requis"),
			validator.With("phone_senegal", "Numéro invalide"),
		},
	}

	res := v.ValidateWithMessages(context.Background(), validator.Values(map[string]string{
		"prenom":    "A",
		"telephone": "771234567",
	}), spec)

	assert.Equal(t, "Trop court", res.Get("prenom"))
	assert.False(t, res.Has("telephone"))

	res = v.ValidateWithMessages(context.Background(), validator.Input{}, spec)
	assert.Equal(t, "Le prénom est obligatoire", res.Get("prenom"))
	assert.Equal(t, "Téléphone requis", res.Get("telephone"))
}

func TestBuiltinRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule  string
		value string
		want  bool
	}{
		{"required", "x", true},
		{"required", "   ", false},
		{"required", "0", true},
		{"email", "awa@example.sn", true},
		{"email", "not-an-email", false},
		{"email", "", false},
		{"phone_senegal", "771234567", true},
		{"phone_senegal", "701234567", true},
		{"phone_senegal", "+2211234567", true},
		{"phone_senegal", "721234567", false},
		{"phone_senegal", "77123456", false},
		{"cni_senegal", "1234567890123", true},
		{"cni_senegal", "123456789012", false},
		{"cni_senegal", "12345678901a3", false},
		{"min_length:3", "abc", true},
		{"min_length:3", "ab", false},
		{"min_length:3", "  ab  ", false},
		{"min_length", "abc", true},
		{"min_length:2", "éé", true},
		{"max_length:3", "abcd", false},
		{"max_length:3", " abc ", true},
		{"alpha_spaces", "Aïssatou N'Diaye-Sow", true},
		{"alpha_spaces", "Awa2", false},
		{"alpha_numeric", "abc123", true},
		{"alpha_numeric", "abc 123", false},
		{"accepted", "on", true},
		{"accepted", "yes", true},
		{"accepted", "1", true},
		{"accepted", "no", false},
		{"accepted", "", false},
		{"numeric", "42", true},
		{"numeric", "-3.5", true},
		{"numeric", "1e3", true},
		{"numeric", "12a", false},
		{"numeric", "", false},
		{"no_such_rule", "anything", true},
	}

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.value, func(t *testing.T) {
			t.Parallel()
			res := v.Validate(context.Background(), validator.Values(map[string]string{"f": tt.value}),
				validator.Rules{"f": validator.Parse(tt.rule)}, nil)
			assert.Equal(t, tt.want, res.Valid(), res.Get("f"))
		})
	}
}

func TestFileRules(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	rules := validator.Rules{"photo_recto": validator.Parse("file_required|file_image|file_max_size:1024")}
	validate := func(f *validator.File) validator.Result {
		in := validator.Input{Files: map[string]*validator.File{}}
		if f != nil {
			in.Files["photo_recto"] = f
		}
		return v.Validate(context.Background(), in, rules, nil)
	}

	assert.True(t, validate(&validator.File{Name: "a.png", ContentType: "image/png", Size: 512}).Valid())

	res := validate(nil)
	assert.Equal(t, "Le fichier Photo recto est obligatoire.", res.Get("photo_recto"))

	res = validate(&validator.File{Status: validator.FilePartial})
	assert.True(t, res.Has("photo_recto"))

	res = validate(&validator.File{ContentType: "application/pdf", Size: 10})
	assert.Equal(t, "Le fichier Photo recto doit être une image (JPG, JPEG, PNG).", res.Get("photo_recto"))

	res = validate(&validator.File{ContentType: "image/jpeg", Size: 2048})
	assert.Equal(t, "Le fichier Photo recto ne peut pas dépasser 1 KB.", res.Get("photo_recto"))
}

func TestFileRules_OversizedBoundSaturates(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	in := validator.Input{Files: map[string]*validator.File{
		"photo_recto": {Name: "a.png", ContentType: "image/png", Size: 5 << 20},
	}}
	res := v.Validate(context.Background(), in, validator.Rules{
		"photo_recto": validator.Parse("file_max_size:99999999999999999999"),
	}, nil)
	assert.True(t, res.Valid())
}

func TestFileRules_AbsentFilePassesVacuously(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRegistry(validator.NewRegistry()))
	res := v.Validate(context.Background(), validator.Input{}, validator.Rules{
		"photo_verso": validator.Parse("file_image|file_max_size"),
	}, nil)
	assert.True(t, res.Valid())
}

func TestUnique(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{taken: map[string]string{"telephone": "771234567"}}
	v := validator.New(
		validator.WithRegistry(validator.NewRegistry()),
		validator.WithResolver(fakeResolver{"userRepository": repo}),
	)
	rules := validator.Rules{"telephone": validator.Parse("unique:userRepository,telephone")}

	res := v.Validate(context.Background(), validator.Values(map[string]string{"telephone": "771234567"}), rules, nil)
	assert.Equal(t, "Le champ Téléphone n'est pas valide.", res.Get("telephone"))

	res = v.Validate(context.Background(), validator.Values(map[string]string{"telephone": "781234567"}), rules, nil)
	assert.True(t, res.Valid())

	msgs := validator.Messages{"telephone.unique": "Ce numéro de téléphone est déjà utilisé."}
	res = v.Validate(context.Background(), validator.Values(map[string]string{"telephone": "771234567"}), rules, msgs)
	assert.Equal(t, "Ce numéro de téléphone est déjà utilisé.", res.Get("telephone"))
}

func TestUnique_FieldDefaultsToKey(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	v := validator.New(
		validator.WithRegistry(validator.NewRegistry()),
		validator.WithResolver(fakeResolver{"accountRepository": repo}),
	)
	v.Validate(context.Background(), validator.Values(map[string]string{"numero": "1"}),
		validator.Rules{"numero": validator.Parse("unique:accountRepository")}, nil)

	assert.Equal(t, []string{"numero"}, repo.calls)
}

func TestUnique_FailsOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolver validator.Resolver
		rule     string
	}{
		{"no resolver", nil, "unique:userRepository,telephone"},
		{"unresolved", fakeResolver{}, "unique:userRepository,telephone"},
		{"not a checker", fakeResolver{"userRepository": 42}, "unique:userRepository,telephone"},
		{"repository error", fakeResolver{"userRepository": &fakeRepo{err: errors.New("db down")}}, "unique:userRepository,telephone"},
		{"no repository", fakeResolver{}, "unique"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			v := validator.New(
				validator.WithRegistry(validator.NewRegistry()),
				validator.WithResolver(tt.resolver),
				validator.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
			)

			var res validator.Result
			require.NotPanics(t, func() {
				res = v.Validate(context.Background(), validator.Values(map[string]string{"telephone": "771234567"}),
					validator.Rules{"telephone": validator.Parse(tt.rule)}, nil)
			})
			assert.True(t, res.Valid())
			if tt.name != "no repository" {
				assert.Contains(t, buf.String(), "level=WARN")
				assert.Contains(t, buf.String(), "repository=userRepository")
			}
		})
	}
}

func TestRegistry_CustomRuleSurvivesInit(t *testing.T) {
	t.Parallel()

	reg := validator.NewRegistry()
	reg.Register("required", func(string, string, *validator.RuleContext) bool { return true })
	reg.Register("even", func(v, _ string, _ *validator.RuleContext) bool { return len(v)%2 == 0 })

	v := validator.New(validator.WithRegistry(reg))
	res := v.Validate(context.Background(), validator.Values(map[string]string{"a": "", "b": "abc"}), validator.Rules{
		"a": validator.Parse("required"),
		"b": validator.Parse("even"),
	}, nil)

	assert.False(t, res.Has("a"))
	assert.Equal(t, "Le champ B n'est pas valide.", res.Get("b"))

	_, ok := reg.Lookup("email")
	assert.True(t, ok)
}

func TestRegistry_RuleSeesFullInput(t *testing.T) {
	t.Parallel()

	reg := validator.NewRegistry()
	reg.Register("same", func(v, _ string, rc *validator.RuleContext) bool {
		return v == rc.Input.Value(rc.Rule.Param)
	})

	v := validator.New(validator.WithRegistry(reg))
	res := v.Validate(context.Background(), validator.Values(map[string]string{"pin": "1234", "pin_confirm": "1243"}),
		validator.Rules{"pin_confirm": validator.Parse("same:pin")}, validator.Messages{"pin_confirm": "Les codes diffèrent."})

	assert.Equal(t, "Les codes diffèrent.", res.Get("pin_confirm"))
}
