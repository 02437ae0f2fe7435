package views_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxitsa/maxitsa/pkg/validator"
	"github.com/maxitsa/maxitsa/repository"
	"github.com/maxitsa/maxitsa/views"
)

func render(t *testing.T, p views.Page) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, p.Render(context.Background(), &b))
	return b.String()
}

func TestFCFA(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		0:         "0 FCFA",
		950:       "950 FCFA",
		1250000:   "1 250 000 FCFA",
		-25000:    "-25 000 FCFA",
		100000000: "100 000 000 FCFA",
	}
	for in, want := range tests {
		assert.Equal(t, want, views.FCFA(in))
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	html := render(t, views.Login(views.LoginData{
		Error:  "compte_inactif",
		Values: map[string]string{"loginTelephone": "771234567"},
		Errors: validator.Result{"loginTelephone": "Aucun compte <b>trouvé</b>"},
	}))

	assert.Contains(t, html, "Votre compte est inactif")
	assert.Contains(t, html, `value="771234567"`)
	assert.Contains(t, html, "Aucun compte &lt;b&gt;trouvé&lt;/b&gt;")
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	html := render(t, views.Dashboard(views.DashboardData{
		FirstName: "Awa",
		Comptes: []repository.Compte{
			{ID: 7, Numero: "SN000000000007", Type: repository.ComptePrincipal, Solde: 150000},
			{ID: 9, Numero: "SN000000000009", Type: repository.CompteSecondaire, Solde: 5000},
		},
	}))

	assert.Contains(t, html, "Bonjour Awa")
	assert.Contains(t, html, "155 000 FCFA")
	assert.Contains(t, html, `href="/compte/9/detail"`)
}
