// Package views renders the MAXITSA pages from embedded HTML templates.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/maxitsa/maxitsa/pkg/validator"
	"github.com/maxitsa/maxitsa/repository"
)

//go:embed templates/*.html
var files embed.FS

// Assets holds the stylesheet under assets/.
//
//go:embed assets
var Assets embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"fcfa": FCFA,
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
}).ParseFS(files, "templates/*.html"))

// Page is a template bound to its data. It satisfies the Component
// interface of the HTTP layer.
type Page struct {
	name string
	data any
}

func (p Page) Render(_ context.Context, w io.Writer) error {
	if err := templates.ExecuteTemplate(w, p.name, p.data); err != nil {
		return fmt.Errorf("views: render %s: %w", p.name, err)
	}
	return nil
}

// LoginData feeds the login and registration page.
type LoginData struct {
	Error    string
	Values   map[string]string
	Errors   validator.Result
	Register bool // open the registration tab
}

// Login renders the public landing page with both forms.
func Login(d LoginData) Page {
	if d.Values == nil {
		d.Values = map[string]string{}
	}
	return Page{name: "login.html", data: d}
}

// DashboardData feeds the client dashboard.
type DashboardData struct {
	FirstName string
	LastName  string
	Comptes   []repository.Compte
}

// Total returns the sum of all balances.
func (d DashboardData) Total() int64 {
	var total int64
	for _, c := range d.Comptes {
		total += c.Solde
	}
	return total
}

func Dashboard(d DashboardData) Page {
	return Page{name: "dashboard.html", data: d}
}

// CompteDetail renders one account.
func CompteDetail(c repository.Compte) Page {
	return Page{name: "compte.html", data: c}
}

// FCFA formats an amount with space-grouped thousands: 1 250 000 FCFA.
func FCFA(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String() + " FCFA"
	if neg {
		out = "-" + out
	}
	return out
}
