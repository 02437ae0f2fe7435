// Package handlers holds the MAXITSA controllers. Each one is registered in
// the dependency container and exposes its actions by name to the route
// declarations.
package handlers

import (
	"context"
	"strconv"

	"github.com/maxitsa/maxitsa"
	"github.com/maxitsa/maxitsa/repository"
)

// Landing paths shared by the controllers.
const (
	HomePath      = "/"
	DashboardPath = "/dashboard-client"
)

type userFinder interface {
	FindByTelephone(ctx context.Context, telephone string) (repository.User, error)
}

type compteStore interface {
	Principal(ctx context.Context, userID int64) (repository.Compte, error)
	ListByUser(ctx context.Context, userID int64) ([]repository.Compte, error)
	FindForUser(ctx context.Context, id, userID int64) (repository.Compte, error)
	Register(ctx context.Context, u *repository.User) (repository.Compte, error)
}

// principalOf builds the session principal of a user; the account status
// comes from the principal account.
func principalOf(u repository.User, principal repository.Compte) maxitsa.Principal {
	return maxitsa.Principal{
		ID:            strconv.FormatInt(u.ID, 10),
		FirstName:     u.Prenom,
		LastName:      u.Nom,
		Telephone:     u.Telephone,
		Role:          u.Role,
		AccountStatus: principal.Statut,
	}
}

// logIn moves the session to a fresh token and stores the principal.
func logIn(c maxitsa.Context, p maxitsa.Principal) error {
	gate, err := c.Session()
	if err != nil {
		return err
	}
	gate.Regenerate()
	gate.SetPrincipal(p)
	return nil
}

// currentUserID returns the id of the authenticated principal.
func currentUserID(c maxitsa.Context) (int64, maxitsa.Principal, error) {
	gate, err := c.Session()
	if err != nil {
		return 0, maxitsa.Principal{}, err
	}
	if err := gate.RequireAuthenticated(); err != nil {
		return 0, maxitsa.Principal{}, err
	}
	p, _ := gate.Principal()
	id, err := strconv.ParseInt(p.ID, 10, 64)
	if err != nil {
		gate.Destroy()
		return 0, p, maxitsa.Redirect(HomePath)
	}
	return id, p, nil
}
