package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/maxitsa/maxitsa"
	"github.com/maxitsa/maxitsa/pkg/validator"
	"github.com/maxitsa/maxitsa/repository"
	"github.com/maxitsa/maxitsa/views"
)

var loginRules = maxitsa.Rules{
	"loginTelephone": validator.Parse("required|phone_senegal"),
}

var loginMessages = maxitsa.Messages{
	"loginTelephone.required":      "Le numéro de téléphone est obligatoire.",
	"loginTelephone.phone_senegal": "Le numéro de téléphone n'est pas un numéro sénégalais valide.",
}

// SecurityController serves the landing page and logs clients in.
type SecurityController struct {
	users   userFinder
	comptes compteStore
}

func NewSecurityController(users userFinder, comptes compteStore) *SecurityController {
	return &SecurityController{users: users, comptes: comptes}
}

func (h *SecurityController) Actions() map[string]maxitsa.HandlerFunc {
	return map[string]maxitsa.HandlerFunc{
		"index": h.index,
		"login": h.login,
	}
}

// index shows the login and registration forms.
func (h *SecurityController) index(c maxitsa.Context) error {
	return c.Render(http.StatusOK, views.Login(views.LoginData{
		Error:    c.Query("error"),
		Register: c.Query("tab") == "register",
	}))
}

// login authenticates a client by phone number.
func (h *SecurityController) login(c maxitsa.Context) error {
	res, err := c.Validate(loginRules, loginMessages)
	if err != nil {
		return err
	}
	if !res.Valid() {
		return h.loginFailed(c, res)
	}

	user, err := h.users.FindByTelephone(c, c.Form("loginTelephone"))
	if errors.Is(err, repository.ErrNotFound) {
		c.LogInfo("login with unknown phone number")
		return h.loginFailed(c, maxitsa.ValidationResult{
			"loginTelephone": "Aucun compte n'est associé à ce numéro.",
		})
	}
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	compte, err := h.comptes.Principal(c, user.ID)
	if err != nil {
		return fmt.Errorf("login: principal account of user %d: %w", user.ID, err)
	}

	if err := logIn(c, principalOf(user, compte)); err != nil {
		return err
	}
	c.LogInfo("client logged in", slog.Int64("user_id", user.ID))
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

func (h *SecurityController) loginFailed(c maxitsa.Context, res maxitsa.ValidationResult) error {
	return c.Render(http.StatusUnprocessableEntity, views.Login(views.LoginData{
		Values: c.FormValues(),
		Errors: res,
	}))
}
