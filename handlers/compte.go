package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/maxitsa/maxitsa"
	"github.com/maxitsa/maxitsa/pkg/storage"
	"github.com/maxitsa/maxitsa/pkg/validator"
	"github.com/maxitsa/maxitsa/repository"
	"github.com/maxitsa/maxitsa/views"
)

var registerRules = validator.MessageRules{
	"prenom": {
		validator.With("required", "Le prénom est obligatoire."),
		validator.With("alpha_spaces", "Le prénom ne doit contenir que des lettres."),
		validator.With("min_length:2", "Le prénom doit contenir au moins 2 caractères."),
	},
	"nom": {
		validator.With("required", "Le nom est obligatoire."),
		validator.With("alpha_spaces", "Le nom ne doit contenir que des lettres."),
		validator.With("min_length:2", "Le nom doit contenir au moins 2 caractères."),
	},
	"adresse": {
		validator.With("required", "L'adresse est obligatoire."),
		validator.With("min_length:5", "L'adresse doit contenir au moins 5 caractères."),
	},
	"telephone": {
		validator.With("required", "Le numéro de téléphone est obligatoire."),
		validator.With("phone_senegal", "Le numéro de téléphone n'est pas valide."),
		validator.With("unique:userRepository,telephone", "Ce numéro de téléphone est déjà utilisé."),
	},
	"numero_piece_identite": {
		validator.With("required", "Le numéro de pièce d'identité est obligatoire."),
		validator.With("cni_senegal", "Le numéro de CNI doit contenir 13 chiffres."),
		validator.With("unique:userRepository,numero_piece_identite", "Ce numéro de pièce d'identité est déjà utilisé."),
	},
	"photo_recto": {
		validator.With("file_required", "La photo recto est obligatoire."),
		validator.With("file_image", "La photo recto doit être une image JPEG ou PNG."),
		validator.With("file_max_size:5242880", "La photo recto ne doit pas dépasser 5 MB."),
	},
	"photo_verso": {
		validator.With("file_required", "La photo verso est obligatoire."),
		validator.With("file_image", "La photo verso doit être une image JPEG ou PNG."),
		validator.With("file_max_size:5242880", "La photo verso ne doit pas dépasser 5 MB."),
	},
	"terms": {
		validator.With("accepted", "Vous devez accepter les conditions d'utilisation."),
	},
}

// CompteController registers clients and shows their accounts.
type CompteController struct {
	comptes  compteStore
	uploader *storage.Uploader
}

func NewCompteController(comptes compteStore, uploader *storage.Uploader) *CompteController {
	return &CompteController{comptes: comptes, uploader: uploader}
}

func (h *CompteController) Actions() map[string]maxitsa.HandlerFunc {
	return map[string]maxitsa.HandlerFunc{
		"register":            h.register,
		"showDashboardClient": h.dashboard,
		"showCompteDetail":    h.detail,
		"logout":              h.logout,
	}
}

// register opens a client profile with its principal account, then logs the
// client in.
func (h *CompteController) register(c maxitsa.Context) error {
	res, err := c.ValidateWithMessages(registerRules)
	if err != nil {
		return err
	}
	if !res.Valid() {
		return h.registerFailed(c, res)
	}

	recto, err := h.upload(c, "photo_recto", "cni/recto")
	if err != nil {
		return h.uploadFailed(c, "photo_recto", err)
	}
	verso, err := h.upload(c, "photo_verso", "cni/verso")
	if err != nil {
		h.discard(c, recto)
		return h.uploadFailed(c, "photo_verso", err)
	}

	user := repository.User{
		Prenom:              c.Form("prenom"),
		Nom:                 c.Form("nom"),
		Adresse:             c.Form("adresse"),
		Telephone:           c.Form("telephone"),
		NumeroPieceIdentite: c.Form("numero_piece_identite"),
		PhotoRecto:          recto,
		PhotoVerso:          verso,
		Role:                repository.RoleClient,
	}
	compte, err := h.comptes.Register(c, &user)
	if err != nil {
		h.discard(c, recto, verso)
		return fmt.Errorf("register: %w", err)
	}

	if err := logIn(c, principalOf(user, compte)); err != nil {
		return err
	}
	c.LogInfo("client registered",
		slog.Int64("user_id", user.ID),
		slog.String("compte", compte.Numero),
	)
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

func (h *CompteController) upload(c maxitsa.Context, field, prefix string) (string, error) {
	_, fh, err := c.FormFile(field)
	if err != nil {
		return "", errors.Join(storage.ErrEmptyFile, err)
	}
	return h.uploader.Upload(c, fh, prefix)
}

// uploadFailed reports content rejected by the uploader inline; storage
// outages go to the error handler.
func (h *CompteController) uploadFailed(c maxitsa.Context, field string, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidMIME):
		return h.registerFailed(c, maxitsa.ValidationResult{field: "Le fichier doit être une image JPEG ou PNG."})
	case errors.Is(err, storage.ErrFileTooLarge):
		return h.registerFailed(c, maxitsa.ValidationResult{field: "Le fichier ne doit pas dépasser 5 MB."})
	case errors.Is(err, storage.ErrEmptyFile):
		return h.registerFailed(c, maxitsa.ValidationResult{field: "Le fichier est vide."})
	}
	return fmt.Errorf("register: upload %s: %w", field, err)
}

// discard removes uploads of a registration that did not complete. The
// request context may be gone already.
func (h *CompteController) discard(c maxitsa.Context, keys ...string) {
	if err := h.uploader.Remove(context.WithoutCancel(c), keys...); err != nil {
		c.LogWarn("orphan identity photos", slog.Any("keys", keys), slog.Any("error", err))
	}
}

func (h *CompteController) registerFailed(c maxitsa.Context, res maxitsa.ValidationResult) error {
	return c.Render(http.StatusUnprocessableEntity, views.Login(views.LoginData{
		Values:   c.FormValues(),
		Errors:   res,
		Register: true,
	}))
}

// dashboard lists the accounts of the logged-in client.
func (h *CompteController) dashboard(c maxitsa.Context) error {
	userID, p, err := currentUserID(c)
	if err != nil {
		return err
	}
	comptes, err := h.comptes.ListByUser(c, userID)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return c.Render(http.StatusOK, views.Dashboard(views.DashboardData{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Comptes:   comptes,
	}))
}

// detail shows one account of the logged-in client. Accounts of other
// clients answer 404.
func (h *CompteController) detail(c maxitsa.Context) error {
	id, err := maxitsa.Param[int64](c, "id")
	if err != nil {
		return err
	}
	userID, _, err := currentUserID(c)
	if err != nil {
		return err
	}
	compte, err := h.comptes.FindForUser(c, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return maxitsa.ErrNotFound("Compte introuvable")
	}
	if err != nil {
		return fmt.Errorf("compte detail: %w", err)
	}
	return c.Render(http.StatusOK, views.CompteDetail(compte))
}

func (h *CompteController) logout(c maxitsa.Context) error {
	gate, err := c.Session()
	if err != nil {
		return err
	}
	gate.Destroy()
	return c.Redirect(http.StatusSeeOther, HomePath)
}
