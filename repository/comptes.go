package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/maxitsa/maxitsa/pkg/db"
)

// Account types and statuses.
const (
	ComptePrincipal  = "PRINCIPAL"
	CompteSecondaire = "SECONDAIRE"

	StatutActif  = "ACTIF"
	StatutBloque = "BLOQUE"
	StatutFerme  = "FERME"
)

// Compte is a bank account. Solde is in FCFA.
type Compte struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Numero    string    `db:"numero"`
	Type      string    `db:"type"`
	Solde     int64     `db:"solde"`
	Statut    string    `db:"statut"`
	CreatedAt time.Time `db:"created_at"`
}

var compteUniqueColumns = map[string]string{
	"numero": "numero",
}

const compteColumns = `id, user_id, numero, type, solde, statut, created_at`

// Comptes reads and writes the comptes table.
type Comptes struct {
	db    *sqlx.DB
	users *Users
}

func NewComptes(db *sqlx.DB, users *Users) *Comptes {
	return &Comptes{db: db, users: users}
}

// IsUnique reports whether no account has value in field. Checkable field: numero.
func (r *Comptes) IsUnique(ctx context.Context, field, value string) (bool, error) {
	return isUnique(ctx, r.db, "comptes", compteUniqueColumns, field, value)
}

// ListByUser returns the accounts of a user, principal first.
func (r *Comptes) ListByUser(ctx context.Context, userID int64) ([]Compte, error) {
	var out []Compte
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+compteColumns+` FROM comptes
		WHERE user_id = $1
		ORDER BY type = 'PRINCIPAL' DESC, created_at`, userID)
	return out, err
}

// FindForUser returns the account only when userID owns it, ErrNotFound otherwise.
func (r *Comptes) FindForUser(ctx context.Context, id, userID int64) (Compte, error) {
	var c Compte
	err := r.db.GetContext(ctx, &c, `SELECT `+compteColumns+` FROM comptes WHERE id = $1 AND user_id = $2`, id, userID)
	return c, notFound(err)
}

// Principal returns the principal account of a user.
func (r *Comptes) Principal(ctx context.Context, userID int64) (Compte, error) {
	var c Compte
	err := r.db.GetContext(ctx, &c, `SELECT `+compteColumns+` FROM comptes WHERE user_id = $1 AND type = 'PRINCIPAL'`, userID)
	return c, notFound(err)
}

// Register creates the user and its principal account in one transaction.
func (r *Comptes) Register(ctx context.Context, u *User) (Compte, error) {
	var c Compte
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := r.users.create(ctx, tx, u); err != nil {
			return fmt.Errorf("repository: create user: %w", err)
		}
		numero, err := newNumero()
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &c, `
			INSERT INTO comptes (user_id, numero, type, solde, statut)
			VALUES ($1, $2, $3, 0, $4)
			RETURNING `+compteColumns,
			u.ID, numero, ComptePrincipal, StatutActif,
		)
	})
	return c, err
}

// newNumero returns an account number "SN" followed by 12 digits.
func newNumero() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000_000))
	if err != nil {
		return "", fmt.Errorf("repository: account number: %w", err)
	}
	return fmt.Sprintf("SN%012d", n.Int64()), nil
}
