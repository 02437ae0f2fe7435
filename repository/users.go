package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Roles of a user.
const (
	RoleClient       = "CLIENT"
	RoleGestionnaire = "GESTIONNAIRE"
)

// User is a bank customer.
type User struct {
	ID                  int64     `db:"id"`
	Prenom              string    `db:"prenom"`
	Nom                 string    `db:"nom"`
	Adresse             string    `db:"adresse"`
	Telephone           string    `db:"telephone"`
	NumeroPieceIdentite string    `db:"numero_piece_identite"`
	PhotoRecto          string    `db:"photo_recto"`
	PhotoVerso          string    `db:"photo_verso"`
	Role                string    `db:"role"`
	CreatedAt           time.Time `db:"created_at"`
}

var userUniqueColumns = map[string]string{
	"telephone":             "telephone",
	"numero_piece_identite": "numero_piece_identite",
}

const userColumns = `id, prenom, nom, adresse, telephone, numero_piece_identite, photo_recto, photo_verso, role, created_at`

// Users reads and writes the users table.
type Users struct {
	db *sqlx.DB
}

func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// IsUnique reports whether no user has value in field.
// Checkable fields: telephone, numero_piece_identite.
func (r *Users) IsUnique(ctx context.Context, field, value string) (bool, error) {
	return isUnique(ctx, r.db, "users", userUniqueColumns, field, value)
}

// FindByTelephone returns ErrNotFound when no user has the number.
func (r *Users) FindByTelephone(ctx context.Context, telephone string) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE telephone = $1`, telephone)
	return u, notFound(err)
}

// FindByID returns ErrNotFound when the user does not exist.
func (r *Users) FindByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return u, notFound(err)
}

func (r *Users) create(ctx context.Context, q queryer, u *User) error {
	if u.Role == "" {
		u.Role = RoleClient
	}
	return q.GetContext(ctx, u, `
		INSERT INTO users (prenom, nom, adresse, telephone, numero_piece_identite, photo_recto, photo_verso, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		u.Prenom, u.Nom, u.Adresse, u.Telephone, u.NumeroPieceIdentite, u.PhotoRecto, u.PhotoVerso, u.Role,
	)
}
