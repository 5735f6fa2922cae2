package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Privilege is the database role a request runs under.
//
// Row-level security policies are written against these roles, so a public
// request can never read rows an authenticated or admin request could.
type Privilege string

const (
	// PrivilegeAnon is used for requests without an identity.
	PrivilegeAnon Privilege = "anon"
	// PrivilegeAuthenticated is used for requests carrying a verified user.
	PrivilegeAuthenticated Privilege = "authenticated"
	// PrivilegeService bypasses row-level security; admin routes and
	// background jobs only.
	PrivilegeService Privilege = "service_role"
)

// Valid reports whether p is one of the known roles.
func (p Privilege) Valid() bool {
	switch p {
	case PrivilegeAnon, PrivilegeAuthenticated, PrivilegeService:
		return true
	}
	return false
}

// ErrNoDatabase is returned by Scope.Tx when the scope was built without a pool.
var ErrNoDatabase = errors.New("database: scope has no connection pool")

// Scope binds a privilege and a subject (the user id, empty for anonymous
// access) to the pool. The handler wrapper builds one per request.
type Scope struct {
	Privilege Privilege
	Subject   string
	Email     string

	db *Database
}

// Scope returns a Scope running as privilege on behalf of subject.
func (db *Database) Scope(privilege Privilege, subject, email string) Scope {
	return Scope{
		Privilege: privilege,
		Subject:   subject,
		Email:     email,
		db:        db,
	}
}

// Service is shorthand for the service_role scope used by jobs and the CLI.
func (db *Database) Service() Scope {
	return db.Scope(PrivilegeService, "", "")
}

// Tx runs fn inside a transaction. When scoped roles are enabled the
// transaction first switches to the scope's role and publishes the JWT-style
// claims that row-level security policies read through current_setting.
//
// The transaction is committed when fn returns nil and rolled back otherwise.
func (s Scope) Tx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if s.db == nil || s.db.Pool == nil {
		return ErrNoDatabase
	}

	return pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		if s.db.scopedRoles {
			if err := s.apply(ctx, tx); err != nil {
				return err
			}
		}
		return fn(tx)
	})
}

func (s Scope) apply(ctx context.Context, tx pgx.Tx) error {
	stmt, err := setRoleStatement(s.Privilege)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("switching role to %s: %w", s.Privilege, err)
	}

	claims, err := s.claims()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('request.jwt.claims', $1, true)", claims); err != nil {
		return fmt.Errorf("setting request claims: %w", err)
	}
	return nil
}

// setRoleStatement builds SET LOCAL ROLE. Role names cannot be bound as
// parameters, so only the known privileges are accepted.
func setRoleStatement(p Privilege) (string, error) {
	if !p.Valid() {
		return "", fmt.Errorf("database: unknown privilege %q", p)
	}
	return "SET LOCAL ROLE " + pgx.Identifier{string(p)}.Sanitize(), nil
}

func (s Scope) claims() (string, error) {
	payload := map[string]string{"role": string(s.Privilege)}
	if s.Subject != "" {
		payload["sub"] = s.Subject
	}
	if s.Email != "" {
		payload["email"] = s.Email
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request claims: %w", err)
	}
	return string(b), nil
}
