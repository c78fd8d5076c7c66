package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
	"github.com/aussiebroadwan/chatauth/internal/auth/store"
)

const userColumns = `id, email, email_verified, given_name, family_name, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                    domain.User
		verified             int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.Email, &verified, &u.GivenName, &u.FamilyName, &createdAt, &updatedAt); err != nil {
		return domain.User{}, err
	}
	u.EmailVerified = verified != 0
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		boolToInt(u.EmailVerified),
		u.GivenName,
		u.FamilyName,
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	// Round-trip so callers see exactly what was stored (millisecond times).
	return r.GetUserByID(ctx, u.ID)
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{toMillis(time.Now())}

	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.EmailVerified != nil {
		sets = append(sets, "email_verified = ?")
		args = append(args, boolToInt(*upd.EmailVerified))
	}
	if upd.GivenName != nil {
		sets = append(sets, "given_name = ?")
		args = append(args, *upd.GivenName)
	}
	if upd.FamilyName != nil {
		sets = append(sets, "family_name = ?")
		args = append(args, *upd.FamilyName)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.User{}, store.ErrNotFound
	}

	return r.GetUserByID(ctx, id)
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
