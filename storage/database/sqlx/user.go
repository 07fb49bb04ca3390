package sqlxrepos

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core"
	"github.com/shuletech/shule/core/user"
)

const userColumns = `id, name, username, email, is_active, roles, password_hash, created_at, updated_at, last_login`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// userRow adapts the roles array for the pq driver.
type userRow struct {
	user.User
	Roles pq.StringArray `db:"roles"`
}

func (r userRow) toUser() user.User {
	usr := r.User
	usr.Roles = r.Roles
	return usr
}

func toUsers(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	check := func(column, value string, domainErr error) error {
		if value == "" {
			return nil
		}
		var exists bool
		q := `SELECT EXISTS (SELECT 1 FROM "user" WHERE ` + column + ` = $1 AND NOT (id = ANY($2)))`
		if err := repo.db.GetContext(ctx, &exists, q, value, pq.Array(exclIDs)); err != nil {
			return errors.Wrap(err, "checking uniqueness")
		}
		if exists {
			return domainErr
		}
		return nil
	}

	if err := check("username", username, user.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, user.ErrEmailExists)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `
INSERT INTO "user" (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, q,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsActive, pq.Array(usr.Roles),
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	var where whereBuilder
	if filter != nil {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			where.add("(name ILIKE ? OR username ILIKE ? OR email ILIKE ?)", pattern, pattern, pattern)
		}
		if filter.Roles != nil {
			// role filters match hierarchically: "admin:" selects every admin variant
			where.add("EXISTS (SELECT 1 FROM unnest(roles) r, unnest(?::text[]) f WHERE r LIKE f || '%')", pq.Array(filter.Roles))
		}
		if filter.IsActive != nil {
			where.add("is_active = ?", *filter.IsActive)
		}
		if !filter.CreatedFrom.IsZero() {
			where.add("created_at >= ?", filter.CreatedFrom)
		}
		if !filter.CreatedTo.IsZero() {
			where.add("created_at <= ?", filter.CreatedTo)
		}
	}

	q := `SELECT ` + userColumns + ` FROM "user"` + where.clause() + orderBy(ordering, "created_at DESC")
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, q, where.args...); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	return toUsers(rows), nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var where whereBuilder
	switch {
	case filter.ID != "":
		where.add("id = ?", filter.ID)
	case filter.Username != "":
		where.add("username = ?", filter.Username)
	case filter.Email != "":
		where.add("email = ?", filter.Email)
	case len(filter.UsernameOrEmail) > 0:
		uname := filter.UsernameOrEmail[0]
		email := uname
		if len(filter.UsernameOrEmail) > 1 {
			email = filter.UsernameOrEmail[1]
		}
		where.add("(username = ? OR email = ?)", uname, email)
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	q := `SELECT ` + userColumns + ` FROM "user"` + where.clause()
	if err := repo.db.GetContext(ctx, &row, q, where.args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound)
	}
	return row.toUser(), nil
}

// UpdateUser saves only the set fields.
func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	var set whereBuilder
	if usr.Name != "" {
		set.add("name = ?", usr.Name)
	}
	if usr.Username != "" {
		set.add("username = ?", usr.Username)
	}
	if usr.Email != "" {
		set.add("email = ?", usr.Email)
	}
	if usr.Roles != nil {
		set.add("roles = ?", pq.Array(usr.Roles))
	}
	if usr.PasswordHash != nil {
		set.add("password_hash = ?", usr.PasswordHash)
	}
	if isActive != nil {
		set.add("is_active = ?", *isActive)
	}
	if !usr.UpdatedAt.IsZero() {
		set.add("updated_at = ?", usr.UpdatedAt)
	}
	if !usr.LastLogin.IsZero() {
		set.add("last_login = ?", usr.LastLogin)
	}
	if len(set.conds) == 0 {
		return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	}

	set.args = append(set.args, usr.ID)
	q := `UPDATE "user" SET ` + strings.Join(set.conds, ", ") +
		` WHERE id = $` + strconv.Itoa(len(set.args)) + ` RETURNING ` + userColumns
	var row userRow
	if err := repo.db.GetContext(ctx, &row, q, set.args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound)
	}
	return row.toUser(), nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `
INSERT INTO "user" (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (username) WHERE username <> '' DO UPDATE
    SET name = EXCLUDED.name, email = EXCLUDED.email, is_active = EXCLUDED.is_active,
        roles = EXCLUDED.roles, password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at
RETURNING ` + userColumns
	var row userRow
	err := repo.db.GetContext(ctx, &row, q,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsActive, pq.Array(usr.Roles),
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}

func (repo *userRepository) CountStaff(ctx context.Context) (int, error) {
	q := `
SELECT COUNT(*) FROM "user"
WHERE is_active AND cardinality(roles) > 0
  AND NOT EXISTS (SELECT 1 FROM unnest(roles) r WHERE r LIKE $1 || '%')`
	var count int
	if err := repo.db.GetContext(ctx, &count, q, user.RoleStudent); err != nil {
		return 0, errors.Wrap(err, "counting staff")
	}
	return count, nil
}
