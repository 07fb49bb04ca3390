package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

// GetProfile returns an empty profile when none has been saved yet; the
// micro-site renders before the school fills anything in.
func (repo *schoolRepository) GetProfile(ctx context.Context) (school.Profile, error) {
	var p school.Profile
	q := `SELECT name, motto, about, email, phone, address, updated_at FROM school_profile WHERE id`
	if err := repo.db.GetContext(ctx, &p, q); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return school.Profile{}, nil
		}
		return school.Profile{}, errors.Wrap(err, "selecting profile")
	}
	return p, nil
}

func (repo *schoolRepository) SaveProfile(ctx context.Context, p school.Profile) (school.Profile, error) {
	q := `
INSERT INTO school_profile (id, name, motto, about, email, phone, address, updated_at)
VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
    SET name = EXCLUDED.name, motto = EXCLUDED.motto, about = EXCLUDED.about,
        email = EXCLUDED.email, phone = EXCLUDED.phone, address = EXCLUDED.address,
        updated_at = EXCLUDED.updated_at`
	_, err := repo.db.ExecContext(ctx, q, p.Name, p.Motto, p.About, p.Email, p.Phone, p.Address, p.UpdatedAt)
	if err != nil {
		return school.Profile{}, errors.Wrap(err, "saving profile")
	}
	return p, nil
}

func (repo *schoolRepository) UpsertSection(ctx context.Context, s school.Section) (school.Section, error) {
	q := `
INSERT INTO site_section (id, title, body, position, updated_at)
VALUES (:id, :title, :body, :position, :updated_at)
ON CONFLICT (id) DO UPDATE
    SET title = EXCLUDED.title, body = EXCLUDED.body, position = EXCLUDED.position,
        updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		return school.Section{}, errors.Wrap(err, "upserting section")
	}
	return s, nil
}

func (repo *schoolRepository) QuerySections(ctx context.Context) ([]school.Section, error) {
	var sections []school.Section
	q := `SELECT id, title, body, position, updated_at FROM site_section ORDER BY position ASC, title ASC`
	if err := repo.db.SelectContext(ctx, &sections, q); err != nil {
		return nil, errors.Wrap(err, "selecting sections")
	}
	return sections, nil
}

func (repo *schoolRepository) DeleteSection(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM site_section WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting section")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.ErrSectionNotFound
	}
	return nil
}

func (repo *schoolRepository) CreateAnnouncement(ctx context.Context, a school.Announcement) (school.Announcement, error) {
	q := `
INSERT INTO announcement (id, title, body, published_at)
VALUES (:id, :title, :body, :published_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, a); err != nil {
		return school.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return a, nil
}

func (repo *schoolRepository) QueryAnnouncements(ctx context.Context, limit int) ([]school.Announcement, error) {
	var announcements []school.Announcement
	q := `SELECT id, title, body, published_at FROM announcement ORDER BY published_at DESC LIMIT $1`
	if err := repo.db.SelectContext(ctx, &announcements, q, limit); err != nil {
		return nil, errors.Wrap(err, "selecting announcements")
	}
	return announcements, nil
}

func (repo *schoolRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM announcement WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.ErrAnnouncementNotFound
	}
	return nil
}
