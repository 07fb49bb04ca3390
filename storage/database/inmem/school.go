package inmemdb

import (
	"context"
	"sort"

	"github.com/shuletech/shule/core/school"
)

type schoolRepository struct {
	db *schoolTable
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) GetProfile(ctx context.Context) (school.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.db.profile == nil {
		return school.Profile{}, nil
	}
	return *repo.db.profile, nil
}

func (repo *schoolRepository) SaveProfile(ctx context.Context, p school.Profile) (school.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.profile = &p
	return p, nil
}

func (repo *schoolRepository) UpsertSection(ctx context.Context, s school.Section) (school.Section, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.sections[s.ID] = &s
	return s, nil
}

func (repo *schoolRepository) QuerySections(ctx context.Context) ([]school.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sections := make([]school.Section, 0, len(repo.db.sections))
	for _, s := range repo.db.sections {
		sections = append(sections, *s)
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Position != sections[j].Position {
			return sections[i].Position < sections[j].Position
		}
		return sections[i].Title < sections[j].Title
	})
	return sections, nil
}

func (repo *schoolRepository) DeleteSection(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.sections[id]; !ok {
		return school.ErrSectionNotFound
	}
	delete(repo.db.sections, id)
	return nil
}

func (repo *schoolRepository) CreateAnnouncement(ctx context.Context, a school.Announcement) (school.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.announcements[a.ID] = &a
	return a, nil
}

func (repo *schoolRepository) QueryAnnouncements(ctx context.Context, limit int) ([]school.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	announcements := make([]school.Announcement, 0, len(repo.db.announcements))
	for _, a := range repo.db.announcements {
		announcements = append(announcements, *a)
	}
	sort.Slice(announcements, func(i, j int) bool {
		return announcements[i].PublishedAt.After(announcements[j].PublishedAt)
	})
	if limit > 0 && len(announcements) > limit {
		announcements = announcements[:limit]
	}
	return announcements, nil
}

func (repo *schoolRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.announcements[id]; !ok {
		return school.ErrAnnouncementNotFound
	}
	delete(repo.db.announcements, id)
	return nil
}
