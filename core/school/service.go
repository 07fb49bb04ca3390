package school

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// errors
	ErrSectionNotFound      = errors.New("section not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// latestAnnouncements caps the public feed.
const latestAnnouncements = 10

type (
	Repository interface {
		GetProfile(ctx context.Context) (Profile, error)
		SaveProfile(ctx context.Context, p Profile) (Profile, error)

		UpsertSection(ctx context.Context, s Section) (Section, error)
		QuerySections(ctx context.Context) ([]Section, error) // ordered by position
		DeleteSection(ctx context.Context, id string) error

		CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		QueryAnnouncements(ctx context.Context, limit int) ([]Announcement, error) // newest first
		DeleteAnnouncement(ctx context.Context, id string) error
	}

	// The census interfaces decouple stats from the owning services; each is
	// satisfied by the respective domain service.
	StudentCensus interface {
		Count(ctx context.Context, activeOnly bool) (int, error)
	}

	StaffCensus interface {
		CountStaff(ctx context.Context) (int, error)
	}

	FeesLedger interface {
		TotalCollected(ctx context.Context) (decimal.Decimal, error)
	}

	ServiceInterface interface {
		Site(ctx context.Context) (Site, error)
		UpdateProfile(ctx context.Context, up UpdateProfile) (Profile, error)
		UpsertSection(ctx context.Context, id string, ns NewSection) (Section, error)
		DeleteSection(ctx context.Context, id string) error
		PostAnnouncement(ctx context.Context, na NewAnnouncement) (Announcement, error)
		DeleteAnnouncement(ctx context.Context, id string) error
		Stats(ctx context.Context) (Stats, error)
	}

	service struct {
		repo     Repository
		students StudentCensus
		staff    StaffCensus
		fees     FeesLedger
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, students StudentCensus, staff StaffCensus, fees FeesLedger) ServiceInterface {
	return &service{repo: repo, students: students, staff: staff, fees: fees}
}

// Site assembles the public micro-site read model.
func (svc *service) Site(ctx context.Context) (Site, error) {
	profile, err := svc.repo.GetProfile(ctx)
	if err != nil {
		return Site{}, errors.Wrap(err, "getting profile")
	}
	sections, err := svc.repo.QuerySections(ctx)
	if err != nil {
		return Site{}, errors.Wrap(err, "querying sections")
	}
	announcements, err := svc.repo.QueryAnnouncements(ctx, latestAnnouncements)
	if err != nil {
		return Site{}, errors.Wrap(err, "querying announcements")
	}
	return Site{Profile: profile, Sections: sections, Announcements: announcements}, nil
}

func (svc *service) UpdateProfile(ctx context.Context, up UpdateProfile) (Profile, error) {
	p := Profile{
		Name:      up.Name,
		Motto:     up.Motto,
		About:     up.About,
		Email:     up.Email,
		Phone:     up.Phone,
		Address:   up.Address,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.SaveProfile(ctx, p)
}

// UpsertSection creates the section when id is empty, replaces it otherwise.
func (svc *service) UpsertSection(ctx context.Context, id string, ns NewSection) (Section, error) {
	if id == "" {
		id = uuid.New().String()
	}
	s := Section{
		ID:        id,
		Title:     ns.Title,
		Body:      ns.Body,
		Position:  ns.Position,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpsertSection(ctx, s)
}

func (svc *service) DeleteSection(ctx context.Context, id string) error {
	return svc.repo.DeleteSection(ctx, id)
}

func (svc *service) PostAnnouncement(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	a := Announcement{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Body:        na.Body,
		PublishedAt: time.Now().UTC(),
	}
	return svc.repo.CreateAnnouncement(ctx, a)
}

func (svc *service) DeleteAnnouncement(ctx context.Context, id string) error {
	return svc.repo.DeleteAnnouncement(ctx, id)
}

// Stats recomputes the dashboard figures from the source records. Derived
// counts are never cached on other documents; this is the single place they
// come from.
func (svc *service) Stats(ctx context.Context) (Stats, error) {
	students, err := svc.students.Count(ctx, true /* activeOnly */)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting students")
	}
	staff, err := svc.staff.CountStaff(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting staff")
	}
	collected, err := svc.fees.TotalCollected(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "summing collected fees")
	}
	return Stats{
		ActiveStudents: students,
		StaffMembers:   staff,
		FeesCollected:  collected,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
