package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Fields is the replaceable part of a profile. Sub-collections are never part of it.
type Fields struct {
	Handle         string
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         []string
	Social         Social
}

type Profile struct {
	ID             uuid.UUID    `json:"id"`
	OwnerID        uuid.UUID    `json:"-"`
	Handle         string       `json:"handle,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Date           time.Time    `json:"date"`
}

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for user")
	ErrEntryNotFound   = errors.New("entry not found")
)

// New seeds a profile for ownerID with empty sub-collections.
func New(ownerID uuid.UUID, fields Fields, now time.Time) *Profile {
	p := &Profile{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Experience: []Experience{},
		Education:  []Education{},
		Date:       now,
	}
	p.ApplyFields(fields)
	return p
}

func (p *Profile) OwnerRef() uuid.UUID { return p.OwnerID }

// ApplyFields replaces scalar fields, skills and social links. Experience and education
// are left as they are.
func (p *Profile) ApplyFields(f Fields) {
	p.Handle = f.Handle
	p.Company = f.Company
	p.Website = f.Website
	p.Location = f.Location
	p.Bio = f.Bio
	p.Status = f.Status
	p.GithubUsername = f.GithubUsername
	p.Skills = append([]string{}, f.Skills...)
	p.Social = f.Social
}

// AddExperience assigns a fresh id and puts the entry first.
func (p *Profile) AddExperience(e Experience) Experience {
	e.ID = uuid.New()
	p.Experience = append([]Experience{e}, p.Experience...)
	return e
}

func (p *Profile) RemoveExperience(id uuid.UUID) error {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// AddEducation assigns a fresh id and puts the entry first.
func (p *Profile) AddEducation(e Education) Education {
	e.ID = uuid.New()
	p.Education = append([]Education{e}, p.Education...)
	return e
}

func (p *Profile) RemoveEducation(id uuid.UUID) error {
	for i := range p.Education {
		if p.Education[i].ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// Clone returns a deep copy, safe to mutate independently of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = make([]Experience, len(p.Experience))
	for i, e := range p.Experience {
		e.To = cloneTime(e.To)
		c.Experience[i] = e
	}
	c.Education = make([]Education, len(p.Education))
	for i, e := range p.Education {
		e.To = cloneTime(e.To)
		c.Education[i] = e
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ParseSkills turns "go, sql,,docker" into ["go" "sql" "docker"].
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

type Repository interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	// Save inserts or replaces the whole document keyed by owner.
	Save(ctx context.Context, p *Profile) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}
