package mongodb

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// Ids are stored as their canonical string form so documents stay readable in the shell.

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	Avatar       string    `bson:"avatar"`
	Date         time.Time `bson:"date"`
}

func toUserDoc(u *user.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        user.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		Date:         u.Date,
	}
}

func (d userDoc) toDomain() *user.User {
	return &user.User{
		ID:           parseID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Avatar:       d.Avatar,
		Date:         d.Date,
	}
}

type socialDoc struct {
	YouTube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type experienceDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDoc struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type profileDoc struct {
	ID             string          `bson:"_id"`
	User           string          `bson:"user"`
	Handle         string          `bson:"handle,omitempty"`
	Company        string          `bson:"company,omitempty"`
	Website        string          `bson:"website,omitempty"`
	Location       string          `bson:"location,omitempty"`
	Bio            string          `bson:"bio,omitempty"`
	Status         string          `bson:"status"`
	GithubUsername string          `bson:"githubusername,omitempty"`
	Skills         []string        `bson:"skills"`
	Social         socialDoc       `bson:"social"`
	Experience     []experienceDoc `bson:"experience"`
	Education      []educationDoc  `bson:"education"`
	Date           time.Time       `bson:"date"`
}

func toProfileDoc(p *profile.Profile) profileDoc {
	d := profileDoc{
		ID:             p.ID.String(),
		User:           p.OwnerID.String(),
		Handle:         p.Handle,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GithubUsername: p.GithubUsername,
		Skills:         append([]string{}, p.Skills...),
		Social:         socialDoc(p.Social),
		Experience:     make([]experienceDoc, len(p.Experience)),
		Education:      make([]educationDoc, len(p.Education)),
		Date:           p.Date,
	}
	for i, e := range p.Experience {
		d.Experience[i] = experienceDoc{
			ID: e.ID.String(), Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	for i, e := range p.Education {
		d.Education[i] = educationDoc{
			ID: e.ID.String(), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	return d
}

func (d profileDoc) toDomain() *profile.Profile {
	p := &profile.Profile{
		ID:             parseID(d.ID),
		OwnerID:        parseID(d.User),
		Handle:         d.Handle,
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		Status:         d.Status,
		GithubUsername: d.GithubUsername,
		Skills:         append([]string{}, d.Skills...),
		Social:         profile.Social(d.Social),
		Experience:     make([]profile.Experience, len(d.Experience)),
		Education:      make([]profile.Education, len(d.Education)),
		Date:           d.Date,
	}
	for i, e := range d.Experience {
		p.Experience[i] = profile.Experience{
			ID: parseID(e.ID), Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	for i, e := range d.Education {
		p.Education[i] = profile.Education{
			ID: parseID(e.ID), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	return p
}

type likeDoc struct {
	User string `bson:"user"`
}

type commentDoc struct {
	ID     string    `bson:"_id"`
	User   string    `bson:"user"`
	Text   string    `bson:"text"`
	Name   string    `bson:"name"`
	Avatar string    `bson:"avatar"`
	Date   time.Time `bson:"date"`
}

type postDoc struct {
	ID       string       `bson:"_id"`
	User     string       `bson:"user"`
	Text     string       `bson:"text"`
	Name     string       `bson:"name"`
	Avatar   string       `bson:"avatar"`
	Likes    []likeDoc    `bson:"likes"`
	Comments []commentDoc `bson:"comments"`
	Date     time.Time    `bson:"date"`
}

func toPostDoc(p *post.Post) postDoc {
	d := postDoc{
		ID:       p.ID.String(),
		User:     p.User.String(),
		Text:     p.Text,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Likes:    make([]likeDoc, len(p.Likes)),
		Comments: make([]commentDoc, len(p.Comments)),
		Date:     p.Date,
	}
	for i, l := range p.Likes {
		d.Likes[i] = likeDoc{User: l.User.String()}
	}
	for i, c := range p.Comments {
		d.Comments[i] = commentDoc{
			ID: c.ID.String(), User: c.User.String(), Text: c.Text,
			Name: c.Name, Avatar: c.Avatar, Date: c.Date,
		}
	}
	return d
}

func (d postDoc) toDomain() *post.Post {
	p := &post.Post{
		ID:       parseID(d.ID),
		User:     parseID(d.User),
		Text:     d.Text,
		Name:     d.Name,
		Avatar:   d.Avatar,
		Likes:    make([]post.Like, len(d.Likes)),
		Comments: make([]post.Comment, len(d.Comments)),
		Date:     d.Date,
	}
	for i, l := range d.Likes {
		p.Likes[i] = post.Like{User: parseID(l.User)}
	}
	for i, c := range d.Comments {
		p.Comments[i] = post.Comment{
			ID: parseID(c.ID), User: parseID(c.User), Text: c.Text,
			Name: c.Name, Avatar: c.Avatar, Date: c.Date,
		}
	}
	return p
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
