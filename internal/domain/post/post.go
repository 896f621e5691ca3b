package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khoahotran/devconnector/internal/domain/ownership"
)

type Like struct {
	User uuid.UUID `json:"user"`
}

type Comment struct {
	ID     uuid.UUID `json:"id"`
	User   uuid.UUID `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func (c Comment) OwnerRef() uuid.UUID { return c.User }

// Post keeps the author's name and avatar as they were when it was written.
type Post struct {
	ID       uuid.UUID `json:"id"`
	User     uuid.UUID `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Date     time.Time `json:"date"`
}

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment does not exist")
	ErrEmptyText        = errors.New("text is required")
	ErrAlreadyLiked     = errors.New("post already liked")
	ErrNotLiked         = errors.New("post has not yet been liked")
	ErrNotOwner         = errors.New("user not authorized")
	ErrNotCommentAuthor = errors.New("user not authorized to remove comment")
)

func New(ownerID uuid.UUID, name, avatar, text string, now time.Time) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return &Post{
		ID:       uuid.New(),
		User:     ownerID,
		Text:     text,
		Name:     name,
		Avatar:   avatar,
		Likes:    []Like{},
		Comments: []Comment{},
		Date:     now,
	}, nil
}

func (p *Post) OwnerRef() uuid.UUID { return p.User }

func (p *Post) HasLiked(userID uuid.UUID) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

// Like puts userID first in the likes. A second like by the same user is rejected and
// leaves the post unchanged.
func (p *Post) Like(userID uuid.UUID) error {
	if p.HasLiked(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = append([]Like{{User: userID}}, p.Likes...)
	return nil
}

func (p *Post) Unlike(userID uuid.UUID) error {
	for i, l := range p.Likes {
		if l.User == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return ErrNotLiked
}

// AddComment puts a new comment first, snapshotting the commenter's name and avatar.
func (p *Post) AddComment(userID uuid.UUID, name, avatar, text string, now time.Time) (Comment, error) {
	if strings.TrimSpace(text) == "" {
		return Comment{}, ErrEmptyText
	}
	c := Comment{
		ID:     uuid.New(),
		User:   userID,
		Text:   text,
		Name:   name,
		Avatar: avatar,
		Date:   now,
	}
	p.Comments = append([]Comment{c}, p.Comments...)
	return c, nil
}

// RemoveComment deletes the comment only when identity wrote it.
func (p *Post) RemoveComment(commentID, identity uuid.UUID) error {
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if !ownership.IsOwner(c, identity) {
			return ErrNotCommentAuthor
		}
		p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
		return nil
	}
	return ErrCommentNotFound
}

// Clone returns a deep copy, safe to mutate independently of p.
func (p *Post) Clone() *Post {
	c := *p
	c.Likes = append([]Like{}, p.Likes...)
	c.Comments = append([]Comment{}, p.Comments...)
	return &c
}

type Repository interface {
	Save(ctx context.Context, p *Post) error
	// Replace writes the whole document back. Missing posts yield ErrPostNotFound.
	Replace(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
