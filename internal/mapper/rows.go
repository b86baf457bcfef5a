package mapper

import (
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/tags"
)

// Mapping from relational rows. All functions are pure: they read the row
// and the pre-computed aggregate counts passed in, and never touch storage.

func image(url string) Image {
	return Image{Asset: Asset{URL: url}}
}

func imageList(urls []string) []Image {
	out := make([]Image, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, image(u))
		}
	}
	return out
}

// AuthorFromRow maps a joined user row; a zero row (failed or absent join)
// becomes the Unknown placeholder.
func AuthorFromRow(u models.User) Author {
	if u.ID == 0 && u.Username == "" {
		return Author{Username: UnknownAuthor}
	}
	return Author{ID: u.ID, Username: u.Username, Avatar: image(u.Avatar)}
}

func CategoryRefFromRow(c *models.Category) *CategoryRef {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &CategoryRef{Name: c.Name, Slug: Slug{Current: c.Slug}}
}

func CommunityRefFromRow(c *models.Community) *CommunityRef {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &CommunityRef{Title: c.Title, Slug: Slug{Current: c.Slug}}
}

func QuestionFromRow(q models.Question, category *models.Category, answerCount, score int) Question {
	return Question{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Author:      AuthorFromRow(q.User),
		Category:    CategoryRefFromRow(category),
		Tags:        tags.Split(q.Tags),
		IsAnswered:  q.IsAnswered,
		IsDeleted:   q.IsDeleted,
		IsClosed:    q.IsClosed,
		ViewCount:   q.ViewCount,
		AnswerCount: answerCount,
		Score:       score,
		CreatedAt:   q.CreatedAt,
	}
}

func AnswerFromRow(a models.Answer, score int, comments []Comment) Answer {
	if comments == nil {
		comments = []Comment{}
	}
	return Answer{
		ID:         a.ID,
		Content:    a.Content,
		Author:     AuthorFromRow(a.User),
		IsAccepted: a.IsAccepted,
		Score:      score,
		Comments:   comments,
		CreatedAt:  a.CreatedAt,
	}
}

func CommentFromRow(c models.Comment, score int) Comment {
	return Comment{
		ID:        c.ID,
		Body:      c.Body,
		Author:    AuthorFromRow(c.User),
		ParentID:  c.ParentCommentID,
		Score:     score,
		CreatedAt: c.CreatedAt,
	}
}

func PostFromRow(p models.Post, category *models.Category, community *models.Community, commentCount, score int) Post {
	return Post{
		ID:           p.ID,
		Title:        p.Title,
		Body:         p.Body,
		MainImage:    image(p.Image),
		Gallery:      imageList(tags.Split(p.Gallery)),
		Author:       AuthorFromRow(p.User),
		Category:     CategoryRefFromRow(category),
		Community:    CommunityRefFromRow(community),
		Tags:         tags.Split(p.Tags),
		IsDeleted:    p.IsDeleted,
		IsReported:   p.IsReported,
		CommentCount: commentCount,
		Score:        score,
		CreatedAt:    p.CreatedAt,
	}
}

func CategoryFromRow(c models.Category, questionCount, postCount, pollCount int) Category {
	return Category{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          Slug{Current: c.Slug},
		Description:   c.Description,
		Icon:          c.Icon,
		Color:         c.Color,
		QuestionCount: questionCount,
		PostCount:     postCount,
		PollCount:     pollCount,
	}
}

func CommunityFromRow(c models.Community) Community {
	return Community{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        Slug{Current: c.Slug},
		Description: c.Description,
		Moderator:   AuthorFromRow(c.Moderator),
		Image:       image(c.Image),
	}
}

// PollFromRow maps a poll row. Polls without an author row are admin-created
// and render as Anonymous.
func PollFromRow(p models.Poll, author *models.User, category *models.Category) Poll {
	a := Author{Username: AnonymousAuthor}
	if author != nil && author.ID != 0 {
		a = AuthorFromRow(*author)
	}
	options := make([]PollOption, 0, len(p.Options))
	total := 0
	for _, o := range p.Options {
		options = append(options, PollOption{ID: o.ID, Label: o.Label, Position: o.Position, VoteCount: o.VoteCount})
		total += o.VoteCount
	}
	return Poll{
		ID:         p.ID,
		Question:   p.Question,
		Author:     a,
		Category:   CategoryRefFromRow(category),
		ExpiresAt:  p.ExpiresAt,
		TotalVotes: total,
		Options:    options,
		CreatedAt:  p.CreatedAt,
	}
}

func ProfileFromRow(u models.User) Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   image(u.Avatar),
		Bio:      u.Bio,
		JoinedAt: u.CreatedAt,
	}
}
