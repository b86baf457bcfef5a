package mapper

import "github.com/medvoyage/community-backend/internal/models"

// Mapping from content documents. Same output shapes as the row mappers,
// so callers cannot tell which backend served the data.

func authorFromDoc(a *AuthorDoc) Author {
	if a == nil {
		return Author{Username: UnknownAuthor}
	}
	return Author{ID: a.ID, Username: a.Username, Avatar: image(a.ImageURL)}
}

func categoryRefFromDoc(c *CategoryDoc) *CategoryRef {
	if c == nil {
		return nil
	}
	return &CategoryRef{Name: c.Name, Slug: Slug{Current: c.Slug}}
}

func communityRefFromDoc(c *CommunityDoc) *CommunityRef {
	if c == nil {
		return nil
	}
	return &CommunityRef{Title: c.Title, Slug: Slug{Current: c.Slug}}
}

func emptyTags(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}

func QuestionFromDoc(d QuestionDoc, answerCount, score int) Question {
	return Question{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Author:      authorFromDoc(d.Author),
		Category:    categoryRefFromDoc(d.Category),
		Tags:        emptyTags(d.Tags),
		IsAnswered:  d.Answered,
		IsDeleted:   d.Deleted,
		IsClosed:    d.Closed,
		ViewCount:   d.Views,
		AnswerCount: answerCount,
		Score:       score,
		CreatedAt:   d.PublishedAt,
	}
}

func AnswerFromDoc(d AnswerDoc, score int, comments []Comment) Answer {
	if comments == nil {
		comments = []Comment{}
	}
	return Answer{
		ID:         d.ID,
		Content:    d.Body,
		Author:     authorFromDoc(d.Author),
		IsAccepted: d.Accepted,
		Score:      score,
		Comments:   comments,
		CreatedAt:  d.PublishedAt,
	}
}

func CommentFromDoc(d CommentDoc, score int) Comment {
	return Comment{
		ID:        d.ID,
		Body:      d.Text,
		Author:    authorFromDoc(d.Author),
		ParentID:  d.ParentID,
		Score:     score,
		CreatedAt: d.PublishedAt,
	}
}

func PostFromDoc(d PostDoc, commentCount, score int) Post {
	return Post{
		ID:           d.ID,
		Title:        d.Title,
		Body:         d.Body,
		MainImage:    image(d.MainImage),
		Gallery:      imageList(d.Gallery),
		Author:       authorFromDoc(d.Author),
		Category:     categoryRefFromDoc(d.Category),
		Community:    communityRefFromDoc(d.Community),
		Tags:         emptyTags(d.Tags),
		IsDeleted:    d.Deleted,
		IsReported:   d.Reported,
		CommentCount: commentCount,
		Score:        score,
		CreatedAt:    d.PublishedAt,
	}
}

func CategoryFromDoc(d CategoryDoc, questionCount, postCount, pollCount int) Category {
	return Category{
		ID:            d.ID,
		Name:          d.Name,
		Slug:          Slug{Current: d.Slug},
		Description:   d.Description,
		Icon:          d.Icon,
		Color:         d.Color,
		QuestionCount: questionCount,
		PostCount:     postCount,
		PollCount:     pollCount,
	}
}

func CommunityFromDoc(d CommunityDoc) Community {
	return Community{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        Slug{Current: d.Slug},
		Description: d.Description,
		Moderator:   authorFromDoc(d.Moderator),
		Image:       image(d.ImageURL),
	}
}

func PollFromDoc(d PollDoc) Poll {
	a := Author{Username: AnonymousAuthor}
	if d.Author != nil {
		a = authorFromDoc(d.Author)
	}
	options := make([]PollOption, 0, len(d.Options))
	total := 0
	for i, o := range d.Options {
		options = append(options, PollOption{ID: i + 1, Label: o.Label, Position: i, VoteCount: o.Votes})
		total += o.Votes
	}
	return Poll{
		ID:         d.ID,
		Question:   d.Question,
		Author:     a,
		Category:   categoryRefFromDoc(d.Category),
		ExpiresAt:  d.Expiry,
		TotalVotes: total,
		Options:    options,
		CreatedAt:  d.PublishedAt,
	}
}

// UserFromDoc converts a stored user document into the internal user record
// shared by both backends.
func UserFromDoc(d UserDoc) models.User {
	return models.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		Password:     d.PasswordHash,
		Avatar:       d.ImageURL,
		Bio:          d.Bio,
		ExternalID:   d.ExternalID,
		Role:         d.Role,
		IsReported:   d.Reported,
		AuthProvider: d.AuthProvider,
		CreatedAt:    d.JoinedAt,
	}
}

// UserToDoc is the inverse of UserFromDoc, used when the document backend
// persists a new user record.
func UserToDoc(u models.User) UserDoc {
	return UserDoc{
		ID:           u.ID,
		ExternalID:   u.ExternalID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.Password,
		AuthProvider: u.AuthProvider,
		ImageURL:     u.Avatar,
		Bio:          u.Bio,
		Role:         u.Role,
		Reported:     u.IsReported,
		JoinedAt:     u.CreatedAt,
	}
}
