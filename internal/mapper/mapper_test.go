package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medvoyage/community-backend/internal/models"
)

func TestAuthorFromRowPlaceholder(t *testing.T) {
	got := AuthorFromRow(models.User{})
	assert.Equal(t, UnknownAuthor, got.Username)
	assert.Zero(t, got.ID)
}

func TestPostFromRowNormalizesImages(t *testing.T) {
	row := models.Post{
		ID:      7,
		Title:   "Recovery diary",
		Image:   "https://cdn.example.com/main.jpg",
		Gallery: "https://cdn.example.com/a.jpg,https://cdn.example.com/b.jpg",
		User:    models.User{ID: 3, Username: "anaPetrova4821"},
	}
	got := PostFromRow(row, nil, nil, 2, 5)

	assert.Equal(t, "https://cdn.example.com/main.jpg", got.MainImage.Asset.URL)
	assert.Len(t, got.Gallery, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", got.Gallery[0].Asset.URL)
	assert.Equal(t, 2, got.CommentCount)
	assert.Equal(t, 5, got.Score)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.Community)
}

func TestPostFromDocMatchesRowShape(t *testing.T) {
	doc := PostDoc{
		ID:        7,
		Title:     "Recovery diary",
		MainImage: "https://cdn.example.com/main.jpg",
		Gallery:   []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		Author:    &AuthorDoc{ID: 3, Username: "anaPetrova4821"},
	}
	fromDoc := PostFromDoc(doc, 2, 5)

	row := models.Post{
		ID:      7,
		Title:   "Recovery diary",
		Image:   "https://cdn.example.com/main.jpg",
		Gallery: "https://cdn.example.com/a.jpg,https://cdn.example.com/b.jpg",
		User:    models.User{ID: 3, Username: "anaPetrova4821"},
	}
	fromRow := PostFromRow(row, nil, nil, 2, 5)

	// Timestamps differ between backends; everything else must agree.
	fromDoc.CreatedAt = fromRow.CreatedAt
	assert.Equal(t, fromRow, fromDoc)
}

func TestCategorySlugShape(t *testing.T) {
	got := CategoryFromRow(models.Category{ID: 1, Name: "Dental", Slug: "dental"}, 4, 2, 1)
	assert.Equal(t, "dental", got.Slug.Current)
	assert.Equal(t, 4, got.QuestionCount)
	assert.Equal(t, 2, got.PostCount)
	assert.Equal(t, 1, got.PollCount)
}

func TestQuestionFromRowSplitsTags(t *testing.T) {
	row := models.Question{ID: 2, Title: "Best lasik clinics?", Tags: "lasik,istanbul"}
	got := QuestionFromRow(row, nil, 3, -1)
	assert.Equal(t, []string{"lasik", "istanbul"}, got.Tags)
	assert.Equal(t, 3, got.AnswerCount)
	assert.Equal(t, -1, got.Score)
	assert.Equal(t, UnknownAuthor, got.Author.Username)
}

func TestAnswerFromRowEmptyComments(t *testing.T) {
	got := AnswerFromRow(models.Answer{ID: 1, Content: "Go to Vienna"}, 0, nil)
	assert.NotNil(t, got.Comments)
	assert.Empty(t, got.Comments)
}

func TestPollFromRowAnonymousAuthor(t *testing.T) {
	poll := models.Poll{
		ID:       9,
		Question: "Which country for IVF?",
		Options: []models.PollOption{
			{ID: 1, Label: "Spain", VoteCount: 3},
			{ID: 2, Label: "Czechia", VoteCount: 5},
		},
	}
	got := PollFromRow(poll, nil, nil)
	assert.Equal(t, AnonymousAuthor, got.Author.Username)
	assert.Equal(t, 8, got.TotalVotes)
}

func TestPollFromDocOptionPositions(t *testing.T) {
	doc := PollDoc{
		ID:       9,
		Question: "Which country for IVF?",
		Options: []PollOptionDoc{
			{Label: "Spain", Votes: 3},
			{Label: "Czechia", Votes: 5},
		},
	}
	got := PollFromDoc(doc)
	assert.Equal(t, 1, got.Options[0].ID)
	assert.Equal(t, 0, got.Options[0].Position)
	assert.Equal(t, 2, got.Options[1].ID)
	assert.Equal(t, 1, got.Options[1].Position)
	assert.Equal(t, 8, got.TotalVotes)
}

func TestUserDocRoundTrip(t *testing.T) {
	u := models.User{
		ID:         4,
		Username:   "janKowalski3291",
		Email:      "jan@example.com",
		ExternalID: "prov-123",
		Role:       models.RoleUser,
	}
	back := UserFromDoc(UserToDoc(u))
	assert.Equal(t, u.ID, back.ID)
	assert.Equal(t, u.Username, back.Username)
	assert.Equal(t, u.Email, back.Email)
	assert.Equal(t, u.ExternalID, back.ExternalID)
	assert.Equal(t, u.Role, back.Role)
}
