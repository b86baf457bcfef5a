// Package memory implements store.Store over content documents held in
// process memory. It doubles as the second content backend and as the
// storage used by tests; everything it returns passes through the same
// document mappers, so callers see the canonical shapes only.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
	"github.com/medvoyage/community-backend/internal/tags"
)

type voteKey struct {
	userID     int
	targetType string
	targetID   int
}

type Store struct {
	mu     sync.RWMutex
	nextID int

	users       map[int]*mapper.UserDoc
	questions   map[int]*mapper.QuestionDoc
	answers     map[int]*mapper.AnswerDoc
	posts       map[int]*mapper.PostDoc
	comments    map[int]*mapper.CommentDoc
	categories  map[int]*mapper.CategoryDoc
	communities map[int]*mapper.CommunityDoc
	polls       map[int]*mapper.PollDoc
	pollVoters  map[int]map[int]bool
	votes       map[voteKey]int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       make(map[int]*mapper.UserDoc),
		questions:   make(map[int]*mapper.QuestionDoc),
		answers:     make(map[int]*mapper.AnswerDoc),
		posts:       make(map[int]*mapper.PostDoc),
		comments:    make(map[int]*mapper.CommentDoc),
		categories:  make(map[int]*mapper.CategoryDoc),
		communities: make(map[int]*mapper.CommunityDoc),
		polls:       make(map[int]*mapper.PollDoc),
		pollVoters:  make(map[int]map[int]bool),
		votes:       make(map[voteKey]int),
	}
}

func (s *Store) nextIDLocked() int {
	s.nextID++
	return s.nextID
}

func (s *Store) authorDocLocked(userID int) *mapper.AuthorDoc {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	return &mapper.AuthorDoc{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
}

func (s *Store) categoryDocLocked(id *int) *mapper.CategoryDoc {
	if id == nil {
		return nil
	}
	return s.categories[*id]
}

func (s *Store) communityDocLocked(id *int) *mapper.CommunityDoc {
	if id == nil {
		return nil
	}
	return s.communities[*id]
}

// === Users ===

func (s *Store) UserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.users {
		if d.ExternalID != "" && d.ExternalID == externalID {
			u := mapper.UserFromDoc(*d)
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	u := mapper.UserFromDoc(*d)
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.users {
		if d.Username == username {
			u := mapper.UserFromDoc(*d)
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.users {
		if d.Email == email {
			u := mapper.UserFromDoc(*d)
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.users {
		if d.Username == u.Username || d.Email == u.Email ||
			(u.ExternalID != "" && d.ExternalID == u.ExternalID) {
			return apperrors.Duplicate("user")
		}
	}
	u.ID = s.nextIDLocked()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	doc := mapper.UserToDoc(*u)
	s.users[u.ID] = &doc
	return nil
}

// === Questions ===

func (s *Store) answerCountLocked(questionID int) int {
	n := 0
	for _, a := range s.answers {
		if a.QuestionID == questionID && !a.Deleted {
			n++
		}
	}
	return n
}

func (s *Store) scoreLocked(targetType string, targetID int) int {
	score := 0
	for k, v := range s.votes {
		if k.targetType == targetType && k.targetID == targetID {
			score += v
		}
	}
	return score
}

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) (*mapper.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.CategoryID != nil {
		if _, ok := s.categories[*q.CategoryID]; !ok {
			return nil, apperrors.Invalid("category reference does not exist")
		}
	}
	doc := &mapper.QuestionDoc{
		ID:          s.nextIDLocked(),
		Title:       q.Title,
		Description: q.Description,
		Author:      s.authorDocLocked(q.AuthorID),
		Category:    s.categoryDocLocked(q.CategoryID),
		Tags:        tags.Split(q.Tags),
		PublishedAt: time.Now().UTC(),
	}
	s.questions[doc.ID] = doc
	q.ID = doc.ID
	out := mapper.QuestionFromDoc(*doc, 0, 0)
	return &out, nil
}

func (s *Store) QuestionByID(ctx context.Context, id int) (*mapper.Question, []mapper.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.questions[id]
	if !ok || d.Deleted {
		return nil, nil, apperrors.NotFound("question")
	}
	q := mapper.QuestionFromDoc(*d, s.answerCountLocked(id), s.scoreLocked(models.TargetQuestion, id))

	var docs []*mapper.AnswerDoc
	for _, a := range s.answers {
		if a.QuestionID == id && !a.Deleted {
			docs = append(docs, a)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].PublishedAt.Before(docs[j].PublishedAt) })

	answers := make([]mapper.Answer, 0, len(docs))
	for _, a := range docs {
		answers = append(answers, mapper.AnswerFromDoc(*a,
			s.scoreLocked(models.TargetAnswer, a.ID),
			s.commentsForAnswerLocked(a.ID)))
	}
	return &q, answers, nil
}

func (s *Store) ListQuestions(ctx context.Context, f store.QuestionFilter) ([]mapper.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*mapper.QuestionDoc
	for _, d := range s.questions {
		if d.Deleted {
			continue
		}
		if f.CategoryID != nil && (d.Category == nil || d.Category.ID != *f.CategoryID) {
			continue
		}
		if f.AuthorID != nil && (d.Author == nil || d.Author.ID != *f.AuthorID) {
			continue
		}
		if f.Search != "" && !containsFold(d.Title, f.Search) && !containsFold(d.Description, f.Search) {
			continue
		}
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].PublishedAt.After(docs[j].PublishedAt) })

	out := make([]mapper.Question, 0, len(docs))
	for _, d := range docs {
		out = append(out, mapper.QuestionFromDoc(*d, s.answerCountLocked(d.ID), s.scoreLocked(models.TargetQuestion, d.ID)))
	}
	return out, nil
}

func (s *Store) SoftDeleteQuestion(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.questions[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("question")
	}
	d.Deleted = true
	return nil
}

func (s *Store) CloseQuestion(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.questions[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("question")
	}
	d.Closed = true
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.questions[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("question")
	}
	d.Views++
	return nil
}

// === Answers ===

func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) (*mapper.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[a.QuestionID]
	if !ok || q.Deleted {
		return nil, apperrors.NotFound("question")
	}
	if q.Closed {
		return nil, apperrors.Invalid("question is closed")
	}
	doc := &mapper.AnswerDoc{
		ID:          s.nextIDLocked(),
		QuestionID:  a.QuestionID,
		Body:        a.Content,
		Author:      s.authorDocLocked(a.AuthorID),
		PublishedAt: time.Now().UTC(),
	}
	s.answers[doc.ID] = doc
	a.ID = doc.ID
	out := mapper.AnswerFromDoc(*doc, 0, nil)
	return &out, nil
}

func (s *Store) AnswerByID(ctx context.Context, id int) (*mapper.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.answers[id]
	if !ok || d.Deleted {
		return nil, apperrors.NotFound("answer")
	}
	out := mapper.AnswerFromDoc(*d, s.scoreLocked(models.TargetAnswer, id), s.commentsForAnswerLocked(id))
	return &out, nil
}

func (s *Store) AcceptAnswer(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.answers[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("answer")
	}
	// One accepted answer per question: clear any sibling first.
	for _, other := range s.answers {
		if other.QuestionID == d.QuestionID {
			other.Accepted = false
		}
	}
	d.Accepted = true
	if q, ok := s.questions[d.QuestionID]; ok {
		q.Answered = true
	}
	return nil
}

func (s *Store) SoftDeleteAnswer(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.answers[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("answer")
	}
	d.Deleted = true
	if d.Accepted {
		d.Accepted = false
		if q, ok := s.questions[d.QuestionID]; ok {
			q.Answered = false
		}
	}
	return nil
}

// === Posts ===

func (s *Store) commentCountLocked(postID int) int {
	n := 0
	for _, c := range s.comments {
		if c.PostID != nil && *c.PostID == postID && !c.Deleted {
			n++
		}
	}
	return n
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) (*mapper.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := s.categoryDocLocked(p.CategoryID)
	community := s.communityDocLocked(p.CommunityID)

	// Category and community are overloaded in parts of the upstream
	// schema: when the category reference does not resolve, retry it as a
	// community reference before giving up.
	if p.CategoryID != nil && category == nil {
		if c, ok := s.communities[*p.CategoryID]; ok {
			community = c
			p.CommunityID = p.CategoryID
			p.CategoryID = nil
		} else {
			return nil, apperrors.Invalid("category reference does not exist")
		}
	}
	if p.CommunityID != nil && community == nil {
		return nil, apperrors.Invalid("community reference does not exist")
	}

	doc := &mapper.PostDoc{
		ID:          s.nextIDLocked(),
		Title:       p.Title,
		Body:        p.Body,
		MainImage:   p.Image,
		Gallery:     tags.Split(p.Gallery),
		Author:      s.authorDocLocked(p.AuthorID),
		Category:    category,
		Community:   community,
		Tags:        tags.Split(p.Tags),
		PublishedAt: time.Now().UTC(),
	}
	s.posts[doc.ID] = doc
	p.ID = doc.ID
	out := mapper.PostFromDoc(*doc, 0, 0)
	return &out, nil
}

func (s *Store) PostByID(ctx context.Context, id int) (*mapper.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.posts[id]
	if !ok || d.Deleted {
		return nil, apperrors.NotFound("post")
	}
	out := mapper.PostFromDoc(*d, s.commentCountLocked(id), s.scoreLocked(models.TargetPost, id))
	return &out, nil
}

func (s *Store) ListPosts(ctx context.Context, f store.PostFilter) ([]mapper.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*mapper.PostDoc
	for _, d := range s.posts {
		if d.Deleted {
			continue
		}
		if f.CategoryID != nil && (d.Category == nil || d.Category.ID != *f.CategoryID) {
			continue
		}
		if f.CommunityID != nil && (d.Community == nil || d.Community.ID != *f.CommunityID) {
			continue
		}
		if f.AuthorID != nil && (d.Author == nil || d.Author.ID != *f.AuthorID) {
			continue
		}
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].PublishedAt.After(docs[j].PublishedAt) })

	out := make([]mapper.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, mapper.PostFromDoc(*d, s.commentCountLocked(d.ID), s.scoreLocked(models.TargetPost, d.ID)))
	}
	return out, nil
}

func (s *Store) SoftDeletePost(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.posts[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("post")
	}
	d.Deleted = true
	return nil
}

func (s *Store) ReportPost(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.posts[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("post")
	}
	d.Reported = true
	return nil
}

// === Comments ===

func (s *Store) commentsForAnswerLocked(answerID int) []mapper.Comment {
	var docs []*mapper.CommentDoc
	for _, c := range s.comments {
		if c.AnswerID != nil && *c.AnswerID == answerID && !c.Deleted {
			docs = append(docs, c)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].PublishedAt.Before(docs[j].PublishedAt) })
	out := make([]mapper.Comment, 0, len(docs))
	for _, c := range docs {
		out = append(out, mapper.CommentFromDoc(*c, s.scoreLocked(models.TargetComment, c.ID)))
	}
	return out
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) (*mapper.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if (c.PostID == nil) == (c.AnswerID == nil) {
		return nil, apperrors.Invalid("comment must reference exactly one of post or answer")
	}
	if c.PostID != nil {
		p, ok := s.posts[*c.PostID]
		if !ok || p.Deleted {
			return nil, apperrors.NotFound("post")
		}
	}
	if c.AnswerID != nil {
		a, ok := s.answers[*c.AnswerID]
		if !ok || a.Deleted {
			return nil, apperrors.NotFound("answer")
		}
	}
	if c.ParentCommentID != nil {
		parent, ok := s.comments[*c.ParentCommentID]
		if !ok || parent.Deleted {
			return nil, apperrors.NotFound("parent comment")
		}
	}
	doc := &mapper.CommentDoc{
		ID:          s.nextIDLocked(),
		Text:        c.Body,
		Author:      s.authorDocLocked(c.AuthorID),
		PostID:      c.PostID,
		AnswerID:    c.AnswerID,
		ParentID:    c.ParentCommentID,
		PublishedAt: time.Now().UTC(),
	}
	s.comments[doc.ID] = doc
	c.ID = doc.ID
	out := mapper.CommentFromDoc(*doc, 0)
	return &out, nil
}

func (s *Store) CommentByID(ctx context.Context, id int) (*mapper.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.comments[id]
	if !ok || d.Deleted {
		return nil, apperrors.NotFound("comment")
	}
	out := mapper.CommentFromDoc(*d, s.scoreLocked(models.TargetComment, id))
	return &out, nil
}

func (s *Store) CommentsForPost(ctx context.Context, postID int) ([]mapper.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*mapper.CommentDoc
	for _, c := range s.comments {
		if c.PostID != nil && *c.PostID == postID && !c.Deleted {
			docs = append(docs, c)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].PublishedAt.Before(docs[j].PublishedAt) })
	out := make([]mapper.Comment, 0, len(docs))
	for _, c := range docs {
		out = append(out, mapper.CommentFromDoc(*c, s.scoreLocked(models.TargetComment, c.ID)))
	}
	return out, nil
}

func (s *Store) CommentsForAnswer(ctx context.Context, answerID int) ([]mapper.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commentsForAnswerLocked(answerID), nil
}

func (s *Store) SoftDeleteComment(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.comments[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("comment")
	}
	d.Deleted = true
	return nil
}

func (s *Store) ReportComment(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.comments[id]
	if !ok || d.Deleted {
		return apperrors.NotFound("comment")
	}
	d.Reported = true
	return nil
}

// === Votes ===

func (s *Store) TargetExists(ctx context.Context, targetType string, targetID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch targetType {
	case models.TargetPost:
		d, ok := s.posts[targetID]
		return ok && !d.Deleted, nil
	case models.TargetComment:
		d, ok := s.comments[targetID]
		return ok && !d.Deleted, nil
	case models.TargetAnswer:
		d, ok := s.answers[targetID]
		return ok && !d.Deleted, nil
	case models.TargetQuestion:
		d, ok := s.questions[targetID]
		return ok && !d.Deleted, nil
	}
	return false, apperrors.Invalid("unknown vote target type: " + targetType)
}

func (s *Store) UpsertVote(ctx context.Context, userID int, targetType string, targetID, value int) (store.VoteOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey{userID: userID, targetType: targetType, targetID: targetID}
	current, exists := s.votes[key]
	switch {
	case exists && current == value:
		// Same direction twice toggles the vote off.
		delete(s.votes, key)
		return store.VoteRemoved, nil
	case exists:
		s.votes[key] = value
		return store.VoteUpdated, nil
	default:
		s.votes[key] = value
		return store.VoteCreated, nil
	}
}

func (s *Store) VoteTally(ctx context.Context, targetType string, targetID int) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	up, down := 0, 0
	for k, v := range s.votes {
		if k.targetType != targetType || k.targetID != targetID {
			continue
		}
		if v > 0 {
			up++
		} else {
			down++
		}
	}
	return up, down, nil
}

func (s *Store) UserVote(ctx context.Context, userID int, targetType string, targetID int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.votes[voteKey{userID: userID, targetType: targetType, targetID: targetID}], nil
}

// === Categories ===

func (s *Store) categoryCountsLocked(categoryID int) (questions, posts, polls int) {
	for _, q := range s.questions {
		if !q.Deleted && q.Category != nil && q.Category.ID == categoryID {
			questions++
		}
	}
	for _, p := range s.posts {
		if !p.Deleted && p.Category != nil && p.Category.ID == categoryID {
			posts++
		}
	}
	for _, p := range s.polls {
		if p.Category != nil && p.Category.ID == categoryID {
			polls++
		}
	}
	return questions, posts, polls
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) (*mapper.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.categories {
		if d.Slug == c.Slug {
			return nil, apperrors.Duplicate("category")
		}
	}
	doc := &mapper.CategoryDoc{
		ID:          s.nextIDLocked(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
	}
	s.categories[doc.ID] = doc
	c.ID = doc.ID
	out := mapper.CategoryFromDoc(*doc, 0, 0, 0)
	return &out, nil
}

func (s *Store) listCategoriesLocked() []mapper.Category {
	var docs []*mapper.CategoryDoc
	for _, d := range s.categories {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	out := make([]mapper.Category, 0, len(docs))
	for _, d := range docs {
		q, p, pl := s.categoryCountsLocked(d.ID)
		out = append(out, mapper.CategoryFromDoc(*d, q, p, pl))
	}
	return out
}

func (s *Store) ListCategories(ctx context.Context) ([]mapper.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listCategoriesLocked(), nil
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (*mapper.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.categories {
		if d.Slug == slug {
			q, p, pl := s.categoryCountsLocked(d.ID)
			out := mapper.CategoryFromDoc(*d, q, p, pl)
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("category")
}

func (s *Store) TrendingCategories(ctx context.Context, n int) ([]mapper.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cats := s.listCategoriesLocked()
	// Stable sort keeps the insertion order for equal activity.
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].QuestionCount+cats[i].PostCount > cats[j].QuestionCount+cats[j].PostCount
	})
	if n > 0 && len(cats) > n {
		cats = cats[:n]
	}
	return cats, nil
}

// === Communities ===

func (s *Store) CreateCommunity(ctx context.Context, c *models.Community) (*mapper.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.communities {
		if d.Slug == c.Slug {
			return nil, apperrors.Duplicate("community")
		}
	}
	doc := &mapper.CommunityDoc{
		ID:          s.nextIDLocked(),
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		Moderator:   s.authorDocLocked(c.ModeratorID),
		ImageURL:    c.Image,
	}
	s.communities[doc.ID] = doc
	c.ID = doc.ID
	out := mapper.CommunityFromDoc(*doc)
	return &out, nil
}

func (s *Store) ListCommunities(ctx context.Context) ([]mapper.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*mapper.CommunityDoc
	for _, d := range s.communities {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	out := make([]mapper.Community, 0, len(docs))
	for _, d := range docs {
		out = append(out, mapper.CommunityFromDoc(*d))
	}
	return out, nil
}

func (s *Store) CommunityBySlug(ctx context.Context, slug string) (*mapper.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.communities {
		if d.Slug == slug {
			out := mapper.CommunityFromDoc(*d)
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("community")
}

// === Polls ===

func (s *Store) CreatePoll(ctx context.Context, p *models.Poll) (*mapper.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	options := make([]mapper.PollOptionDoc, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, mapper.PollOptionDoc{Label: o.Label})
	}
	var author *mapper.AuthorDoc
	if p.AuthorID != nil {
		author = s.authorDocLocked(*p.AuthorID)
	}
	doc := &mapper.PollDoc{
		ID:          s.nextIDLocked(),
		Question:    p.Question,
		Author:      author,
		Category:    s.categoryDocLocked(p.CategoryID),
		Expiry:      p.ExpiresAt,
		Options:     options,
		PublishedAt: time.Now().UTC(),
	}
	s.polls[doc.ID] = doc
	s.pollVoters[doc.ID] = make(map[int]bool)
	p.ID = doc.ID
	out := mapper.PollFromDoc(*doc)
	return &out, nil
}

func (s *Store) PollByID(ctx context.Context, id int) (*mapper.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.polls[id]
	if !ok {
		return nil, apperrors.NotFound("poll")
	}
	out := mapper.PollFromDoc(*d)
	return &out, nil
}

func (s *Store) ListPolls(ctx context.Context) ([]mapper.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*mapper.PollDoc
	for _, d := range s.polls {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].PublishedAt.After(docs[j].PublishedAt) })
	out := make([]mapper.Poll, 0, len(docs))
	for _, d := range docs {
		out = append(out, mapper.PollFromDoc(*d))
	}
	return out, nil
}

func (s *Store) VotePoll(ctx context.Context, pollID, optionID, userID int) (*mapper.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.polls[pollID]
	if !ok {
		return nil, apperrors.NotFound("poll")
	}
	if !d.Expiry.IsZero() && time.Now().After(d.Expiry) {
		return nil, apperrors.Invalid("poll has expired")
	}
	if optionID < 1 || optionID > len(d.Options) {
		return nil, apperrors.Invalid("unknown poll option")
	}
	if s.pollVoters[pollID][userID] {
		return nil, apperrors.Duplicate("poll vote")
	}
	d.Options[optionID-1].Votes++
	s.pollVoters[pollID][userID] = true
	out := mapper.PollFromDoc(*d)
	return &out, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
