// Package store holds the in-memory social feed: profiles, posts and the
// per-post like, comment and share relations.
package store

import (
	"fmt"
	"socialfeed/feeds"
	"socialfeed/models"
	"sync"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Store owns all feed state. Counters on posts are always recomputed from
// the size of the matching relation when that relation changes.
type Store struct {
	sync.RWMutex

	profiles map[string]*models.Profile
	posts    map[string]*models.Post
	order    []string
	comments map[string][]models.Comment
	likes    map[string]map[string]struct{}
	shares   map[string]map[string]struct{}

	now func() time.Time
}

type Option func(*Store)

// WithClock replaces the time source used for seeding and new comments
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		now: func() time.Time { return time.Now().UTC() },
	}
	s.reset()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// reset drops all state. Callers hold the write lock.
func (s *Store) reset() {
	s.profiles = make(map[string]*models.Profile)
	s.posts = make(map[string]*models.Post)
	s.order = make([]string, 0)
	s.comments = make(map[string][]models.Comment)
	s.likes = make(map[string]map[string]struct{})
	s.shares = make(map[string]map[string]struct{})
}

// Read operations

// GetFeed returns a page of posts in feed order together with the cursor
// for the next page, which is nil at the end of the feed.
func (s *Store) GetFeed(cursor string, limit int) ([]models.Post, *string) {
	s.RLock()
	defer s.RUnlock()

	ids, nextCursor := feeds.Paginate(s.order, cursor, limit)
	return s.postsByIds(ids), nextCursor
}

func (s *Store) GetProfile(id string) (models.Profile, bool) {
	s.RLock()
	defer s.RUnlock()

	profile, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, false
	}
	return *profile, true
}

// GetPostsByAuthor returns the author's posts in feed order. It does not
// check that the profile exists.
func (s *Store) GetPostsByAuthor(id string) []models.Post {
	s.RLock()
	defer s.RUnlock()

	ids := lo.Filter(s.order, func(postId string, _ int) bool {
		return s.posts[postId].AuthorId == id
	})
	return s.postsByIds(ids)
}

func (s *Store) GetPost(id string) (models.Post, bool) {
	s.RLock()
	defer s.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return *post, true
}

// GetComments lists the comments on a post, oldest first. The second
// return value is false when the post is unknown.
func (s *Store) GetComments(postId string) ([]models.Comment, bool) {
	s.RLock()
	defer s.RUnlock()

	if _, ok := s.posts[postId]; !ok {
		return nil, false
	}
	comments := make([]models.Comment, len(s.comments[postId]))
	copy(comments, s.comments[postId])
	return comments, true
}

func (s *Store) postsByIds(ids []string) []models.Post {
	return lo.Map(ids, func(id string, _ int) models.Post {
		return *s.posts[id]
	})
}

// Write operations

// ToggleLike flips the user's like on a post and reports whether the post
// is liked by the user afterwards. ok is false, and nothing changes, when
// the post has no like relation.
func (s *Store) ToggleLike(postId, userId string) (liked, ok bool) {
	s.Lock()
	defer s.Unlock()

	users, ok := s.likes[postId]
	if !ok {
		log.WithFields(log.Fields{
			"post": postId,
		}).Warn("Like relation missing for post")
		return false, false
	}

	_, liked = users[userId]
	if liked {
		delete(users, userId)
	} else {
		users[userId] = struct{}{}
	}
	s.setCount(postId, func(p *models.Post) { p.LikeCount = len(users) })

	log.WithFields(log.Fields{
		"post":  postId,
		"user":  userId,
		"liked": !liked,
	}).Debug("Toggled like")

	return !liked, true
}

// AddComment appends a comment to a post. It returns false without
// changes when the post has no comment relation.
func (s *Store) AddComment(postId, userId, text string) (models.Comment, bool) {
	s.Lock()
	defer s.Unlock()

	comments, ok := s.comments[postId]
	if !ok {
		log.WithFields(log.Fields{
			"post": postId,
		}).Warn("Comment relation missing for post")
		return models.Comment{}, false
	}

	comment := models.Comment{
		Id:        commentId(postId, len(comments)+1),
		PostId:    postId,
		UserId:    userId,
		Text:      text,
		CreatedAt: s.now(),
	}
	comments = append(comments, comment)
	s.comments[postId] = comments
	s.setCount(postId, func(p *models.Post) { p.CommentCount = len(comments) })

	log.WithFields(log.Fields{
		"post":    postId,
		"user":    userId,
		"comment": comment.Id,
	}).Debug("Added comment")

	return comment, true
}

// AddShare records that the user shared the post. Sharing twice is not an
// error. It returns false without changes when the post has no share
// relation.
func (s *Store) AddShare(postId, userId string) bool {
	s.Lock()
	defer s.Unlock()

	users, ok := s.shares[postId]
	if !ok {
		log.WithFields(log.Fields{
			"post": postId,
		}).Warn("Share relation missing for post")
		return false
	}

	users[userId] = struct{}{}
	s.setCount(postId, func(p *models.Post) { p.ShareCount = len(users) })

	log.WithFields(log.Fields{
		"post": postId,
		"user": userId,
	}).Debug("Added share")

	return true
}

// setCount applies update to the post if it exists. Caller holds the lock.
func (s *Store) setCount(postId string, update func(*models.Post)) {
	if post, ok := s.posts[postId]; ok {
		update(post)
	}
}

func commentId(postId string, n int) string {
	return fmt.Sprintf("c%s-%d", postId, n)
}
