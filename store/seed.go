package store

import (
	"fmt"
	"math/rand"
	"socialfeed/models"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	maxSeedLikes    = 8
	maxSeedComments = 3
	maxSeedShares   = 4

	avatarBaseUrl = "https://api.dicebear.com/7.x/identicon/svg?seed="
)

// Seed replaces the store contents with generated profiles and posts. All
// randomness comes from randomSeed, so the same arguments produce the same
// dataset apart from timestamps. Feed order is post ids sorted descending.
// Negative counts are treated as zero.
func (s *Store) Seed(profileCount, postCount int, randomSeed int64) {
	s.Lock()
	defer s.Unlock()

	s.reset()
	profileCount = max(profileCount, 0)
	postCount = max(postCount, 0)

	r := rand.New(rand.NewSource(randomSeed))
	now := s.now()

	profileWidth := padWidth(profileCount, 2)
	userIds := make([]string, 0, profileCount)
	for i := 1; i <= profileCount; i++ {
		num := fmt.Sprintf("%0*d", profileWidth, i)
		profile := &models.Profile{
			Id:          "u" + num,
			Handle:      "user" + num,
			DisplayName: "User " + num,
		}
		profile.Bio = fmt.Sprintf("This is bio for %s.", profile.DisplayName)
		profile.AvatarUrl = avatarBaseUrl + profile.Handle
		s.profiles[profile.Id] = profile
		userIds = append(userIds, profile.Id)
	}

	if len(userIds) == 0 && postCount > 0 {
		log.Warn("No profiles to author posts, skipping post generation")
		postCount = 0
	}

	postWidth := padWidth(postCount, 3)
	for i := 0; i < postCount; i++ {
		post := &models.Post{
			Id:        fmt.Sprintf("p%0*d", postWidth, i+1),
			AuthorId:  userIds[r.Intn(len(userIds))],
			Text:      randomSentence(r, 12+(i%12)),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
		s.posts[post.Id] = post
		s.order = append(s.order, post.Id)
		s.comments[post.Id] = []models.Comment{}
		s.likes[post.Id] = make(map[string]struct{})
		s.shares[post.Id] = make(map[string]struct{})
	}

	for _, postId := range s.order {
		post := s.posts[postId]

		for _, uid := range sample(r, userIds, r.Intn(min(maxSeedLikes, len(userIds))+1)) {
			s.likes[postId][uid] = struct{}{}
		}
		post.LikeCount = len(s.likes[postId])

		for n := r.Intn(maxSeedComments + 1); n > 0; n-- {
			comments := s.comments[postId]
			s.comments[postId] = append(comments, models.Comment{
				Id:        commentId(postId, len(comments)+1),
				PostId:    postId,
				UserId:    userIds[r.Intn(len(userIds))],
				Text:      randomSentence(r, 5+r.Intn(12)),
				CreatedAt: now,
			})
		}
		post.CommentCount = len(s.comments[postId])

		for _, uid := range sample(r, userIds, r.Intn(min(maxSeedShares, len(userIds))+1)) {
			s.shares[postId][uid] = struct{}{}
		}
		post.ShareCount = len(s.shares[postId])
	}

	// Keep latest first
	sort.Sort(sort.Reverse(sort.StringSlice(s.order)))

	var commentCount int
	for _, comments := range s.comments {
		commentCount += len(comments)
	}
	seededEntities.WithLabelValues("profiles").Set(float64(len(s.profiles)))
	seededEntities.WithLabelValues("posts").Set(float64(len(s.posts)))
	seededEntities.WithLabelValues("comments").Set(float64(commentCount))

	log.WithFields(log.Fields{
		"profiles": len(s.profiles),
		"posts":    len(s.posts),
		"seed":     randomSeed,
	}).Info("Seeded store")
}

// padWidth returns the zero padding needed so that ids up to count sort
// lexicographically in numeric order, but never less than minimum.
func padWidth(count, minimum int) int {
	return max(minimum, len(fmt.Sprint(count)))
}

// sample picks k distinct elements from items without replacement
func sample(r *rand.Rand, items []string, k int) []string {
	picked := make([]string, 0, k)
	for _, idx := range r.Perm(len(items))[:k] {
		picked = append(picked, items[idx])
	}
	return picked
}

func randomSentence(r *rand.Rand, words int) string {
	parts := make([]string, words)
	for i := range parts {
		letters := make([]byte, 3+r.Intn(8))
		for j := range letters {
			letters[j] = byte('a' + r.Intn(26))
		}
		parts[i] = string(letters)
	}
	sentence := strings.Join(parts, " ")
	if sentence == "" {
		return "."
	}
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}
