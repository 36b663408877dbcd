package store

import (
	"socialfeed/models"
	"sort"

	"github.com/samber/lo"
)

// Membership is one user in a post's like or share relation
type Membership struct {
	PostId string
	UserId string
}

// Snapshot is a point in time copy of the store contents
type Snapshot struct {
	Profiles []models.Profile
	Posts    []models.Post
	Comments []models.Comment
	Likes    []Membership
	Shares   []Membership
}

// Snapshot copies the store. Profiles are sorted by id, posts and their
// relations follow feed order.
func (s *Store) Snapshot() Snapshot {
	s.RLock()
	defer s.RUnlock()

	profiles := lo.Map(lo.Values(s.profiles), func(p *models.Profile, _ int) models.Profile {
		return *p
	})
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Id < profiles[j].Id })

	snap := Snapshot{
		Profiles: profiles,
		Posts:    s.postsByIds(s.order),
	}
	for _, postId := range s.order {
		snap.Comments = append(snap.Comments, s.comments[postId]...)
		snap.Likes = append(snap.Likes, memberships(postId, s.likes[postId])...)
		snap.Shares = append(snap.Shares, memberships(postId, s.shares[postId])...)
	}
	return snap
}

func memberships(postId string, users map[string]struct{}) []Membership {
	userIds := lo.Keys(users)
	sort.Strings(userIds)
	return lo.Map(userIds, func(uid string, _ int) Membership {
		return Membership{PostId: postId, UserId: uid}
	})
}
