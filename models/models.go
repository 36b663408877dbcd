package models

import "time"

// Profile is a user identity record. Profiles are created during seeding
// and never change afterwards.
type Profile struct {
	Id          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio,omitempty"`
	AvatarUrl   string `json:"avatar_url,omitempty"`
}

// Post with counters derived from the like, comment and share relations
type Post struct {
	Id           string    `json:"id"`
	AuthorId     string    `json:"author_id"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	ShareCount   int       `json:"share_count"`
}

type Comment struct {
	Id        string    `json:"id"`
	PostId    string    `json:"post_id"`
	UserId    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PostWithAuthor embeds the author profile for feed items
type PostWithAuthor struct {
	Post
	Author Profile `json:"author"`
}

type FeedResponse struct {
	Items      []PostWithAuthor `json:"items"`
	NextCursor *string          `json:"next_cursor"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
	Posts   []Post  `json:"posts"`
}

type LikeRequest struct {
	UserId string `json:"user_id"`
}

type CommentRequest struct {
	UserId string `json:"user_id"`
	Text   string `json:"text"`
}

type ShareRequest struct {
	UserId string `json:"user_id"`
}

type InteractionResponse struct {
	Post        Post     `json:"post"`
	LikedByUser *bool    `json:"liked_by_user"`
	NewComment  *Comment `json:"new_comment"`
}

type InteractionKind string

const (
	InteractionLike    InteractionKind = "like"
	InteractionUnlike  InteractionKind = "unlike"
	InteractionComment InteractionKind = "comment"
	InteractionShare   InteractionKind = "share"
)

// InteractionEvent fired after a like, comment or share was applied
type InteractionEvent struct {
	Kind    InteractionKind `json:"kind"`
	PostId  string          `json:"post_id"`
	UserId  string          `json:"user_id"`
	Post    Post            `json:"post"`
	Comment *Comment        `json:"comment,omitempty"`
	At      time.Time       `json:"at"`
}
