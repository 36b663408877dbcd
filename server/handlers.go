package server

import (
	"fmt"
	"socialfeed/models"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (h *handlers) getFeed(c *fiber.Ctx) error {
	cursor := c.Query("cursor", "")
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(h.config.DefaultLimit)))
	if err != nil || limit < 1 || limit > h.config.MaxLimit {
		return detail(c, fiber.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", h.config.MaxLimit))
	}

	log.WithFields(log.Fields{
		"cursor": cursor,
		"limit":  limit,
	}).Debug("Get feed with parameters")

	posts, nextCursor := h.config.Store.GetFeed(cursor, limit)

	items := make([]models.PostWithAuthor, 0, len(posts))
	for _, post := range posts {
		author, ok := h.config.Store.GetProfile(post.AuthorId)
		if !ok {
			log.WithFields(log.Fields{
				"post":   post.Id,
				"author": post.AuthorId,
			}).Error("Post references missing author")
			spanError(c, fmt.Errorf("post %s references missing author %s", post.Id, post.AuthorId))
			return detail(c, fiber.StatusInternalServerError, "Author not found")
		}
		items = append(items, models.PostWithAuthor{Post: post, Author: author})
	}

	return c.JSON(models.FeedResponse{
		Items:      items,
		NextCursor: nextCursor,
	})
}

func (h *handlers) getProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	profile, ok := h.config.Store.GetProfile(id)
	if !ok {
		return detail(c, fiber.StatusNotFound, "Profile not found")
	}

	posts := h.config.Store.GetPostsByAuthor(id)
	if posts == nil {
		posts = []models.Post{}
	}

	return c.JSON(models.ProfileResponse{
		Profile: profile,
		Posts:   posts,
	})
}

func (h *handlers) getComments(c *fiber.Ctx) error {
	comments, ok := h.config.Store.GetComments(c.Params("id"))
	if !ok {
		return detail(c, fiber.StatusNotFound, "Post not found")
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(comments)
}

func (h *handlers) likePost(c *fiber.Ctx) error {
	postId := c.Params("id")
	if _, ok := h.config.Store.GetPost(postId); !ok {
		return detail(c, fiber.StatusNotFound, "Post not found")
	}

	var body models.LikeRequest
	if err := parseBody(c, &body, &body.UserId); err != nil {
		return err
	}

	liked, ok := h.config.Store.ToggleLike(postId, body.UserId)
	post, _ := h.config.Store.GetPost(postId)

	// A missing like relation leaves the post untouched, nothing to publish
	if ok {
		kind := models.InteractionUnlike
		if liked {
			kind = models.InteractionLike
		}
		h.publish(c, kind, post, body.UserId, nil)
	}

	return c.JSON(models.InteractionResponse{
		Post:        post,
		LikedByUser: &liked,
	})
}

func (h *handlers) commentPost(c *fiber.Ctx) error {
	postId := c.Params("id")
	if _, ok := h.config.Store.GetPost(postId); !ok {
		return detail(c, fiber.StatusNotFound, "Post not found")
	}

	var body models.CommentRequest
	if err := parseBody(c, &body, &body.UserId); err != nil {
		return err
	}

	comment, ok := h.config.Store.AddComment(postId, body.UserId, body.Text)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Cannot add comment")
	}
	post, _ := h.config.Store.GetPost(postId)
	h.publish(c, models.InteractionComment, post, body.UserId, &comment)

	return c.JSON(models.InteractionResponse{
		Post:       post,
		NewComment: &comment,
	})
}

func (h *handlers) sharePost(c *fiber.Ctx) error {
	postId := c.Params("id")
	if _, ok := h.config.Store.GetPost(postId); !ok {
		return detail(c, fiber.StatusNotFound, "Post not found")
	}

	var body models.ShareRequest
	if err := parseBody(c, &body, &body.UserId); err != nil {
		return err
	}

	if !h.config.Store.AddShare(postId, body.UserId) {
		return detail(c, fiber.StatusBadRequest, "Cannot share")
	}
	post, _ := h.config.Store.GetPost(postId)
	h.publish(c, models.InteractionShare, post, body.UserId, nil)

	return c.JSON(models.InteractionResponse{
		Post: post,
	})
}

// parseBody decodes the JSON body into out and requires a user id. The
// returned *fiber.Error is rendered by errorHandler.
func parseBody(c *fiber.Ctx, out any, userId *string) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(*userId) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}
	return nil
}

func (h *handlers) publish(c *fiber.Ctx, kind models.InteractionKind, post models.Post, userId string, comment *models.Comment) {
	interactionsTotal.WithLabelValues(string(kind)).Inc()
	trace.SpanFromContext(c.UserContext()).AddEvent("Publishing interaction", trace.WithAttributes(
		attribute.String("interaction.kind", string(kind)),
		attribute.String("post.id", post.Id),
	))
	if h.config.Broadcaster == nil {
		return
	}
	h.config.Broadcaster.BroadcastInteraction(models.InteractionEvent{
		Kind:    kind,
		PostId:  post.Id,
		UserId:  userId,
		Post:    post,
		Comment: comment,
		At:      time.Now().UTC(),
	})
}

func (h *handlers) listPrompts(c *fiber.Ctx) error {
	return c.JSON(h.config.Prompts.All())
}

func (h *handlers) getPrompt(c *fiber.Ctx) error {
	p, ok := h.config.Prompts.Get(c.Params("name"))
	if !ok {
		return detail(c, fiber.StatusNotFound, "Prompt not found")
	}
	return c.JSON(p)
}
