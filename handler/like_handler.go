package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"like-service/metrics"
	"like-service/middleware"
	models "like-service/model"
	"like-service/repository"
)

const defaultLikedPostsLimit = 20

type LikeHandler struct {
	likeRepo repository.LikeRepository
}

func NewLikeHandler(likeRepo repository.LikeRepository) *LikeHandler {
	return &LikeHandler{
		likeRepo: likeRepo,
	}
}

// RegisterRoutes wires the handler onto the router. Count and liked-posts
// reads are public; everything touching the caller's identity requires auth.
func (h *LikeHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	router.GET("/likes/:postID/count", h.GetLikesCount)
	router.GET("/users/:userID/likes", h.GetUserLikedPosts)

	authed := router.Group("", auth)
	authed.GET("/likes/:postID/status", h.HasUserLikedPost)
	authed.POST("/likes/:postID", h.LikePost)
	authed.DELETE("/likes/:postID", h.UnlikePost)
}

// GetLikesCount returns the cached like count for a post.
func (h *LikeHandler) GetLikesCount(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id format"})
		return
	}

	count, err := h.likeRepo.GetLikesCount(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get likes count"})
		return
	}

	c.JSON(http.StatusOK, models.LikeInfo{Count: count})
}

// HasUserLikedPost reports whether a user currently likes a post. The
// user defaults to the authenticated caller and can be overridden with
// the user_id query parameter.
func (h *LikeHandler) HasUserLikedPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id format"})
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if raw := c.Query("user_id"); raw != "" {
		userID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id format"})
			return
		}
	}

	liked, err := h.likeRepo.IsPostLikedByUser(c.Request.Context(), userID, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check like status"})
		return
	}

	c.JSON(http.StatusOK, models.PostLikeStatus{PostID: postID, IsLiked: liked})
}

// LikePost records a like by the authenticated caller. Liking an
// already-liked post succeeds without changing anything.
func (h *LikeHandler) LikePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id format"})
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.likeRepo.LikePost(c.Request.Context(), userID, postID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to like post"})
		return
	}

	metrics.LikesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "post liked successfully"})
}

// UnlikePost removes the authenticated caller's like. Unliking a post
// that was never liked succeeds without changing anything.
func (h *LikeHandler) UnlikePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("postID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id format"})
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.likeRepo.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlike post"})
		return
	}

	metrics.UnlikesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "post unliked successfully"})
}

// GetUserLikedPosts returns a page of post ids liked by a user, most
// recently liked first.
func (h *LikeHandler) GetUserLikedPosts(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id format"})
		return
	}

	limit, err := queryInt(c, "limit", defaultLikedPostsLimit)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	postIDs, err := h.likeRepo.GetUserLikedPosts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get liked posts"})
		return
	}

	c.JSON(http.StatusOK, models.LikedPostsPage{
		PostIDs: postIDs,
		Limit:   limit,
		Offset:  offset,
	})
}

func queryInt(c *gin.Context, name string, defaultValue int64) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
