package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
)

type PostHandler struct {
	createPostUseCase    *postUC.CreatePostUseCase
	listPostsUseCase     *postUC.ListPostsUseCase
	getPostUseCase       *postUC.GetPostUseCase
	deletePostUseCase    *postUC.DeletePostUseCase
	likePostUseCase      *postUC.LikePostUseCase
	unlikePostUseCase    *postUC.UnlikePostUseCase
	addCommentUseCase    *postUC.AddCommentUseCase
	removeCommentUseCase *postUC.RemoveCommentUseCase
}

func NewPostHandler(
	createUC *postUC.CreatePostUseCase,
	listUC *postUC.ListPostsUseCase,
	getUC *postUC.GetPostUseCase,
	deleteUC *postUC.DeletePostUseCase,
	likeUC *postUC.LikePostUseCase,
	unlikeUC *postUC.UnlikePostUseCase,
	addCommentUC *postUC.AddCommentUseCase,
	removeCommentUC *postUC.RemoveCommentUseCase,
) *PostHandler {
	return &PostHandler{
		createPostUseCase:    createUC,
		listPostsUseCase:     listUC,
		getPostUseCase:       getUC,
		deletePostUseCase:    deleteUC,
		likePostUseCase:      likeUC,
		unlikePostUseCase:    unlikeUC,
		addCommentUseCase:    addCommentUC,
		removeCommentUseCase: removeCommentUC,
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.createPostUseCase.Execute(c.Request.Context(), postUC.CreatePostInput{OwnerID: userID, Text: req.Text})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.listPostsUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id", "Post")
	if !ok {
		return
	}

	p, err := h.getPostUseCase.Execute(c.Request.Context(), postID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post")
	if !ok {
		return
	}

	if err := h.deletePostUseCase.Execute(c.Request.Context(), postUC.DeletePostInput{PostID: postID, OwnerID: userID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Msg: "Post removed"})
}

func (h *PostHandler) LikePost(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post")
	if !ok {
		return
	}

	likes, err := h.likePostUseCase.Execute(c.Request.Context(), postUC.LikeInput{PostID: postID, UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (h *PostHandler) UnlikePost(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post")
	if !ok {
		return
	}

	likes, err := h.unlikePostUseCase.Execute(c.Request.Context(), postUC.LikeInput{PostID: postID, UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post")
	if !ok {
		return
	}
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.addCommentUseCase.Execute(c.Request.Context(), postUC.AddCommentInput{PostID: postID, UserID: userID, Text: req.Text})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) RemoveComment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id", "Comment")
	if !ok {
		return
	}

	p, err := h.removeCommentUseCase.Execute(c.Request.Context(), postUC.RemoveCommentInput{PostID: postID, CommentID: commentID, UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}
