package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/service/auth"
	"github.com/solnguyen93/flightcast/internal/service/bookmarks"
)

type UserHandler struct {
	auth      auth.AuthUseCase
	bookmarks bookmarks.BookmarkUseCase
	log       *logrus.Logger
}

func NewUserHandler(auth auth.AuthUseCase, bookmarks bookmarks.BookmarkUseCase, log *logrus.Logger) *UserHandler {
	return &UserHandler{auth: auth, bookmarks: bookmarks, log: log}
}

func (h *UserHandler) Register(router gin.IRoutes) {
	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
	router.GET("/users/:id", h.show)
	router.PUT("/users/profile", h.updateProfile)
	router.POST("/users/delete", h.deleteAccount)
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type profileRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *UserHandler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": err.Error()})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "email is required"})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), auth.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	sess := SessionFrom(c)
	sess.UserID = user.ID
	sess.Flash("welcome-msg", "Hello, "+user.Username+".")

	c.JSON(http.StatusCreated, gin.H{"status": "success", "user": userResponse{ID: user.ID, Username: user.Username, Email: user.Email}})
}

func (h *UserHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": err.Error()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	sess := SessionFrom(c)
	sess.UserID = user.ID
	sess.Flash("welcome-msg", "Hello, "+user.Username+".")

	c.JSON(http.StatusOK, gin.H{"status": "success", "user": userResponse{ID: user.ID, Username: user.Username, Email: user.Email}})
}

// logout wipes the whole session, upstream token and cached search results
// included.
func (h *UserHandler) logout(c *gin.Context) {
	sess := SessionFrom(c)
	sess.Reset()
	sess.Flash("welcome-msg", "Signed out successfully. See you again soon.")
	c.Redirect(http.StatusFound, "/")
}

// show renders a profile; only the owner may view it.
func (h *UserHandler) show(c *gin.Context) {
	user := UserFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "invalid id"})
		return
	}
	if user == nil || user.ID != id {
		sess := SessionFrom(c)
		sess.Flash("danger", "Access unauthorized.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	saved, err := h.bookmarks.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
		"saved_flights": toSavedFlightResponses(saved),
	})
}

func (h *UserHandler) updateProfile(c *gin.Context) {
	user := UserFrom(c)
	if user == nil {
		h.fail(c, domain.ErrUnauthenticated)
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": err.Error()})
		return
	}

	updated, err := h.auth.UpdateProfile(c.Request.Context(), user.ID, auth.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile updated successfully",
		"user":    userResponse{ID: updated.ID, Username: updated.Username, Email: updated.Email},
	})
}

// deleteAccount removes the caller's account (saved flights cascade) and
// signs the session out.
func (h *UserHandler) deleteAccount(c *gin.Context) {
	user := UserFrom(c)
	if user == nil {
		h.fail(c, domain.ErrUnauthenticated)
		return
	}

	if err := h.auth.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		h.fail(c, err)
		return
	}

	sess := SessionFrom(c)
	sess.Reset()
	sess.Flash("welcome-msg", "Signed out successfully. See you again soon.")
	c.Redirect(http.StatusFound, "/")
}
