package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devconnector/internal/domain"
	"devconnector/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=26"`
}

func (registerRequest) fieldMessages() map[string]string {
	return map[string]string{
		"name":     "Please enter your name",
		"email":    "Please enter a valid email",
		"password": "Please enter a valid password between 6 and 26 characters",
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (loginRequest) fieldMessages() map[string]string {
	return map[string]string{
		"email":    "Please enter a valid email",
		"password": "Please enter a valid password",
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Date   string `json:"date"`
}

func (h *Handler) register(c *gin.Context) {
	req := body[registerRequest](c)

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if rejectedInput(c, err) {
			return
		}
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, errorList("This email already exists"))
			return
		}
		h.serverError(c, err, "register user")
		return
	}

	h.respondWithToken(c, user.ID)
}

func (h *Handler) login(c *gin.Context) {
	req := body[loginRequest](c)

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errorList("Invalid Credentials"))
			return
		}
		h.serverError(c, err, "authenticate user")
		return
	}

	h.respondWithToken(c, user.ID)
}

func (h *Handler) respondWithToken(c *gin.Context, userID string) {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		h.serverError(c, err, "issue token")
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		h.serverError(c, err, "load current user")
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Date:   user.CreatedAt.Format(time.RFC3339),
	}
}
