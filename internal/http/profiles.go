package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devconnector/internal/domain"
	"devconnector/internal/service"
)

type profileRequest struct {
	Status         string `json:"status" binding:"required"`
	Skills         string `json:"skills" binding:"required"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (profileRequest) fieldMessages() map[string]string {
	return map[string]string{
		"status": "Status is required",
		"skills": "Skills is required",
	}
}

type ProfileResponse struct {
	ID             string               `json:"id"`
	User           *ProfileUserResponse `json:"user"`
	Status         string               `json:"status"`
	Skills         []string             `json:"skills"`
	Company        string               `json:"company,omitempty"`
	Website        string               `json:"website,omitempty"`
	Location       string               `json:"location,omitempty"`
	Bio            string               `json:"bio,omitempty"`
	GithubUsername string               `json:"githubusername,omitempty"`
	Social         *SocialResponse      `json:"social,omitempty"`
	Date           string               `json:"date"`
	Updated        string               `json:"updated"`
}

type ProfileUserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type SocialResponse struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

func (h *Handler) myProfile(c *gin.Context) {
	profile, err := h.profiles.GetByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "There is no profile for this user"})
			return
		}
		h.serverError(c, err, "load own profile")
		return
	}

	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) upsertProfile(c *gin.Context) {
	req := body[profileRequest](c)

	profile, err := h.profiles.Upsert(c.Request.Context(), currentUserID(c), service.ProfileInput{
		Status:         req.Status,
		Skills:         req.Skills,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		if rejectedInput(c, err) {
			return
		}
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		h.serverError(c, err, "upsert profile")
		return
	}

	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) listProfiles(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "list profiles")
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = profileToResponse(profiles[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) profileByUser(c *gin.Context) {
	profile, err := h.profiles.GetByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid user id"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"msg": "This profile does not exist"})
		default:
			h.serverError(c, err, "load profile by user")
		}
		return
	}

	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.users.DeleteAccount(c.Request.Context(), currentUserID(c)); err != nil {
		h.serverError(c, err, "delete account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User removed"})
}

func profileToResponse(profile domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:             profile.ID,
		Status:         profile.Status,
		Skills:         profile.Skills,
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Bio:            profile.Bio,
		GithubUsername: profile.GithubUsername,
		Date:           profile.CreatedAt.Format(time.RFC3339),
		Updated:        profile.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if profile.User != nil {
		resp.User = &ProfileUserResponse{
			ID:     profile.User.ID,
			Name:   profile.User.Name,
			Avatar: profile.User.Avatar,
		}
	}
	if !profile.Social.IsZero() {
		resp.Social = &SocialResponse{
			Youtube:   profile.Social.Youtube,
			Twitter:   profile.Social.Twitter,
			Facebook:  profile.Social.Facebook,
			Linkedin:  profile.Social.Linkedin,
			Instagram: profile.Social.Instagram,
		}
	}
	return resp
}
