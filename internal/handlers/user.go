package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamehub-dev/gamehub/internal/middleware"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/services"
)

type RegisterRequest struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Surname        string `json:"surname" binding:"required"`
	Password       string `json:"password" binding:"required"`
	RepeatPassword string `json:"repeatPassword" binding:"required"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

type UpdateAvatarRequest struct {
	Image       string `json:"image" binding:"required"` // base64
	ContentType string `json:"contentType" binding:"required"`
}

type ResetPasswordRequest struct {
	Token          string `json:"token" binding:"required"`
	Password       string `json:"password" binding:"required"`
	RepeatPassword string `json:"repeatPassword" binding:"required"`
}

type RoleAssignment struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type AvatarResponse struct {
	Image       string `json:"image"` // base64
	ContentType string `json:"contentType"`
}

type UserResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Surname  string          `json:"surname"`
	Role     string          `json:"role"`
	Avatar   *AvatarResponse `json:"avatar,omitempty"`
}

type UserPageResponse struct {
	Users      []UserResponse `json:"users"`
	TotalPages int            `json:"totalPages"`
}

type UserHandler struct {
	users       *services.UserService
	frontendURL string
}

func NewUserHandler(users *services.UserService, frontendURL string) *UserHandler {
	return &UserHandler{users: users, frontendURL: frontendURL}
}

func (h *UserHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Register(services.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Name:           req.Name,
		Surname:        req.Surname,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
	})

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) GetAll(ctx *gin.Context) {
	page, size := pageParams(ctx)

	users, totalPages, err := h.users.GetAll(page, size)

	if err != nil {
		ctx.Error(err)
		return
	}

	resp := UserPageResponse{
		Users:      make([]UserResponse, 0, len(users)),
		TotalPages: totalPages,
	}

	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, resp)
}

// Current returns the caller's own profile.
func (h *UserHandler) Current(ctx *gin.Context) {
	user, err := h.users.GetByID(middleware.CurrentUserID(ctx))

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) GetByID(ctx *gin.Context) {
	user, err := h.users.GetByID(ctx.Param("id"))

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

// Update edits the caller's own profile; empty fields keep current values.
func (h *UserHandler) Update(ctx *gin.Context) {
	var req UpdateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	callerID := middleware.CurrentUserID(ctx)

	user, err := h.users.Update(callerID, callerID, services.UpdateInput{
		Username: req.Username,
		Name:     req.Name,
		Surname:  req.Surname,
	})

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateAvatar replaces the caller's own avatar.
func (h *UserHandler) UpdateAvatar(ctx *gin.Context) {
	var req UpdateAvatarRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Avatar is not valid base64"})
		return
	}

	callerID := middleware.CurrentUserID(ctx)

	if err := h.users.UpdateAvatar(callerID, callerID, data, req.ContentType); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UpdateRoles applies a batch of role assignments.
func (h *UserHandler) UpdateRoles(ctx *gin.Context) {
	var req []RoleAssignment

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	for _, assignment := range req {
		if err := h.users.UpdateRoles(assignment.UserID, assignment.Role); err != nil {
			ctx.Error(err)
			return
		}
	}

	ctx.Status(http.StatusNoContent)
}

func (h *UserHandler) Delete(ctx *gin.Context) {
	if err := h.users.Delete(ctx.Param("id"), middleware.CurrentUserID(ctx)); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Confirm redeems the emailed confirmation token and sends the browser to the
// frontend's confirmation page.
func (h *UserHandler) Confirm(ctx *gin.Context) {
	if err := h.users.ConfirmRegistration(ctx.Param("id"), ctx.Query("token")); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Redirect(http.StatusFound, h.frontendURL+"/confirmation")
}

// ResendConfirmation issues a fresh confirmation token and mails it.
func (h *UserHandler) ResendConfirmation(ctx *gin.Context) {
	email := ctx.Query("email")

	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := h.users.SendConfirmationEmail(email); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RequestPasswordReset mails a reset link to a confirmed account.
func (h *UserHandler) RequestPasswordReset(ctx *gin.Context) {
	email := ctx.Query("email")

	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := h.users.SendResetPasswordEmail(email); err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ResetPassword redeems the emailed reset token.
func (h *UserHandler) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.users.ResetPassword(ctx.Param("id"), req.Token, req.Password, req.RepeatPassword)

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func toUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Surname:  user.Surname,
		Role:     user.Role,
	}

	if user.Avatar != nil && len(user.Avatar.Image) > 0 {
		resp.Avatar = &AvatarResponse{
			Image:       base64.StdEncoding.EncodeToString(user.Avatar.Image),
			ContentType: user.Avatar.ContentType,
		}
	}

	return resp
}

// pageParams reads 1-based page and size query values with sane defaults.
func pageParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	if err != nil || size < 1 {
		size = 10
	}

	return page, size
}
