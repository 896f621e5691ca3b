package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
}

func NewProfileHandler(uc *profileUC.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUseCase: uc}
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input profileUC.UpsertProfileInput
	if !bindJSON(c, &input) {
		return
	}
	input.OwnerID = userID

	view, err := h.profileUseCase.UpsertProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) GetOwnProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	view, err := h.profileUseCase.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	views, err := h.profileUseCase.ListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *ProfileHandler) GetProfileByUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id", "Profile")
	if !ok {
		return
	}

	view, err := h.profileUseCase.GetProfileByUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.profileUseCase.DeleteOwnProfileAndUser(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Msg: "User deleted"})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input profileUC.ExperienceInput
	if !bindJSON(c, &input) {
		return
	}

	view, err := h.profileUseCase.AddExperience(c.Request.Context(), userID, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "exp_id", "Experience")
	if !ok {
		return
	}

	view, err := h.profileUseCase.RemoveExperience(c.Request.Context(), userID, entryID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var input profileUC.EducationInput
	if !bindJSON(c, &input) {
		return
	}

	view, err := h.profileUseCase.AddEducation(c.Request.Context(), userID, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "edu_id", "Education")
	if !ok {
		return
	}

	view, err := h.profileUseCase.RemoveEducation(c.Request.Context(), userID, entryID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}
