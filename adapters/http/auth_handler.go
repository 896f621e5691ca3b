package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/internal/application/usecase/auth"
)

type AuthHandler struct {
	registerUseCase    *auth.RegisterUseCase
	loginUseCase       *auth.LoginUseCase
	currentUserUseCase *auth.CurrentUserUseCase
}

func NewAuthHandler(registerUC *auth.RegisterUseCase, loginUC *auth.LoginUseCase, currentUC *auth.CurrentUserUseCase) *AuthHandler {
	return &AuthHandler{
		registerUseCase:    registerUC,
		loginUseCase:       loginUC,
		currentUserUseCase: currentUC,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input auth.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: output.Token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input auth.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: output.AccessToken})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	u, err := h.currentUserUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}
