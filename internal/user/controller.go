package user

import (
	"errors"
	"io"
	"net/http"

	"exercise_tracker/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserController struct {
	userService UserServiceInterface
}

func NewUserController(userService UserServiceInterface) *UserController {
	return &UserController{
		userService: userService,
	}
}

type createUserRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
}

// CreateUser handles POST /api/users. The body may be JSON or a url-encoded form.
func (uc *UserController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) || errors.Is(err, io.EOF) {
			apperror.Respond(c, apperror.MissingField("Username is required"))
			return
		}
		apperror.Respond(c, apperror.MissingField("Invalid request body"))
		return
	}

	user, err := uc.userService.CreateOrFetchUser(c.Request.Context(), req.Username)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/users
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
