package exercise

import (
	"errors"
	"io"
	"net/http"

	"exercise_tracker/internal/apperror"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	service ExerciseServiceInterface
}

func NewExerciseController(service ExerciseServiceInterface) *ExerciseController {
	return &ExerciseController{
		service: service,
	}
}

type addExerciseRequest struct {
	Description string     `json:"description" form:"description"`
	Duration    flexNumber `json:"duration" form:"duration"`
	Date        string     `json:"date" form:"date"`
}

// AddExercise handles POST /api/users/:_id/exercises
func (ec *ExerciseController) AddExercise(c *gin.Context) {
	var req addExerciseRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		apperror.Respond(c, apperror.MissingField("Invalid request body"))
		return
	}

	resp, err := ec.service.AddExercise(c.Request.Context(), c.Param("_id"), ExerciseInput{
		Description: req.Description,
		Duration:    string(req.Duration),
		Date:        req.Date,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetLogs handles GET /api/users/:_id/logs?from&to&limit
func (ec *ExerciseController) GetLogs(c *gin.Context) {
	resp, err := ec.service.GetLogs(c.Request.Context(), c.Param("_id"), LogQuery{
		From:  c.Query("from"),
		To:    c.Query("to"),
		Limit: c.Query("limit"),
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
