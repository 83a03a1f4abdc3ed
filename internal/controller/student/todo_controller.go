package student

import (
	"net/http"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/controller"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/middleware"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TodoController struct {
	todoService service.TodoService
}

func NewTodoController(todoService service.TodoService) *TodoController {
	return &TodoController{todoService: todoService}
}

// GetTodo godoc
// @Summary (Student) Get open reviews and submittable workshops
// @Description Lists the caller's pending review assignments and the workshops they can still submit to. Expired review rounds are closed before the list is built.
// @Tags Student - Todos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TodoDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /todos [get]
func (c *TodoController) GetTodo(ctx *gin.Context) {
	studentID := middleware.UserID(ctx)
	todo, err := c.todoService.GetTodo(studentID)
	if err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Msg("GetTodo: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to retrieve todos"})
		return
	}
	ctx.JSON(http.StatusOK, todo)
}
