package teacher

import (
	"net/http"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/controller"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type UserController struct {
	authService service.AuthService
}

func NewUserController(authService service.AuthService) *UserController {
	return &UserController{authService: authService}
}

// CreateUser godoc
// @Summary (Teacher) Create a user account
// @Description Creates a student or teacher account. The password is stored bcrypt hashed.
// @Tags Teacher - Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body dto.UserCreateDTO true "Account data"
// @Success 201 {object} model.User
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.UserCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateUser: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := c.authService.CreateUser(req)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("CreateUser: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to create user"})
		return
	}
	ctx.JSON(http.StatusCreated, user)
}
