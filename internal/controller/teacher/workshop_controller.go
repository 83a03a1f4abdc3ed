package teacher

import (
	"net/http"
	"strconv"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/controller"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type WorkshopController struct {
	workshopService   service.WorkshopService
	submissionService service.SubmissionService
}

func NewWorkshopController(workshopService service.WorkshopService, submissionService service.SubmissionService) *WorkshopController {
	return &WorkshopController{workshopService: workshopService, submissionService: submissionService}
}

// CreateWorkshop godoc
// @Summary (Teacher) Create a workshop
// @Description Creates a workshop with its grading criteria and member list. The review timespan is given in minutes and fixes each submission's review deadline at hand-in time.
// @Tags Teacher - Workshops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workshop body dto.WorkshopCreateDTO true "Workshop data including criteria and member ids"
// @Success 201 {object} dto.WorkshopCreatedDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "One or more member ids unknown"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/workshops [post]
func (c *WorkshopController) CreateWorkshop(ctx *gin.Context) {
	var req dto.WorkshopCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateWorkshop: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.workshopService.CreateWorkshop(req)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateWorkshop: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to create workshop"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetSubmission godoc
// @Summary (Teacher) View any submission in full
// @Description Full submission view including all closed reviews with reviewer names and the list of reviewers who missed the deadline.
// @Tags Teacher - Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.OwnSubmissionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid submission ID format"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/submissions/{id} [get]
func (c *WorkshopController) GetSubmission(ctx *gin.Context) {
	submissionID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid submission ID format"})
		return
	}

	resp, err := c.submissionService.GetTeacherSubmission(uint(submissionID))
	if err != nil {
		log.Error().Err(err).Uint64("submissionID", submissionID).Msg("Teacher GetSubmission: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to retrieve submission"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetStudentSubmissions godoc
// @Summary (Teacher) List a student's submissions in a workshop
// @Description Lists one student's submissions in a workshop with their current points. Expired review rounds are closed first.
// @Tags Teacher - Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workshop ID"
// @Param sid path int true "Student ID"
// @Success 200 {array} dto.WorkshopSubmissionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid workshop or student ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/workshops/{id}/students/{sid}/submissions [get]
func (c *WorkshopController) GetStudentSubmissions(ctx *gin.Context) {
	workshopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid workshop ID format"})
		return
	}
	studentID, err := strconv.ParseUint(ctx.Param("sid"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid student ID format"})
		return
	}

	resp, err := c.submissionService.GetWorkshopSubmissions(uint(workshopID), uint(studentID), true)
	if err != nil {
		log.Error().Err(err).Uint64("workshopID", workshopID).Uint64("studentID", studentID).
			Msg("GetStudentSubmissions: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to retrieve submissions"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
