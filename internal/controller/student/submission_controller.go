package student

import (
	"net/http"
	"strconv"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/controller"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/middleware"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SubmissionController struct {
	submissionService service.SubmissionService
}

func NewSubmissionController(submissionService service.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// CreateSubmission godoc
// @Summary (Student) Hand in a submission
// @Description Creates a submission in the workshop, snapshots the workshop's grading criteria and assigns up to three reviewers, all in one transaction.
// @Tags Student - Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workshop ID"
// @Param submission body dto.SubmissionCreateDTO true "Title and comment"
// @Success 201 {object} dto.SubmissionCreatedDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or workshop ID"
// @Failure 404 {object} dto.ErrorResponse "Workshop not found or caller not a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /workshops/{id}/submissions [post]
func (c *SubmissionController) CreateSubmission(ctx *gin.Context) {
	workshopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid workshop ID format"})
		return
	}

	var req dto.SubmissionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateSubmission: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	studentID := middleware.UserID(ctx)
	resp, err := c.submissionService.Create(uint(workshopID), studentID, req)
	if err != nil {
		log.Error().Err(err).Uint64("workshopID", workshopID).Uint("studentID", studentID).
			Msg("CreateSubmission: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to create submission"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetSubmission godoc
// @Summary (Student) View a submission
// @Description Owners get the full view including closed reviews and points. Assigned reviewers get the trimmed peer view, which also locks the submission against edits.
// @Tags Student - Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.OwnSubmissionDTO "Owner view (reviewers receive dto.PeerSubmissionDTO)"
// @Failure 400 {object} dto.ErrorResponse "Invalid submission ID format"
// @Failure 404 {object} dto.ErrorResponse "Submission not found or caller neither owner nor reviewer"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions/{id} [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	submissionID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid submission ID format"})
		return
	}
	studentID := middleware.UserID(ctx)

	owner, err := c.submissionService.IsOwner(uint(submissionID), studentID)
	if err != nil {
		log.Error().Err(err).Uint64("submissionID", submissionID).Msg("GetSubmission: Owner check failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve submission"})
		return
	}
	if owner {
		resp, err := c.submissionService.GetOwnSubmission(uint(submissionID))
		if err != nil {
			log.Error().Err(err).Uint64("submissionID", submissionID).Msg("GetSubmission: Service error")
			ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to retrieve submission"})
			return
		}
		ctx.JSON(http.StatusOK, resp)
		return
	}

	reviewer, err := c.submissionService.IsReviewer(uint(submissionID), studentID)
	if err != nil {
		log.Error().Err(err).Uint64("submissionID", submissionID).Msg("GetSubmission: Reviewer check failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve submission"})
		return
	}
	if !reviewer {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Submission not found"})
		return
	}

	resp, err := c.submissionService.GetPeerSubmission(uint(submissionID))
	if err != nil {
		log.Error().Err(err).Uint64("submissionID", submissionID).Msg("GetSubmission: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to retrieve submission"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetWorkshopSubmissions godoc
// @Summary (Student) List own submissions in a workshop
// @Description Lists the caller's submissions in one workshop with their current points. Expired review rounds are closed first.
// @Tags Student - Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workshop ID"
// @Success 200 {array} dto.WorkshopSubmissionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid workshop ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /workshops/{id}/submissions [get]
func (c *SubmissionController) GetWorkshopSubmissions(ctx *gin.Context) {
	workshopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid workshop ID format"})
		return
	}
	studentID := middleware.UserID(ctx)

	resp, err := c.submissionService.GetWorkshopSubmissions(uint(workshopID), studentID, false)
	if err != nil {
		log.Error().Err(err).Uint64("workshopID", workshopID).Msg("GetWorkshopSubmissions: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to retrieve submissions"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
