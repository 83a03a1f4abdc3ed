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

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// GetReview godoc
// @Summary (Student) View a review
// @Description The reviewer always sees their own review in full. The submission's author only sees it after the round closed, with the reviewer's name hidden in anonymous workshops.
// @Tags Student - Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} dto.FullReviewDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid review ID format"
// @Failure 404 {object} dto.ErrorResponse "Review not found or caller not involved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews/{id} [get]
func (c *ReviewController) GetReview(ctx *gin.Context) {
	reviewID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid review ID format"})
		return
	}
	studentID := middleware.UserID(ctx)

	reviewer, err := c.reviewService.IsOwner(uint(reviewID), studentID)
	if err != nil {
		log.Error().Err(err).Uint64("reviewID", reviewID).Msg("GetReview: Reviewer check failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve review"})
		return
	}
	if !reviewer {
		author, err := c.reviewService.IsSubmissionOwner(uint(reviewID), studentID)
		if err != nil {
			log.Error().Err(err).Uint64("reviewID", reviewID).Msg("GetReview: Author check failed")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve review"})
			return
		}
		if !author {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Review not found"})
			return
		}
	}

	resp, err := c.reviewService.GetReview(uint(reviewID), reviewer)
	if err != nil {
		log.Error().Err(err).Uint64("reviewID", reviewID).Msg("GetReview: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: "Failed to retrieve review"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateReview godoc
// @Summary (Student) Submit or update a review
// @Description Replaces the review's feedback and points. The points must cover the submission's criteria snapshot exactly and the review deadline must not have passed.
// @Tags Student - Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param review body dto.ReviewUpdateDTO true "Feedback and one point entry per criterion"
// @Success 200 "Review stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid body, point set mismatch or deadline passed"
// @Failure 404 {object} dto.ErrorResponse "Review not found for caller"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews/{id} [put]
func (c *ReviewController) UpdateReview(ctx *gin.Context) {
	reviewID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid review ID format"})
		return
	}

	var req dto.ReviewUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("UpdateReview: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	studentID := middleware.UserID(ctx)
	if err := c.reviewService.UpdateReview(uint(reviewID), studentID, req); err != nil {
		log.Error().Err(err).Uint64("reviewID", reviewID).Uint("studentID", studentID).
			Msg("UpdateReview: Service error")
		ctx.JSON(controller.StatusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.Status(http.StatusOK)
}
