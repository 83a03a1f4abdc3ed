package service

import (
	"testing"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dto"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"github.com/IPRP/Peer-Review-Platform-Backend/internal/repository"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) ReviewService {
	closer := NewSubmissionCloserService(db, NewScoreService())
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewWorkshopRepository(db),
		repository.NewUserRepository(db),
		closer,
		db,
	)
}

func TestUpdateReviewStoresClampedPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peer.ID})
	pointCriterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 2)
	gradeCriterion := seedCriterion(t, db, workshop.ID, model.KindGrade, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(time.Hour), pointCriterion, gradeCriterion)
	review := seedReview(t, db, submission, peer.ID)

	req := dto.ReviewUpdateDTO{
		Feedback: "solid work",
		Points: []dto.UpdatePointsDTO{
			{ID: pointCriterion.ID, Points: 99}, // above weight*range, clamped to 20
			{ID: gradeCriterion.ID, Points: -3}, // below zero, clamped to 0
		},
	}
	if err := svc.UpdateReview(review.ID, peer.ID, req); err != nil {
		t.Fatalf("UpdateReview returned error: %v", err)
	}

	var updated model.Review
	if err := db.First(&updated, review.ID).Error; err != nil {
		t.Fatalf("failed to reload review: %v", err)
	}
	if !updated.Done {
		t.Error("review not marked done")
	}
	if updated.Feedback != "solid work" {
		t.Errorf("feedback = %q, want %q", updated.Feedback, "solid work")
	}

	var points []model.ReviewPoint
	if err := db.Where("review_id = ?", review.ID).Order("criterion_id ASC").Find(&points).Error; err != nil {
		t.Fatalf("failed to reload points: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("stored %d points, want 2", len(points))
	}
	if *points[0].Points != 20 {
		t.Errorf("point criterion = %v, want clamped 20", *points[0].Points)
	}
	if *points[1].Points != 0 {
		t.Errorf("grade criterion = %v, want clamped 0", *points[1].Points)
	}
}

func TestUpdateReviewReplacesPreviousPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peer.ID})
	criterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(time.Hour), criterion)
	review := seedReview(t, db, submission, peer.ID)

	first := dto.ReviewUpdateDTO{Points: []dto.UpdatePointsDTO{{ID: criterion.ID, Points: 3}}}
	if err := svc.UpdateReview(review.ID, peer.ID, first); err != nil {
		t.Fatalf("first UpdateReview returned error: %v", err)
	}
	second := dto.ReviewUpdateDTO{Points: []dto.UpdatePointsDTO{{ID: criterion.ID, Points: 8}}}
	if err := svc.UpdateReview(review.ID, peer.ID, second); err != nil {
		t.Fatalf("second UpdateReview returned error: %v", err)
	}

	var points []model.ReviewPoint
	if err := db.Where("review_id = ?", review.ID).Find(&points).Error; err != nil {
		t.Fatalf("failed to reload points: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("stored %d points, want 1", len(points))
	}
	if *points[0].Points != 8 {
		t.Errorf("points = %v, want 8", *points[0].Points)
	}
}

func TestUpdateReviewRejectsMismatchedPointSet(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peer.ID})
	criterionA := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)
	criterionB := seedCriterion(t, db, workshop.ID, model.KindGrade, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(time.Hour), criterionA, criterionB)
	review := seedReview(t, db, submission, peer.ID)

	tests := []struct {
		name   string
		points []dto.UpdatePointsDTO
	}{
		{"missing criterion", []dto.UpdatePointsDTO{{ID: criterionA.ID, Points: 5}}},
		{"unknown criterion", []dto.UpdatePointsDTO{{ID: criterionA.ID, Points: 5}, {ID: 9999, Points: 5}}},
		{"duplicate criterion", []dto.UpdatePointsDTO{{ID: criterionA.ID, Points: 5}, {ID: criterionA.ID, Points: 6}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.UpdateReview(review.ID, peer.ID, dto.ReviewUpdateDTO{Points: tt.points})
			if !dberr.IsKind(err, dberr.Mismatch) {
				t.Errorf("UpdateReview error = %v, want kind %s", err, dberr.Mismatch)
			}
		})
	}
}

func TestUpdateReviewAfterDeadline(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peer.ID})
	criterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(-time.Minute), criterion)
	review := seedReview(t, db, submission, peer.ID)

	err := svc.UpdateReview(review.ID, peer.ID, dto.ReviewUpdateDTO{
		Points: []dto.UpdatePointsDTO{{ID: criterion.ID, Points: 5}},
	})
	if !dberr.IsKind(err, dberr.PastDeadline) {
		t.Errorf("UpdateReview error = %v, want kind %s", err, dberr.PastDeadline)
	}
}

func TestUpdateReviewUnknownReviewer(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	stranger := seedUser(t, db, "stranger", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peer.ID})
	criterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(time.Hour), criterion)
	review := seedReview(t, db, submission, peer.ID)

	err := svc.UpdateReview(review.ID, stranger.ID, dto.ReviewUpdateDTO{
		Points: []dto.UpdatePointsDTO{{ID: criterion.ID, Points: 5}},
	})
	if !dberr.IsKind(err, dberr.NotFound) {
		t.Errorf("UpdateReview error = %v, want kind %s", err, dberr.NotFound)
	}
}

func TestGetReviewHidesReviewerInAnonymousWorkshop(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	workshop := seedWorkshop(t, db, true, []uint{author.ID, peer.ID})
	criterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(50*time.Millisecond), criterion)
	review := seedReview(t, db, submission, peer.ID)
	seedReviewPoint(t, db, review.ID, criterion.ID, 6)
	if err := db.Model(&model.Review{}).Where("id = ?", review.ID).Update("done", true).Error; err != nil {
		t.Fatalf("failed to mark review done: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	// Author view in an anonymous workshop: points yes, names no. Reading
	// the review also closes the expired submission.
	resp, err := svc.GetReview(review.ID, false)
	if err != nil {
		t.Fatalf("GetReview returned error: %v", err)
	}
	if resp.Firstname != nil || resp.Lastname != nil {
		t.Errorf("anonymous review leaks reviewer name: %v %v", resp.Firstname, resp.Lastname)
	}
	if len(resp.Points) != 1 {
		t.Fatalf("review has %d points, want 1", len(resp.Points))
	}
	if resp.Points[0].Points != 6 {
		t.Errorf("points = %v, want 6", resp.Points[0].Points)
	}

	// The reviewer always sees their own identity.
	own, err := svc.GetReview(review.ID, true)
	if err != nil {
		t.Fatalf("GetReview returned error: %v", err)
	}
	if own.Firstname == nil || *own.Firstname != peer.Firstname {
		t.Errorf("reviewer view missing own name, got %v", own.Firstname)
	}
}
