package service

import (
	"math"
	"testing"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
)

func TestCloseIfExpiredGradesSubmission(t *testing.T) {
	db := newTestDB(t)
	closer := NewSubmissionCloserService(db, NewScoreService())

	author := seedUser(t, db, "author", model.RoleStudent)
	peerA := seedUser(t, db, "peer_a", model.RoleStudent)
	peerB := seedUser(t, db, "peer_b", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peerA.ID, peerB.ID})
	pointCriterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)
	gradeCriterion := seedCriterion(t, db, workshop.ID, model.KindGrade, 1)

	deadline := time.Now().Add(-time.Minute)
	submission := seedSubmission(t, db, workshop.ID, author.ID, deadline, pointCriterion, gradeCriterion)
	scoredReview := seedReview(t, db, submission, peerA.ID)
	seedReviewPoint(t, db, scoredReview.ID, pointCriterion.ID, 4)
	seedReviewPoint(t, db, scoredReview.ID, gradeCriterion.ID, 1)
	missedReview := seedReview(t, db, submission, peerB.ID)

	if err := closer.CloseIfExpired(submission.ID); err != nil {
		t.Fatalf("CloseIfExpired returned error: %v", err)
	}

	var closed model.Submission
	if err := db.First(&closed, submission.ID).Error; err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if !closed.ReviewsDone || !closed.Locked {
		t.Errorf("submission not closed: reviewsDone=%v locked=%v", closed.ReviewsDone, closed.Locked)
	}
	if closed.Error {
		t.Error("submission marked errored although one review scored")
	}
	if closed.MeanPoints == nil || math.Abs(*closed.MeanPoints-14) > 1e-9 {
		t.Errorf("mean points = %v, want 14", closed.MeanPoints)
	}
	if closed.MaxPoints == nil || math.Abs(*closed.MaxPoints-20) > 1e-9 {
		t.Errorf("max points = %v, want 20", closed.MaxPoints)
	}

	var reviews []model.Review
	if err := db.Where("submission_id = ?", submission.ID).Order("id ASC").Find(&reviews).Error; err != nil {
		t.Fatalf("failed to reload reviews: %v", err)
	}
	for _, review := range reviews {
		if !review.Done || !review.Locked {
			t.Errorf("review %d not finalized: done=%v locked=%v", review.ID, review.Done, review.Locked)
		}
	}
	byID := map[uint]model.Review{}
	for _, review := range reviews {
		byID[review.ID] = review
	}
	if byID[scoredReview.ID].Error {
		t.Error("scored review marked errored")
	}
	if !byID[missedReview.ID].Error {
		t.Error("pointless review not marked errored")
	}
}

func TestCloseIfExpiredIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	closer := NewSubmissionCloserService(db, NewScoreService())

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peer.ID})
	criterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(-time.Minute), criterion)
	review := seedReview(t, db, submission, peer.ID)
	seedReviewPoint(t, db, review.ID, criterion.ID, 7)

	if err := closer.CloseIfExpired(submission.ID); err != nil {
		t.Fatalf("first close returned error: %v", err)
	}
	if err := closer.CloseIfExpired(submission.ID); err != nil {
		t.Fatalf("second close returned error: %v", err)
	}

	var closed model.Submission
	if err := db.First(&closed, submission.ID).Error; err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if closed.MeanPoints == nil || *closed.MeanPoints != 7 {
		t.Errorf("mean points = %v, want 7", closed.MeanPoints)
	}
}

func TestCloseIfExpiredWithoutScoredReviews(t *testing.T) {
	db := newTestDB(t)
	closer := NewSubmissionCloserService(db, NewScoreService())

	author := seedUser(t, db, "author", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID})
	criterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(-time.Minute), criterion)

	if err := closer.CloseIfExpired(submission.ID); err != nil {
		t.Fatalf("CloseIfExpired returned error: %v", err)
	}

	var closed model.Submission
	if err := db.First(&closed, submission.ID).Error; err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if !closed.ReviewsDone {
		t.Error("submission not closed")
	}
	if !closed.Error {
		t.Error("ungradeable submission not marked errored")
	}
	if closed.MeanPoints != nil || closed.MaxPoints != nil {
		t.Errorf("errored submission carries points: mean=%v max=%v", closed.MeanPoints, closed.MaxPoints)
	}
}

func TestCloseIfExpiredLeavesOpenSubmissionAlone(t *testing.T) {
	db := newTestDB(t)
	closer := NewSubmissionCloserService(db, NewScoreService())

	author := seedUser(t, db, "author", model.RoleStudent)
	peer := seedUser(t, db, "peer", model.RoleStudent)
	workshop := seedWorkshop(t, db, false, []uint{author.ID, peer.ID})
	criterion := seedCriterion(t, db, workshop.ID, model.KindPoint, 1)

	submission := seedSubmission(t, db, workshop.ID, author.ID, time.Now().Add(time.Hour), criterion)
	seedReview(t, db, submission, peer.ID)

	if err := closer.CloseIfExpired(submission.ID); err != nil {
		t.Fatalf("CloseIfExpired returned error: %v", err)
	}

	var open model.Submission
	if err := db.First(&open, submission.ID).Error; err != nil {
		t.Fatalf("failed to reload submission: %v", err)
	}
	if open.ReviewsDone || open.Locked || open.Error {
		t.Errorf("open submission was touched: %+v", open)
	}
}
