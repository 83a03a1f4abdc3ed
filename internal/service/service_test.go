package service

import (
	"testing"
	"time"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Workshop{},
		&model.WorkshopMember{},
		&model.Criterion{},
		&model.Submission{},
		&model.SubmissionCriterion{},
		&model.Review{},
		&model.ReviewPoint{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) model.User {
	t.Helper()
	user := model.User{
		Username:  username,
		Firstname: "First " + username,
		Lastname:  "Last " + username,
		Password:  "irrelevant",
		Role:      role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func seedWorkshop(t *testing.T, db *gorm.DB, anonymous bool, students []uint) model.Workshop {
	t.Helper()
	workshop := model.Workshop{
		Title:          "Essay Workshop",
		End:            time.Now().Add(24 * time.Hour),
		ReviewTimespan: 60,
		Anonymous:      anonymous,
	}
	for _, id := range students {
		workshop.Members = append(workshop.Members, model.WorkshopMember{UserID: id, Role: model.RoleStudent})
	}
	if err := db.Create(&workshop).Error; err != nil {
		t.Fatalf("failed to seed workshop: %v", err)
	}
	return workshop
}

func seedCriterion(t *testing.T, db *gorm.DB, workshopID uint, kind string, weight float64) model.Criterion {
	t.Helper()
	criterion := model.Criterion{
		WorkshopID: workshopID,
		Title:      "Criterion " + kind,
		Weight:     weight,
		Kind:       kind,
	}
	if err := db.Create(&criterion).Error; err != nil {
		t.Fatalf("failed to seed criterion: %v", err)
	}
	return criterion
}

func seedSubmission(t *testing.T, db *gorm.DB, workshopID, studentID uint, deadline time.Time, criteria ...model.Criterion) model.Submission {
	t.Helper()
	submission := model.Submission{
		Title:      "My Submission",
		StudentID:  &studentID,
		WorkshopID: workshopID,
		Date:       deadline.Add(-time.Hour),
		Deadline:   deadline,
	}
	if err := db.Create(&submission).Error; err != nil {
		t.Fatalf("failed to seed submission: %v", err)
	}
	for _, criterion := range criteria {
		snap := model.SubmissionCriterion{SubmissionID: submission.ID, CriterionID: criterion.ID}
		if err := db.Create(&snap).Error; err != nil {
			t.Fatalf("failed to seed criteria snapshot: %v", err)
		}
	}
	return submission
}

func seedReview(t *testing.T, db *gorm.DB, submission model.Submission, reviewerID uint) model.Review {
	t.Helper()
	review := model.Review{
		ReviewerID:   &reviewerID,
		SubmissionID: submission.ID,
		WorkshopID:   submission.WorkshopID,
		Deadline:     submission.Deadline,
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("failed to seed review: %v", err)
	}
	return review
}

func seedReviewPoint(t *testing.T, db *gorm.DB, reviewID, criterionID uint, points float64) {
	t.Helper()
	point := model.ReviewPoint{ReviewID: reviewID, CriterionID: criterionID, Points: &points}
	if err := db.Create(&point).Error; err != nil {
		t.Fatalf("failed to seed review point: %v", err)
	}
}
