package controller

import (
	"net/http"

	"github.com/IPRP/Peer-Review-Platform-Backend/internal/dberr"
)

// StatusForError maps a service layer error kind to an HTTP status.
func StatusForError(err error) int {
	switch dberr.KindOf(err) {
	case dberr.NotFound:
		return http.StatusNotFound
	case dberr.Mismatch, dberr.PastDeadline:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
