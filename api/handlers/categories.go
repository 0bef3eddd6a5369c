package handlers

import (
	"net/http"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

// CategoriesHandler lists the animal types a report may use, in dropdown order
func CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Categories())
}
