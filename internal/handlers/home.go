package handlers

import (
	"net/http"

	"github.com/linkedin-scraper/scraper-ui/internal/views"
)

// HandleHome renders the landing page with links to both scrapers.
func (h *HandlerService) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "", views.HomePage())
}

func (h *HandlerService) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.RenderError(w, r, http.StatusNotFound, "The page you were looking for does not exist.")
}
