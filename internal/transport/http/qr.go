package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"quiz-battle-service/internal/app"
)

const qrSize = 320 // mobile-friendly size

// handleSessionQR renders a PNG share code pointing at the session.
func handleSessionQR(service *app.GameService, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := service.Snapshot(r.Context(), id); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		png, err := qrcode.Encode(shareURL(r, publicURL, id), qrcode.Medium, qrSize)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "qr generation failed")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(png)
	}
}

func shareURL(r *http.Request, publicURL, sessionID string) string {
	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/?session=" + url.QueryEscape(sessionID)
}
