package controllers

import (
	"context"
	"net/http"
	"time"
)

func timeoutContext(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
