package http

import "net/http"

// Routes registers the tax endpoints behind the limiter.
func Routes(mux *http.ServeMux, limiter *RateLimiter, tax *TaxHandler, reports *ReportHandler) {
	mux.Handle("/tax/calculate", RateLimitMiddleware(limiter, http.HandlerFunc(tax.Calculate)))
	mux.Handle("/tax/report", RateLimitMiddleware(limiter, http.HandlerFunc(reports.Download)))
}
