package handler

import "net/http"

// HandleReady runs every registered probe and reports the aggregate verdict.
// A failed critical dependency answers 503 so load balancers stop routing;
// advisory trouble only degrades the payload.
func (s *Service) HandleReady(w http.ResponseWriter, r *http.Request) {
	report := s.checks.Run(r.Context())
	status := http.StatusOK
	if !report.Ready() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
