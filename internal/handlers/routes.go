package handlers

import "net/http"

// RegisterRoutes wires every API endpoint onto mux
func RegisterRoutes(mux *http.ServeMux, m *Middleware, auth *AuthHandler, parent *ParentHandler, learner *LearnerHandler, teachBack *TeachBackHandler) {
	parentOnly := func(h http.HandlerFunc) http.HandlerFunc { return m.RequireParent(m.CSRFProtect(h)) }
	learnerOnly := func(h http.HandlerFunc) http.HandlerFunc { return m.RequireLearner(m.CSRFProtect(h)) }

	// Public routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/learners", auth.ListLearners)
	mux.HandleFunc("POST /api/login/parent", m.RateLimit(auth.LoginParent))
	mux.HandleFunc("POST /api/login/learner/{id}", m.RateLimit(auth.LoginLearner))
	mux.HandleFunc("POST /api/logout", auth.Logout)
	mux.HandleFunc("GET /api/prizes", learner.Prizes)
	mux.HandleFunc("/api/evaluate-teachback", m.RateLimit(teachBack.Evaluate))

	// Parent routes
	mux.HandleFunc("GET /api/parent/dashboard", parentOnly(parent.Dashboard))
	mux.HandleFunc("GET /api/tasks", parentOnly(parent.ListTasks))
	mux.HandleFunc("POST /api/tasks", parentOnly(parent.CreateTask))
	mux.HandleFunc("PUT /api/tasks/{id}", parentOnly(parent.UpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", parentOnly(parent.DeleteTask))
	mux.HandleFunc("PUT /api/parent/learners/{id}/goal", parentOnly(parent.SetGoal))
	mux.HandleFunc("POST /api/parent/learners/{id}/pin", parentOnly(parent.RegeneratePIN))

	// Learner routes
	mux.HandleFunc("GET /api/me", learnerOnly(learner.Me))
	mux.HandleFunc("POST /api/me/tasks/{id}/toggle", learnerOnly(learner.ToggleTask))
	mux.HandleFunc("POST /api/me/tasks/{id}/teach-back", learnerOnly(m.RateLimit(teachBack.Submit)))
	mux.HandleFunc("DELETE /api/me/tasks/{id}/teach-back", learnerOnly(teachBack.Cancel))
	mux.HandleFunc("POST /api/me/garden/{plot}/plant", learnerOnly(learner.Plant))
	mux.HandleFunc("POST /api/me/garden/{plot}/water", learnerOnly(learner.Water))
	mux.HandleFunc("POST /api/me/garden/{plot}/harvest", learnerOnly(learner.Harvest))
	mux.HandleFunc("POST /api/me/books", learnerOnly(learner.AddBook))
	mux.HandleFunc("POST /api/me/books/{id}/progress", learnerOnly(learner.LogReading))
	mux.HandleFunc("POST /api/me/prize/redeem", learnerOnly(learner.Redeem))
	mux.HandleFunc("PUT /api/me/theme", learnerOnly(learner.SetTheme))
}
