// internal/api/router.go
package api

import "net/http"

// RegisterRoutes attaches every API route to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Catalog
	mux.HandleFunc("GET /courses", h.listCourses)
	mux.HandleFunc("GET /courses/{courseID}", h.getCourse)
	mux.HandleFunc("GET /courses/{courseID}/resume", h.getResumePoint)
	mux.HandleFunc("GET /courses/{courseID}/lessons/{lessonID}/items/{itemID}/neighbors", h.getNeighbors)
	mux.HandleFunc("POST /content/reload", h.reloadContent)

	// Progress
	mux.HandleFunc("GET /progress/courses/{courseID}", h.getCourseProgress)
	mux.HandleFunc("DELETE /progress/courses/{courseID}", h.resetCourseProgress)
	mux.HandleFunc("GET /progress/courses/{courseID}/lessons/{lessonID}", h.getLessonProgress)
	mux.HandleFunc("GET /progress/items/{itemID}", h.getItemProgress)
	mux.HandleFunc("POST /progress/courses/{courseID}/lessons/{lessonID}/items/{itemID}/start", h.startItem)
	mux.HandleFunc("POST /progress/courses/{courseID}/lessons/{lessonID}/items/{itemID}/complete", h.completeItem)
	mux.HandleFunc("PUT /progress/courses/{courseID}/lessons/{lessonID}/items/{itemID}/video", h.updateVideoProgress)
	mux.HandleFunc("GET /progress/recent", h.getRecentlyViewed)

	// Quizzes
	mux.HandleFunc("GET /quizzes/passed", h.getPassedQuizzes)
	mux.HandleFunc("GET /quizzes/{quizID}", h.getQuiz)
	mux.HandleFunc("GET /quizzes/{quizID}/status", h.getQuizStatus)
	mux.HandleFunc("GET /quizzes/{quizID}/attempts", h.listAttempts)
	mux.HandleFunc("DELETE /quizzes/{quizID}/attempts", h.resetAttempts)
	mux.HandleFunc("POST /quizzes/{quizID}/attempts", h.startAttempt)
	mux.HandleFunc("GET /courses/{courseID}/quiz", h.getCourseQuiz)
	mux.HandleFunc("POST /attempts/{attemptID}/answers", h.recordAnswer)
	mux.HandleFunc("POST /attempts/{attemptID}/submit", h.submitAttempt)

	// Enrollment
	mux.HandleFunc("POST /enrollment", h.enroll)
	mux.HandleFunc("GET /enrollment", h.getEnrollment)
	mux.HandleFunc("PUT /enrollment/courses", h.selectCourses)
	mux.HandleFunc("POST /enrollment/courses/{courseID}", h.enrollInCourse)
	mux.HandleFunc("DELETE /enrollment/courses/{courseID}", h.unenrollFromCourse)

	// Data management
	mux.HandleFunc("GET /export", h.exportAll)
	mux.HandleFunc("POST /import", h.importAll)
	mux.HandleFunc("DELETE /data", h.resetAll)
}
