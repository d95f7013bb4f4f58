package domain

// Event names published on the notification bus. The names and payload
// field names are a contract between publishers and subscribers and must
// not change.
const (
	EventCourseEnrolled  = "course:enrolled"
	EventCourseCompleted = "course:completed"
	EventLessonCompleted = "lesson:completed"
	EventReviewCreated   = "review:created"
)

// CourseEnrolledPayload accompanies EventCourseEnrolled.
type CourseEnrolledPayload struct {
	UserID     string `json:"userId"`
	CourseID   string `json:"courseId"`
	CourseName string `json:"courseName"`
}

// CourseCompletedPayload accompanies EventCourseCompleted.
type CourseCompletedPayload struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
}

// LessonCompletedPayload accompanies EventLessonCompleted. Progress is an
// integer percentage; 25, 50 and 75 are milestone triggers.
type LessonCompletedPayload struct {
	UserID   string `json:"userId"`
	LessonID string `json:"lessonId"`
	Progress int    `json:"progress"`
}

// ReviewCreatedPayload accompanies EventReviewCreated. A rating of 2 or
// lower triggers a moderation flag downstream.
type ReviewCreatedPayload struct {
	CourseID string `json:"courseId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}
