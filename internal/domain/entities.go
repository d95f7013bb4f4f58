package domain

import "time"

// Role identifies what a user account is allowed to do.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Level is the difficulty level of a course.
type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// User is an account record. Password always holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Course is a published course record.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Discount     float64   `json:"discount"`
	Level        Level     `json:"level"`
	Language     string    `json:"language"`
	Thumbnail    string    `json:"thumbnail"`
	IsPublished  bool      `json:"isPublished"`
	IsFeatured   bool      `json:"isFeatured"`
	InstructorID string    `json:"instructorId"`
	CategoryID   string    `json:"categoryId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Category groups courses.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	CourseCount int    `json:"courseCount"`
}

// Lesson is a single unit of a course.
type Lesson struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Duration int    `json:"duration"`
}

// Enrollment links a user to a course. Progress is an integer percentage.
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CourseID   string    `json:"courseId"`
	Progress   int       `json:"progress"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// Review is a rating plus comment left by an enrolled user.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
