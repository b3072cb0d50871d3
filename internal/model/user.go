package model

// Role is the kind of account behind a session.
type Role string

const (
	// RoleStudent owns a coin balance and a ledger.
	RoleStudent Role = "student"
	// RoleTeacher manages the roster, the shop and quizzes.
	RoleTeacher Role = "teacher"
)

// User represents an account as returned by the remote gateway.
// Coins and Class are meaningful only for students.
type User struct {
	ID          string
	Name        string
	Role        Role
	Email       string
	Coins       int64
	Class       string
	AvatarColor string
}

// IsStudent reports whether the user has the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsTeacher reports whether the user has the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// NewStudent contains fields required to enroll a student.
type NewStudent struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=4"`
	Class       string
	AvatarColor string
}
