package service

import "errors"

var (
	// ErrUnauthenticated indicates the caller has no signed-in identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAccessDenied indicates the principal may not view or change the student.
	ErrAccessDenied = errors.New("access denied")
	// ErrTeacherRequired indicates the operation is reserved for teachers.
	ErrTeacherRequired = errors.New("teacher role required")
	// ErrStudentNotFound indicates the student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrLessonNotFound indicates the lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrStudentNameTaken indicates the teacher already has a student with that name.
	ErrStudentNameTaken = errors.New("student name already exists")
	// ErrUsernameTaken indicates the username is registered already.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials indicates the username or password did not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrLessonFinished indicates the lesson was finished and no longer accepts changes.
	ErrLessonFinished = errors.New("lesson already finished")
	// ErrInvalidCoinType indicates a coin type outside understanding, participation, homework.
	ErrInvalidCoinType = errors.New("invalid coin type")
	// ErrInvalidAward indicates a trophy value outside 1..4.
	ErrInvalidAward = errors.New("award must be between 1 and 4")
	// ErrInvalidCalendarMonth indicates the requested calendar month is out of range.
	ErrInvalidCalendarMonth = errors.New("invalid calendar month")
	// ErrParentNotFound indicates the parent account does not exist.
	ErrParentNotFound = errors.New("parent not found")
	// ErrNotAParent indicates the target account is not a parent.
	ErrNotAParent = errors.New("user is not a parent")
	// ErrAlreadyLinked indicates the parent is already linked to the student.
	ErrAlreadyLinked = errors.New("parent already linked to student")
	// ErrDebugDisabled indicates diagnostics are turned off by configuration.
	ErrDebugDisabled = errors.New("diagnostics are disabled")
	// ErrDebugUnauthorized indicates the diagnostics token did not match.
	ErrDebugUnauthorized = errors.New("invalid diagnostics token")
)
