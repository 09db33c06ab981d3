package models

var (
	FirestoreCoursesCollection         = "courses"
	FirestoreSelectedCoursesCollection = "selected_courses"
)

// Student is a single entry in a course roster.
type Student struct {
	Name string `json:"name" mapstructure:"name"`
}

// Course is the edited entity. CourseID is assigned by the remote catalog and is never changed by
// the editor.
type Course struct {
	CourseID       string    `json:"courseId" mapstructure:"courseId"`
	InstructorName string    `json:"instructorName" mapstructure:"instructorName"`
	CourseName     string    `json:"courseName" mapstructure:"courseName"`
	Tags           []string  `json:"tags" mapstructure:"tags"`
	Students       []Student `json:"students,omitempty" mapstructure:"students,omitempty"`
}

// Clone returns a deep copy of the course, so that edits to the copy never reach the original.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}

	clone := *c
	if c.Tags != nil {
		clone.Tags = append(make([]string, 0, len(c.Tags)), c.Tags...)
	}
	if c.Students != nil {
		clone.Students = append(make([]Student, 0, len(c.Students)), c.Students...)
	}

	return &clone
}

// CourseCard is what the catalog shows for each course.
type CourseCard struct {
	CourseID   string `json:"courseId"`
	CourseName string `json:"courseName"`
}

// Card returns the catalog card for the course.
func (c *Course) Card() CourseCard {
	return CourseCard{CourseID: c.CourseID, CourseName: c.CourseName}
}

// CourseCollection is the payload served by the course collection endpoint.
type CourseCollection struct {
	Courses []*Course `json:"courses"`
}

// TagCollection is the payload served by the tag candidates endpoint.
type TagCollection struct {
	Tags []string `json:"tags"`
}

// StudentCollection is the payload served by the student candidates endpoint.
type StudentCollection struct {
	EnrolledList []Student `json:"enrolledList"`
}

// CatalogResponse is returned by the catalog listing.
type CatalogResponse struct {
	Cards   []CourseCard `json:"cards"`
	Courses []*Course    `json:"courses"`
}

// EditCourseRequest is the parameter struct for draft field edits. Nil fields are left alone.
type EditCourseRequest struct {
	CourseID       string  `json:"-"`
	InstructorName *string `json:"instructorName,omitempty"`
	CourseName     *string `json:"courseName,omitempty"`
}

// SelectCourseResponse is returned after a course has been selected.
type SelectCourseResponse struct {
	Course   *Course `json:"course"`
	Location string  `json:"location"`
}
