package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	original := &Course{
		CourseID:       "C1",
		InstructorName: "Alice",
		CourseName:     "Intro",
		Tags:           []string{"a", "b"},
		Students:       []Student{{Name: "Sam"}},
	}

	clone := original.Clone()
	clone.Tags[0] = "z"
	clone.Students[0].Name = "Kim"
	clone.InstructorName = "Bob"

	assert.Equal(t, []string{"a", "b"}, original.Tags)
	assert.Equal(t, "Sam", original.Students[0].Name)
	assert.Equal(t, "Alice", original.InstructorName)
}

func TestCloneKeepsNilStudents(t *testing.T) {
	clone := (&Course{CourseID: "C1", Tags: []string{}}).Clone()
	assert.Nil(t, clone.Students)
	assert.NotNil(t, clone.Tags)

	var nilCourse *Course
	assert.Nil(t, nilCourse.Clone())
}

func TestCourseJSONMatchesRemoteSchema(t *testing.T) {
	payload := `{"courses":[{"courseId":"C1","instructorName":"Alice","courseName":"Intro","tags":["a"],"students":[{"name":"Sam"}]}]}`

	var collection CourseCollection
	require.NoError(t, json.Unmarshal([]byte(payload), &collection))
	require.Len(t, collection.Courses, 1)

	c := collection.Courses[0]
	assert.Equal(t, "C1", c.CourseID)
	assert.Equal(t, []Student{{Name: "Sam"}}, c.Students)
	assert.Equal(t, CourseCard{CourseID: "C1", CourseName: "Intro"}, c.Card())
}

func TestStudentsOmittedWhenAbsent(t *testing.T) {
	out, err := json.Marshal(&Course{CourseID: "C1", Tags: []string{"b"}})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "students")
}
