package editor

import (
	"courseeditor/internal/models"
)

// Draft is the working copy of a selected course. Candidate tags and students fetched during
// editing are kept apart from the course's own lists until Merge.
type Draft struct {
	course *models.Course

	candidateTags     []string
	candidateStudents []string
	tagsFetched       bool
	studentsFetched   bool
}

// DraftView is the JSON form of a Draft.
type DraftView struct {
	Course            *models.Course `json:"course"`
	CandidateTags     []string       `json:"candidateTags"`
	CandidateStudents []string       `json:"candidateStudents"`
	TagsFetched       bool           `json:"tagsFetched"`
	StudentsFetched   bool           `json:"studentsFetched"`
}

// NewDraft opens a draft over a copy of course.
func NewDraft(course *models.Course) *Draft {
	return &Draft{
		course:            course.Clone(),
		candidateTags:     []string{},
		candidateStudents: []string{},
	}
}

// CourseID is the identifier of the drafted course.
func (d *Draft) CourseID() string {
	return d.course.CourseID
}

// SetInstructorName replaces the instructor name. Empty names are accepted.
func (d *Draft) SetInstructorName(name string) {
	d.course.InstructorName = name
}

// SetCourseName replaces the course name. Empty names are accepted.
func (d *Draft) SetCourseName(name string) {
	d.course.CourseName = name
}

// Apply copies the non-nil fields of req onto the draft. The identifier is never touched.
func (d *Draft) Apply(req *models.EditCourseRequest) {
	if req.InstructorName != nil {
		d.SetInstructorName(*req.InstructorName)
	}
	if req.CourseName != nil {
		d.SetCourseName(*req.CourseName)
	}
}

// RemoveTag drops every chip labelled tag, from the course's tags and from the candidates.
func (d *Draft) RemoveTag(tag string) {
	d.course.Tags = without(d.course.Tags, tag)
	d.candidateTags = without(d.candidateTags, tag)
}

// RemoveStudent drops every chip labelled name, from the roster and from the candidates.
func (d *Draft) RemoveStudent(name string) {
	if d.course.Students != nil {
		kept := make([]models.Student, 0, len(d.course.Students))
		for _, s := range d.course.Students {
			if s.Name != name {
				kept = append(kept, s)
			}
		}
		d.course.Students = kept
	}
	d.candidateStudents = without(d.candidateStudents, name)
}

// SetTagCandidates replaces the candidate tags with a fresh fetch result.
func (d *Draft) SetTagCandidates(tags []string) {
	d.candidateTags = append(make([]string, 0, len(tags)), tags...)
	d.tagsFetched = true
}

// SetStudentCandidates replaces the candidate students with a fresh fetch result.
func (d *Draft) SetStudentCandidates(names []string) {
	d.candidateStudents = append(make([]string, 0, len(names)), names...)
	d.studentsFetched = true
}

// Merge builds the course to persist on submit. A list whose candidates were fetched is replaced
// by the (possibly reduced) candidates; otherwise the original list minus removals passes
// through.
func (d *Draft) Merge() *models.Course {
	merged := d.course.Clone()

	if d.tagsFetched {
		merged.Tags = append(make([]string, 0, len(d.candidateTags)), d.candidateTags...)
	}
	if d.studentsFetched {
		merged.Students = make([]models.Student, 0, len(d.candidateStudents))
		for _, name := range d.candidateStudents {
			merged.Students = append(merged.Students, models.Student{Name: name})
		}
	}

	return merged
}

// View snapshots the draft for rendering.
func (d *Draft) View() *DraftView {
	return &DraftView{
		Course:            d.course.Clone(),
		CandidateTags:     append([]string{}, d.candidateTags...),
		CandidateStudents: append([]string{}, d.candidateStudents...),
		TagsFetched:       d.tagsFetched,
		StudentsFetched:   d.studentsFetched,
	}
}

func without(values []string, drop string) []string {
	if values == nil {
		return nil
	}

	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != drop {
			kept = append(kept, v)
		}
	}
	return kept
}
