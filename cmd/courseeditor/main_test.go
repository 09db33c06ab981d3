package main

import (
	"bytes"
	"testing"

	"courseeditor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCards(t *testing.T) {
	var out bytes.Buffer
	courses := []*models.Course{
		{CourseID: "C1", CourseName: "Intro"},
		{CourseID: "C22", CourseName: "Systems"},
	}

	require.NoError(t, printCards(&out, courses))
	assert.Equal(t, "COURSE ID  COURSE NAME\nC1         Intro\nC22        Systems\n", out.String())
}
