package schema

import "strings"

// fallbackTables is the hand-authored schema used when live introspection is
// unavailable or too sparse to trust.
func fallbackTables() []Table {
	return []Table{
		{
			Name: "students",
			Columns: []Column{
				{Name: "id", Type: "integer", Nullable: false},
				{Name: "first_name", Type: "text", Nullable: false},
				{Name: "last_name", Type: "text", Nullable: false},
				{Name: "dob", Type: "date", Nullable: true},
				{Name: "email", Type: "text", Nullable: true},
			},
		},
		{
			Name: "courses",
			Columns: []Column{
				{Name: "id", Type: "integer", Nullable: false},
				{Name: "code", Type: "text", Nullable: false},
				{Name: "title", Type: "text", Nullable: false},
				{Name: "credits", Type: "integer", Nullable: true},
			},
		},
		{
			Name: "enrollments",
			Columns: []Column{
				{Name: "id", Type: "integer", Nullable: false},
				{Name: "student_id", Type: "integer", Nullable: false},
				{Name: "course_id", Type: "integer", Nullable: false},
				{Name: "enrolled_on", Type: "date", Nullable: true},
				{Name: "grade", Type: "text", Nullable: true},
			},
		},
	}
}

// fallbackAnnotations is free-form guidance appended to the fallback schema
// text. The generator is prone to inventing joins and column names; spelling
// the rules out keeps it on the rails for the reference dataset.
const fallbackAnnotations = `
CRITICAL JOIN RULES:
- To join students and enrollments: students.id = enrollments.student_id
- To join enrollments and courses: enrollments.course_id = courses.id
- NEVER use: enrollments.course_id = courses.code (wrong types!)

CRITICAL COLUMN RULES:
- Students have 'first_name' and 'last_name' (NOT 'name')
- Courses have 'code' (CS201) and 'title' (Algorithms)
- Grades are in 'enrollments.grade' (NOT courses.grade)
- Use WHERE courses.code = 'CS201' for course codes

Example correct queries:
- Students in CS201:
  SELECT s.first_name, s.last_name
  FROM students s
  JOIN enrollments e ON s.id = e.student_id
  JOIN courses c ON e.course_id = c.id
  WHERE c.code = 'CS201'

- Students with grade A:
  SELECT s.first_name, s.last_name
  FROM students s
  JOIN enrollments e ON s.id = e.student_id
  WHERE e.grade = 'A'
`

// fallbackDescription builds the complete fallback description
func fallbackDescription() Description {
	tables := fallbackTables()

	return Description{
		Tables:   tables,
		Text:     Render(tables) + strings.TrimRight(fallbackAnnotations, "\n") + "\n",
		Fallback: true,
	}
}
