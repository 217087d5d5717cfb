package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitActorName(t *testing.T) {
	cases := []struct {
		input     string
		firstName string
		lastName  string
	}{
		{"Jan Jansen", "Jan", "Jansen"},
		{"Jan van der Berg", "Jan van der", "Berg"},
		{"Madonna", "Madonna", ""},
		{"  Jan   Jansen  ", "Jan", "Jansen"},
		{"", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			firstName, lastName := SplitActorName(tc.input)
			assert.Equal(t, tc.firstName, firstName)
			assert.Equal(t, tc.lastName, lastName)
		})
	}
}

func TestBulkCreateRolesFromText(t *testing.T) {
	db := testDB(t)
	activity, err := CreateActivity(db, CreateActivityParams{Title: "Hamlet", Year: intPtr(1999)})
	require.NoError(t, err)

	programText := "Director – John Doe\nHamlet – Jane Smith\nNotADelimiterLine"

	result, err := BulkCreateRolesFromText(db, activity.ID, programText, "–")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Skipped (no delimiter): NotADelimiterLine", result.Errors[0])

	roles, err := ListRolesForActivity(db, activity.ID, "")
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	// members created through the quick-create path
	member, err := GetMember(db, "doe-john")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "John", member.FirstName)
	assert.Equal(t, "Doe", member.LastName)

	t.Run("rerun is idempotent", func(t *testing.T) {
		again, err := BulkCreateRolesFromText(db, activity.ID, programText, "–")
		require.NoError(t, err)
		assert.Equal(t, 0, again.Created)
		require.Len(t, again.Errors, 3)
		assert.Contains(t, again.Errors, "Already exists: Director – John Doe")
		assert.Contains(t, again.Errors, "Already exists: Hamlet – Jane Smith")

		roles, err := ListRolesForActivity(db, activity.ID, "")
		require.NoError(t, err)
		assert.Len(t, roles, 2)
	})
}

func TestBulkCreateRolesEmptyFields(t *testing.T) {
	db := testDB(t)
	activity, err := CreateActivity(db, CreateActivityParams{Title: "Revue"})
	require.NoError(t, err)

	result, err := BulkCreateRolesFromText(db, activity.ID, "– Jan Jansen\nRegie –\n\n", "–")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	require.Len(t, result.Errors, 2)
	for _, message := range result.Errors {
		assert.Contains(t, message, "Skipped (empty field): ")
	}
}

func TestBulkCreateRolesUnknownActivity(t *testing.T) {
	db := testDB(t)
	_, err := BulkCreateRolesFromText(db, "missing", "Regie – Jan Jansen", "–")
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 404, serr.Status)
}

func TestBulkCreateRolesCustomDelimiter(t *testing.T) {
	db := testDB(t)
	activity, err := CreateActivity(db, CreateActivityParams{Title: "Klucht"})
	require.NoError(t, err)

	result, err := BulkCreateRolesFromText(db, activity.ID, "Regie :: Piet de Boer", "::")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
