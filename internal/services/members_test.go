package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kna-archive-backend-go/internal/optional"
)

func TestQuickCreateMemberDerivesSuffixedIds(t *testing.T) {
	db := testDB(t)

	first, err := QuickCreateMember(db, "Jan", "Jansen", "")
	require.NoError(t, err)
	assert.Equal(t, "jansen-jan", first.ID)

	second, err := QuickCreateMember(db, "Jan", "Jansen", "")
	require.NoError(t, err)
	assert.Equal(t, "jansen-jan-1", second.ID)

	third, err := QuickCreateMember(db, "Jan", "Jansen", "")
	require.NoError(t, err)
	assert.Equal(t, "jansen-jan-2", third.ID)

	assert.True(t, first.GdprVisible)
}

func TestQuickCreateMemberExplicitID(t *testing.T) {
	db := testDB(t)
	member, err := QuickCreateMember(db, "Jan", "Jansen", "custom-id")
	require.NoError(t, err)
	assert.Equal(t, "custom-id", member.ID)
}

func TestCreateMemberDuplicateID(t *testing.T) {
	db := testDB(t)
	_, err := CreateMember(db, CreateMemberParams{ID: "jj", FirstName: "Jan", LastName: "Jansen", GdprVisible: true})
	require.NoError(t, err)

	_, err = CreateMember(db, CreateMemberParams{ID: "jj", FirstName: "Joop", LastName: "Jager", GdprVisible: true})
	require.Error(t, err)
	var serviceErr ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, 409, serviceErr.Status)
}

func TestListMembersGdprFilter(t *testing.T) {
	db := testDB(t)

	_, err := CreateMember(db, CreateMemberParams{ID: "visible", FirstName: "Aaf", LastName: "Zichtbaar", GdprVisible: true})
	require.NoError(t, err)
	_, err = CreateMember(db, CreateMemberParams{ID: "hidden", FirstName: "Bep", LastName: "Verborgen", GdprVisible: false})
	require.NoError(t, err)

	visible, err := ListMembers(db, ListMembersOptions{VisibleOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "visible", visible[0].ID)

	all, err := ListMembers(db, ListMembersOptions{VisibleOnly: false})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	t.Run("hidden member absent from public info", func(t *testing.T) {
		info, err := GetMemberInfo(db, "hidden")
		require.NoError(t, err)
		assert.Nil(t, info)
	})
}

func TestUpdateMemberPartial(t *testing.T) {
	db := testDB(t)
	birthDate := time.Date(1950, 3, 14, 0, 0, 0, 0, time.UTC)
	notes := "oprichter"
	_, err := CreateMember(db, CreateMemberParams{
		ID: "m1", FirstName: "Jan", LastName: "Jansen",
		BirthDate: &birthDate, GdprVisible: true, Notes: &notes,
	})
	require.NoError(t, err)

	t.Run("untouched fields survive", func(t *testing.T) {
		updated, err := UpdateMember(db, "m1", MemberPatch{FirstName: optional.Some("Johannes")})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Johannes", updated.FirstName)
		assert.Equal(t, "Jansen", updated.LastName)
		require.NotNil(t, updated.Notes)
		assert.Equal(t, "oprichter", *updated.Notes)
	})

	t.Run("explicit nil clears", func(t *testing.T) {
		updated, err := UpdateMember(db, "m1", MemberPatch{
			BirthDate: optional.Some[*time.Time](nil),
			Notes:     optional.Some[*string](nil),
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Nil(t, updated.BirthDate)
		assert.Nil(t, updated.Notes)
	})

	t.Run("unknown member yields nil", func(t *testing.T) {
		updated, err := UpdateMember(db, "nope", MemberPatch{FirstName: optional.Some("X")})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("empty first name rejected", func(t *testing.T) {
		_, err := UpdateMember(db, "m1", MemberPatch{FirstName: optional.Some("  ")})
		require.Error(t, err)
		serr, ok := err.(ServiceError)
		require.True(t, ok)
		assert.Equal(t, 400, serr.Status)
	})
}

func TestFindMemberByName(t *testing.T) {
	db := testDB(t)
	_, err := CreateMember(db, CreateMemberParams{ID: "jj", FirstName: "Jan", LastName: "Jansen", GdprVisible: true})
	require.NoError(t, err)

	found, err := FindMemberByName(db, "jan", "jansen")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "jj", found.ID)

	missing, err := FindMemberByName(db, "Piet", "Pietersen")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNameHistoryAndPeriods(t *testing.T) {
	db := testDB(t)
	_, err := CreateMember(db, CreateMemberParams{ID: "m1", FirstName: "Jan", LastName: "Jansen", GdprVisible: true})
	require.NoError(t, err)

	entry, err := AddNameHistory(db, AddNameHistoryParams{
		MemberID: "m1", FirstName: "Jan", LastName: "de Vries",
		ChangeReason: strPtr("huwelijk"),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, entry.DisplayPriority)

	entries, err := ListNameHistory(db, "m1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	joinDate := time.Date(1975, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err = AddMembershipPeriod(db, AddMembershipPeriodParams{MemberID: "m1", JoinDate: &joinDate})
	require.NoError(t, err)

	periods, err := ListMembershipPeriods(db, "m1")
	require.NoError(t, err)
	assert.Len(t, periods, 1)

	_, err = AddNameHistory(db, AddNameHistoryParams{MemberID: "missing", FirstName: "X", LastName: "Y"})
	require.Error(t, err)
}
