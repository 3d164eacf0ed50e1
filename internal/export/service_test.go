package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/slatecrew/callsheet/internal/entity"
)

func TestScheduleXLSX(t *testing.T) {
	model := &entity.ScheduleModel{
		CastList: []entity.CastMember{
			{Number: 1, Name: "SARAH CONNOR"},
			{Number: 2, Name: "JOHN DOE"},
		},
		Days: []entity.ScheduleDay{
			{
				DayNumber: 1,
				Date:      "3/4/24",
				Scenes: []entity.SceneEntry{
					{SceneNumber: "4A", IntExt: entity.Interior, SetLocation: "KITCHEN", DayNight: "DAY", Pages: "3/8 pgs", CastNumbers: []int{1, 2}},
					{SceneNumber: "6", IntExt: entity.Exterior, SetLocation: "BACKYARD", DayNight: "NIGHT", CastNumbers: []int{1}},
				},
			},
			{
				DayNumber: 2,
				Scenes: []entity.SceneEntry{
					{SceneNumber: "7", IntExt: entity.Interior, SetLocation: "WAREHOUSE", CastNumbers: []int{1, 2}},
				},
			},
		},
	}

	data, err := NewService(nil).ScheduleXLSX(model)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + three scene rows

	require.Equal(t, "Day", rows[0][0])
	require.Equal(t, "4A", rows[1][2])
	require.Equal(t, "INT", rows[1][3])
	require.Equal(t, "1, 2", rows[1][7])
	require.Equal(t, "2", rows[3][0])
	require.Equal(t, "7", rows[3][2])

	cast, err := f.GetRows("Cast")
	require.NoError(t, err)
	require.Len(t, cast, 3)
	require.Equal(t, "SARAH CONNOR", cast[1][1])
}

func TestScheduleXLSXEmptyModel(t *testing.T) {
	data, err := NewService(nil).ScheduleXLSX(&entity.ScheduleModel{})
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
