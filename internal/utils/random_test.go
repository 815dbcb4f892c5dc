package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeFromChineseName(t *testing.T) {
	code := GenerateCodeFromChineseName("张伟", 7)
	assert.Equal(t, "ZHANGWEI007", code)
}

func TestGenerateRandomEmployee(t *testing.T) {
	codePattern := regexp.MustCompile(`^[A-Z]+\d{3}$`)

	for seq := 1; seq <= 20; seq++ {
		e := GenerateRandomEmployee(1, 7, seq)

		assert.Equal(t, int64(1), e.OrgID)
		assert.Equal(t, int64(7), e.RoleID)
		assert.Regexp(t, codePattern, e.Code)
		assert.GreaterOrEqual(t, e.HourlyCost, 20.0)
		assert.Less(t, e.HourlyCost, 40.0)
		assert.GreaterOrEqual(t, e.MaxWeeklyHours, int32(16))
		assert.LessOrEqual(t, e.MaxWeeklyHours, int32(40))

		// 工作日全天可用
		require.Len(t, e.Availabilities, 5)
		for i, a := range e.Availabilities {
			assert.Equal(t, int32(i+1), a.Weekday)
			assert.Equal(t, "08:00", a.StartTime)
			assert.Equal(t, "22:00", a.EndTime)
		}
	}
}

func TestGenerateRandomDemandTemplate(t *testing.T) {
	timePattern := regexp.MustCompile(`^\d{2}:00$`)

	for i := 0; i < 20; i++ {
		template := GenerateRandomDemandTemplate(5, 7, 3)

		assert.Equal(t, int64(5), template.LocationID)
		assert.Equal(t, int64(7), template.RoleID)
		assert.Equal(t, int32(3), template.Weekday)
		assert.Regexp(t, timePattern, template.StartTime)
		assert.Regexp(t, timePattern, template.EndTime)
		assert.Greater(t, template.EndTime, template.StartTime)
		assert.GreaterOrEqual(t, template.Required, int32(1))
	}
}
