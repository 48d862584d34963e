package identity

import (
	"math/rand"
	"testing"
	"time"

	"hospital-sim-reporting/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndChecksum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		birth := time.Date(1850+rng.Intn(200), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
		sex := models.SexMale
		if i%2 == 0 {
			sex = models.SexFemale
		}
		code := Generate(birth, sex, rng)
		require.Len(t, code, 11)
		assert.True(t, Validate(code), "code %s failed checksum for birth %s", code, birth.Format("2006-01-02"))
	}
}

func TestGenerateSexParity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	birth := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		male := Generate(birth, models.SexMale, rng)
		female := Generate(birth, models.SexFemale, rng)
		assert.Equal(t, 1, int(male[9]-'0')%2, "male sex digit must be odd: %s", male)
		assert.Equal(t, 0, int(female[9]-'0')%2, "female sex digit must be even: %s", female)
	}
}

func TestGenerateCenturyOffsets(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cases := []struct {
		name   string
		birth  time.Time
		prefix string
	}{
		{"nineteenth century adds 80 to month", time.Date(1850, 3, 7, 0, 0, 0, 0, time.UTC), "508307"},
		{"twentieth century keeps month", time.Date(1985, 11, 23, 0, 0, 0, 0, time.UTC), "851123"},
		{"twenty-first century adds 20 to month", time.Date(2015, 3, 7, 0, 0, 0, 0, time.UTC), "152307"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code := Generate(tc.birth, models.SexMale, rng)
			assert.Equal(t, tc.prefix, code[:6])
		})
	}
}

func TestValidateRejectsCorruptCodes(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	code := Generate(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), models.SexFemale, rng)
	require.True(t, Validate(code))

	flipped := code[:10] + string('0'+(code[10]-'0'+1)%10)
	assert.False(t, Validate(flipped))
	assert.False(t, Validate(code[:10]))
	assert.False(t, Validate(code+"0"))
	assert.False(t, Validate(code[:10]+"x"))
}
