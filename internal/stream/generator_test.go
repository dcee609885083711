package stream

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBusinesses []string

func (s staticBusinesses) BusinessIDs() []string { return s }

func TestGenerator_Next(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(
		staticBusinesses{"acme", "beta"},
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time { return fixed }),
	)

	for range 50 {
		r := g.Next()

		_, err := uuid.Parse(r.ID)
		require.NoError(t, err)
		assert.Contains(t, []string{"acme", "beta"}, r.BusinessID)
		assert.True(t, domain.IsKnownClothType(r.ClothType))
		assert.Contains(t, stepChoices, r.NumInferenceSteps)
		assert.Contains(t, guidanceChoices, r.GuidanceScale)
		assert.GreaterOrEqual(t, r.Seed, int64(0))
		assert.Equal(t, fixed, r.CreatedAt)
	}
}

func TestGenerator_UnknownBusiness(t *testing.T) {
	tests := []struct {
		name   string
		source BusinessSource
	}{
		{name: "nil source", source: nil},
		{name: "empty directory", source: staticBusinesses{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.source)
			assert.Equal(t, UnknownBusiness, g.Next().BusinessID)
		})
	}
}

func TestGenerator_DeterministicWithSeed(t *testing.T) {
	newGen := func() *Generator {
		n := 0
		return NewGenerator(
			staticBusinesses{"acme", "beta", "gamma"},
			WithRand(rand.New(rand.NewPCG(7, 7))),
			WithClock(func() time.Time { return time.Unix(0, 0) }),
			WithIDFunc(func() string {
				n++
				return string(rune('a' + n))
			}),
		)
	}

	a, b := newGen(), newGen()
	for range 10 {
		assert.Equal(t, a.Next(), b.Next())
	}
}
