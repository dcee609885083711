// Package stream synthesizes log records for the streaming console mode.
package stream

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/google/uuid"
)

// UnknownBusiness is attributed when no business ids are available.
const UnknownBusiness = "Unknown"

var (
	stepChoices     = []int{20, 25, 30, 40, 50}
	guidanceChoices = []float64{2.5, 5, 7.5, 10}
)

// BusinessSource supplies the ids new records are attributed to.
type BusinessSource interface {
	BusinessIDs() []string
}

// Generator produces one synthetic record per call.
type Generator struct {
	businesses BusinessSource
	rng        *rand.Rand
	now        func() time.Time
	newID      func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand fixes the random source.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithIDFunc replaces the uuid id source.
func WithIDFunc(newID func() string) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

// NewGenerator creates a Generator. businesses may be nil.
func NewGenerator(businesses BusinessSource, opts ...Option) *Generator {
	g := &Generator{
		businesses: businesses,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a new record stamped with the current time.
func (g *Generator) Next() domain.LogRecord {
	id := g.newID()
	return domain.LogRecord{
		ID:                id,
		BusinessID:        g.pickBusiness(),
		UserID:            fmt.Sprintf("user-%03d", g.rng.IntN(1000)),
		ProductID:         fmt.Sprintf("product-%03d", g.rng.IntN(1000)),
		ClothType:         domain.KnownClothTypes[g.rng.IntN(len(domain.KnownClothTypes))],
		NumInferenceSteps: stepChoices[g.rng.IntN(len(stepChoices))],
		Seed:              g.rng.Int64N(1 << 32),
		GuidanceScale:     guidanceChoices[g.rng.IntN(len(guidanceChoices))],
		ResultImageURL:    "generated/" + id + ".png",
		CreatedAt:         g.now().UTC(),
	}
}

func (g *Generator) pickBusiness() string {
	if g.businesses == nil {
		return UnknownBusiness
	}
	ids := g.businesses.BusinessIDs()
	if len(ids) == 0 {
		return UnknownBusiness
	}
	return ids[g.rng.IntN(len(ids))]
}
