package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

func TestStages_Ordered(t *testing.T) {
	assert.Len(t, Stages, 8)
	assert.Equal(t, 0, StageIdentification.Index())
	assert.Equal(t, 7, StageImplementation.Index())
	assert.Equal(t, -1, Stage("won").Index())
	assert.Equal(t, "Due Diligence", StageDueDiligence.Label())
	assert.Equal(t, "won", Stage("won").Label())
}

func TestEffectivePlants_ImplicitPlant(t *testing.T) {
	lat, lon := 1.0, 2.0
	tx := &Transaction{Name: "Deal", PlantName: "Alpha", CapacityMW: 600, Country: "Chile", Latitude: &lat, Longitude: &lon}
	plants := tx.EffectivePlants()
	assert.Len(t, plants, 1)
	assert.Equal(t, "Alpha", plants[0].PlantName)
	assert.True(t, plants[0].HasCoordinates())
	assert.Equal(t, 600.0, tx.TotalCapacityMW())

	noName := &Transaction{Name: "Deal only"}
	assert.Equal(t, "Deal only", noName.EffectivePlants()[0].PlantName)
}

func TestEffectivePlants_Explicit(t *testing.T) {
	tx := &Transaction{
		PlantName: "ignored",
		Plants: []PlantRef{
			{PlantName: "A", CapacityMW: 100, Country: "India"},
			{PlantName: "B", CapacityMW: 50, Country: "Indonesia"},
			{PlantName: "C", CapacityMW: 25, Country: "India"},
		},
	}
	assert.Len(t, tx.EffectivePlants(), 3)
	assert.Equal(t, 175.0, tx.TotalCapacityMW())
	assert.Equal(t, "India, Indonesia", tx.Countries())
}

func TestTransaction_Validate(t *testing.T) {
	ok := &Transaction{Name: "x", Stage: StageClosing, RAG: RAGAmber, Confidence: 60}
	assert.NoError(t, ok.Validate())

	bad := *ok
	bad.Name = " "
	assert.True(t, errors.IsValidation(bad.Validate()))

	bad = *ok
	bad.Stage = "won"
	assert.True(t, errors.IsCode(bad.Validate(), errors.ErrCodeStageInvalid))

	bad = *ok
	bad.RAG = "blue"
	assert.True(t, errors.IsCode(bad.Validate(), errors.ErrCodeRAGInvalid))

	bad = *ok
	bad.Confidence = 101
	assert.True(t, errors.IsCode(bad.Validate(), errors.ErrCodeConfidenceInvalid))
}

func TestActivityType_Valid(t *testing.T) {
	assert.True(t, ActivityStageChange.Valid())
	assert.False(t, ActivityType("sms").Valid())
}

//Personal.AI order the ending
