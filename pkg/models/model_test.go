package models_test

import (
	"time"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestModelTimeUTC() {
	tz, _ := time.LoadLocation("Europe/Berlin")

	model := models.DefaultModel{
		Timestamps: models.Timestamps{
			CreatedAt: time.Date(2000, 1, 2, 3, 4, 5, 6, tz),
			UpdatedAt: time.Date(2001, 2, 3, 4, 5, 6, 7, tz),
		},
	}

	err := model.AfterFind(suite.db)
	if err != nil {
		assert.Fail(suite.T(), "model.AfterFind failed")
	}

	assert.Equal(suite.T(), time.UTC, model.CreatedAt.Location(), "Timezone for model is not UTC")
	assert.Equal(suite.T(), time.UTC, model.UpdatedAt.Location(), "Timezone for model is not UTC")
}

func (suite *TestSuiteStandard) TestModelKeepsPresetID() {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	model := models.DefaultModel{ID: id}

	_ = model.BeforeCreate(suite.db)
	assert.Equal(suite.T(), id, model.ID)

	model = models.DefaultModel{}
	_ = model.BeforeCreate(suite.db)
	assert.NotEqual(suite.T(), uuid.Nil, model.ID)
}

func (suite *TestSuiteStandard) TestRegistrySelf() {
	for _, m := range models.Registry {
		assert.NotEmpty(suite.T(), m.Self(), "%T has no name", m)
	}
}
