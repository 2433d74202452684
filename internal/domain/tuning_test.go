package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTuningParamsValidate(t *testing.T) {
	params := TuningParams{
		BaseModel:    "Qwen/Qwen2.5-7B-Instruct",
		LoraRank:     16,
		LoraAlpha:    32,
		LoraDropout:  0.05,
		LearningRate: 5e-6,
		BatchSize:    2,
		Epochs:       1,
		DPOBeta:      0.1,
		MaxSeqLength: 2048,
	}
	assert.NoError(t, params.Validate())

	noModel := params
	noModel.BaseModel = ""
	assert.Error(t, noModel.Validate())

	badDropout := params
	badDropout.LoraDropout = 1.0
	assert.Error(t, badDropout.Validate())

	badBeta := params
	badBeta.DPOBeta = 0
	assert.Error(t, badBeta.Validate())
}
