package domain

import "fmt"

// TuningParams is the flat hyperparameter block recorded alongside each
// generated dataset so the training run that consumes it is reproducible.
// No training happens here; the block only travels with the data.
type TuningParams struct {
	BaseModel    string  `json:"base_model"`
	LoraRank     int     `json:"lora_rank"`
	LoraAlpha    int     `json:"lora_alpha"`
	LoraDropout  float64 `json:"lora_dropout"`
	LearningRate float64 `json:"learning_rate"`
	BatchSize    int     `json:"batch_size"`
	Epochs       int     `json:"epochs"`
	DPOBeta      float64 `json:"dpo_beta"`
	MaxSeqLength int     `json:"max_seq_length"`
}

// Validate checks the ranges a trainer would reject anyway, so bad values
// surface at generation time instead of hours later.
func (t *TuningParams) Validate() error {
	if t.BaseModel == "" {
		return NewValidationError("tuning params need a base model id")
	}
	if t.LoraRank <= 0 {
		return NewValidationError("lora rank must be positive")
	}
	if t.LoraAlpha <= 0 {
		return NewValidationError("lora alpha must be positive")
	}
	if t.LoraDropout < 0 || t.LoraDropout >= 1 {
		return NewValidationError(fmt.Sprintf("lora dropout %v outside [0,1)", t.LoraDropout))
	}
	if t.LearningRate <= 0 {
		return NewValidationError("learning rate must be positive")
	}
	if t.BatchSize <= 0 {
		return NewValidationError("batch size must be positive")
	}
	if t.Epochs <= 0 {
		return NewValidationError("epochs must be positive")
	}
	if t.DPOBeta <= 0 {
		return NewValidationError("dpo beta must be positive")
	}
	if t.MaxSeqLength <= 0 {
		return NewValidationError("max sequence length must be positive")
	}
	return nil
}
