package model

import "fmt"

type DatasetRecord struct {
	Observations []Observation `json:"observations"`
	// Samples has shape (posterior samples, observations)
	Samples [][]float64 `json:"samples"`
}

// DatasetFile is the on-disk input of the calibrate command.
type DatasetFile struct {
	Main    *DatasetRecord `json:"main"`
	Holdout *DatasetRecord `json:"holdout,omitempty"`
}

func (r *DatasetRecord) Dataset() (*Dataset, error) {
	if r == nil {
		return nil, nil
	}
	predictive, err := NewPosteriorPredictive(r.Samples)
	if err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}
	dataset := &Dataset{
		Observations: r.Observations,
		Predictive:   predictive,
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}
	return dataset, nil
}

func NewDatasetRecord(d *Dataset) *DatasetRecord {
	if d == nil {
		return nil
	}
	return &DatasetRecord{
		Observations: d.Observations,
		Samples:      d.Predictive.Rows(),
	}
}
