package dto

import (
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

// ToEventInput converts a request body into a recorder input
func (r RecordEventRequest) ToEventInput() service.EventInput {
	return service.EventInput{
		EventType: r.EventType,
		Qualifier: r.Qualifier,
		Value:     r.Value,
		Category:  r.Category,
		Timestamp: r.Timestamp,
		Country:   r.Country,
	}
}

// ToEventInputs converts a list of request bodies into recorder inputs
func ToEventInputs(reqs []RecordEventRequest) []service.EventInput {
	inputs := make([]service.EventInput, len(reqs))
	for i, req := range reqs {
		inputs[i] = req.ToEventInput()
	}
	return inputs
}
