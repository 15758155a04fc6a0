package services

import (
	"github.com/mroth/weightedrand/v2"
)

// ServiceGacha draws from a weighted table whose odds are fixed at
// construction, e.g. the wheel's bonus gifts. Draws whose weights shift per
// user go through ServiceSelector instead.
type ServiceGacha[T any] struct {
	chooser *weightedrand.Chooser[T, int]
}

func NewServiceGacha[T any](choices []weightedrand.Choice[T, int]) (*ServiceGacha[T], error) {
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	return &ServiceGacha[T]{chooser}, nil
}

// Pick returns one entry, weighted by the table's odds.
func (service *ServiceGacha[T]) Pick() T {
	return service.chooser.Pick()
}
