package services

import (
	_ "embed"
	"fmt"

	"github.com/techagentng/citypulse/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/city.yaml
var cityData []byte

type CityService interface {
	Transport() []models.AreaTransport
	Bills() []models.Bill
}

type cityService struct {
	data models.CityData
}

func NewCityService() (CityService, error) {
	var data models.CityData
	if err := yaml.Unmarshal(cityData, &data); err != nil {
		return nil, fmt.Errorf("parse city data: %v", err)
	}
	return &cityService{data: data}, nil
}

func (c *cityService) Transport() []models.AreaTransport {
	return c.data.Transport
}

func (c *cityService) Bills() []models.Bill {
	return c.data.Bills
}
