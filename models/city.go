package models

type TransportStand struct {
	Name     string   `json:"name" yaml:"name"`
	Location string   `json:"location" yaml:"location"`
	Details  []string `json:"details" yaml:"details"`
}

type AreaTransport struct {
	Area       string           `json:"area" yaml:"area"`
	BusStands  []TransportStand `json:"busStands" yaml:"bus_stands"`
	TaxiStands []TransportStand `json:"taxiStands" yaml:"taxi_stands"`
}

type Bill struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
}

type CityData struct {
	Transport []AreaTransport `yaml:"transport"`
	Bills     []Bill          `yaml:"bills"`
}
