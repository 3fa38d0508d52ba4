package provider

import (
	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

// Payload structs mirror the provider's JSON shapes. Required fields are
// pointers so a missing field can be reported by name instead of being
// silently zeroed.

type locationPayload struct {
	Name    *string  `json:"name"`
	Country *string  `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

type currentPayload struct {
	TempC       *float64 `json:"temp_c"`
	Humidity    *float64 `json:"humidity"`
	WindMph     *float64 `json:"wind_mph"`
	PrecipMm    *float64 `json:"precip_mm"`
	LastUpdated *string  `json:"last_updated"`
}

type currentResponse struct {
	Location *locationPayload `json:"location"`
	Current  *currentPayload  `json:"current"`
}

type dayPayload struct {
	AvgTempC      *float64 `json:"avgtemp_c"`
	AvgHumidity   *float64 `json:"avghumidity"`
	MaxWindMph    *float64 `json:"maxwind_mph"`
	TotalPrecipMm *float64 `json:"totalprecip_mm"`
}

type forecastDayPayload struct {
	Date *string     `json:"date"`
	Day  *dayPayload `json:"day"`
}

type forecastPayload struct {
	ForecastDay []forecastDayPayload `json:"forecastday"`
}

type historyResponse struct {
	Location *locationPayload `json:"location"`
	Forecast *forecastPayload `json:"forecast"`
}

func (p *currentResponse) record() (*weather.Record, error) {
	loc, err := p.Location.check()
	if err != nil {
		return nil, err
	}

	cur := p.Current
	if cur == nil {
		return nil, &weather.MalformedResponseError{Field: "current"}
	}
	if err := requireFields([]fieldCheck{
		{"current.temp_c", cur.TempC != nil},
		{"current.humidity", cur.Humidity != nil},
		{"current.wind_mph", cur.WindMph != nil},
		{"current.precip_mm", cur.PrecipMm != nil},
		{"current.last_updated", cur.LastUpdated != nil},
	}); err != nil {
		return nil, err
	}

	return &weather.Record{
		Location:      *loc.Name,
		Country:       *loc.Country,
		Latitude:      *loc.Lat,
		Longitude:     *loc.Lon,
		Temperature:   *cur.TempC,
		Humidity:      int(*cur.Humidity),
		WindSpeed:     *cur.WindMph,
		Precipitation: *cur.PrecipMm,
		ObservedAt:    *cur.LastUpdated,
	}, nil
}

func (p *historyResponse) record() (*weather.Record, error) {
	loc, err := p.Location.check()
	if err != nil {
		return nil, err
	}

	if p.Forecast == nil || len(p.Forecast.ForecastDay) == 0 {
		return nil, &weather.MalformedResponseError{Field: "forecast.forecastday"}
	}
	fd := p.Forecast.ForecastDay[0]
	if fd.Date == nil {
		return nil, &weather.MalformedResponseError{Field: "forecast.forecastday[0].date"}
	}
	day := fd.Day
	if day == nil {
		return nil, &weather.MalformedResponseError{Field: "forecast.forecastday[0].day"}
	}
	if err := requireFields([]fieldCheck{
		{"forecast.forecastday[0].day.avgtemp_c", day.AvgTempC != nil},
		{"forecast.forecastday[0].day.avghumidity", day.AvgHumidity != nil},
		{"forecast.forecastday[0].day.maxwind_mph", day.MaxWindMph != nil},
		{"forecast.forecastday[0].day.totalprecip_mm", day.TotalPrecipMm != nil},
	}); err != nil {
		return nil, err
	}

	return &weather.Record{
		Location:      *loc.Name,
		Country:       *loc.Country,
		Latitude:      *loc.Lat,
		Longitude:     *loc.Lon,
		Temperature:   *day.AvgTempC,
		Humidity:      int(*day.AvgHumidity),
		WindSpeed:     *day.MaxWindMph,
		Precipitation: *day.TotalPrecipMm,
		ObservedAt:    *fd.Date,
	}, nil
}

func (p *locationPayload) check() (*locationPayload, error) {
	if p == nil {
		return nil, &weather.MalformedResponseError{Field: "location"}
	}
	if err := requireFields([]fieldCheck{
		{"location.name", p.Name != nil},
		{"location.country", p.Country != nil},
		{"location.lat", p.Lat != nil},
		{"location.lon", p.Lon != nil},
	}); err != nil {
		return nil, err
	}
	return p, nil
}

type fieldCheck struct {
	name    string
	present bool
}

func requireFields(checks []fieldCheck) error {
	for _, c := range checks {
		if !c.present {
			return &weather.MalformedResponseError{Field: c.name}
		}
	}
	return nil
}
