package usecase

import (
	"context"
	"strings"

	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/utils"
)

// CityDirectory resolves city strings to canonical names, codes and countries. The
// built-in table answers first; the city repository covers everything else.
type CityDirectory struct {
	cityRepo repository.CityRepository
	logger   logger.Logger
}

// NewCityDirectory creates a new city directory. cityRepo may be nil.
func NewCityDirectory(cityRepo repository.CityRepository, logger logger.Logger) *CityDirectory {
	return &CityDirectory{
		cityRepo: cityRepo,
		logger:   logger,
	}
}

func (d *CityDirectory) lookup(ctx context.Context, value string) (cityInfo, bool) {
	if c, ok := lookupBuiltinCity(value); ok {
		return c, true
	}
	if d == nil || d.cityRepo == nil {
		return cityInfo{}, false
	}

	name, code := utils.SplitCityCode(value)
	city, err := d.cityRepo.GetByName(ctx, name)
	if err == nil && city == nil && code != "" {
		city, err = d.cityRepo.GetByAirportCode(ctx, code)
	}
	if err != nil {
		d.logger.Warn("City directory lookup failed", "city", value, "error", err)
		return cityInfo{}, false
	}
	if city == nil {
		return cityInfo{}, false
	}

	info := cityInfo{
		Name:    city.Name,
		Code:    city.Key(),
		Country: strings.ToUpper(city.Country),
		Region:  regionOther,
	}
	if info.isChina() {
		info.Region = regionChina
	}
	return info, true
}

// Canonical returns the directory name of a city, or the trimmed input without its airport code
func (d *CityDirectory) Canonical(ctx context.Context, value string) string {
	if c, ok := d.lookup(ctx, value); ok {
		return c.Name
	}
	name, _ := utils.SplitCityCode(value)
	return name
}

// Code returns the key used for route caching
func (d *CityDirectory) Code(ctx context.Context, value string) string {
	if c, ok := d.lookup(ctx, value); ok && c.Code != "" {
		return c.Code
	}
	name, code := utils.SplitCityCode(value)
	if code != "" {
		return code
	}
	return strings.ToUpper(strings.ReplaceAll(name, " ", ""))
}

// IsChinaCity reports whether the city is a recognized destination in China
func (d *CityDirectory) IsChinaCity(ctx context.Context, value string) bool {
	c, ok := d.lookup(ctx, value)
	return ok && c.isChina()
}
