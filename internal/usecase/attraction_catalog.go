package usecase

import "strings"

type attractionTemplate struct {
	Name        string
	Type        string
	Description string
}

type cityAttractions struct {
	City        string
	Attractions []attractionTemplate
}

// attractionCatalog is matched by case-insensitive substring against the hotel's city
var attractionCatalog = []cityAttractions{
	{"changchun", []attractionTemplate{
		{"Changchun World Sculpture Park", "park", "Open-air sculpture park with works from over 200 countries"},
		{"Jingyuetan National Forest Park", "nature", "Forest park around the Jingyuetan reservoir"},
	}},
	{"harbin", []attractionTemplate{
		{"Saint Sophia Cathedral", "landmark", "Byzantine-style cathedral in the old town"},
		{"Zhongyang Street", "culture", "Historic pedestrian street lined with European architecture"},
	}},
	{"shenyang", []attractionTemplate{
		{"Shenyang Imperial Palace", "landmark", "Early Qing dynasty palace complex"},
		{"Beiling Park", "park", "Park around the Zhaoling tomb"},
	}},
	{"dalian", []attractionTemplate{
		{"Xinghai Square", "landmark", "Seafront square on the Dalian coast"},
		{"Bangchuidao Scenic Area", "nature", "Coastal scenic area with beaches and walking trails"},
	}},
	{"beijing", []attractionTemplate{
		{"Forbidden City", "landmark", "Imperial palace museum in central Beijing"},
		{"Temple of Heaven", "landmark", "Ming dynasty temple complex and park"},
	}},
	{"shanghai", []attractionTemplate{
		{"The Bund", "landmark", "Waterfront promenade along the Huangpu River"},
		{"Yu Garden", "culture", "Classical garden in the old city"},
	}},
	{"hangzhou", []attractionTemplate{
		{"West Lake", "nature", "Lake scenery with causeways, temples and gardens"},
		{"Lingyin Temple", "culture", "Buddhist temple among the hills west of the lake"},
	}},
}

var genericAttractions = []attractionTemplate{
	{"City Sightseeing Tour", "tour", "Guided tour of the city's main sights"},
	{"Local Cultural Experience", "culture", "Half-day local culture and food experience"},
}

// defaultAttractions picks the curated attractions for a city, or generic placeholders
func defaultAttractions(city string) []attractionTemplate {
	lower := strings.ToLower(city)
	if lower != "" {
		for _, c := range attractionCatalog {
			if strings.Contains(lower, c.City) {
				return c.Attractions
			}
		}
	}
	return genericAttractions
}
