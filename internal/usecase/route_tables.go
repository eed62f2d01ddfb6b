package usecase

import (
	"strings"

	"medtour-itinerary-service/pkg/utils"
)

type cityRegion int

const (
	regionOther cityRegion = iota
	regionNortheastChina
	regionEasternChina
	regionChina
)

type cityInfo struct {
	Name    string
	Code    string
	Country string
	Region  cityRegion
}

func (c cityInfo) isChina() bool {
	return c.Country == "CN"
}

var builtinCities = []cityInfo{
	{"New York", "JFK", "US", regionOther},
	{"Los Angeles", "LAX", "US", regionOther},
	{"San Francisco", "SFO", "US", regionOther},
	{"Chicago", "ORD", "US", regionOther},
	{"Seattle", "SEA", "US", regionOther},
	{"Houston", "IAH", "US", regionOther},
	{"Vancouver", "YVR", "CA", regionOther},
	{"Toronto", "YYZ", "CA", regionOther},
	{"London", "LHR", "GB", regionOther},
	{"Sydney", "SYD", "AU", regionOther},
	{"Singapore", "SIN", "SG", regionOther},
	{"Tokyo", "NRT", "JP", regionOther},
	{"Seoul", "ICN", "KR", regionOther},
	{"Moscow", "SVO", "RU", regionOther},
	{"Beijing", "PEK", "CN", regionChina},
	{"Shanghai", "PVG", "CN", regionChina},
	{"Guangzhou", "CAN", "CN", regionChina},
	{"Shenzhen", "SZX", "CN", regionChina},
	{"Chengdu", "CTU", "CN", regionChina},
	{"Xi'an", "XIY", "CN", regionChina},
	{"Wuhan", "WUH", "CN", regionChina},
	{"Kunming", "KMG", "CN", regionChina},
	{"Chongqing", "CKG", "CN", regionChina},
	{"Qingdao", "TAO", "CN", regionChina},
	{"Tianjin", "TSN", "CN", regionChina},
	{"Hong Kong", "HKG", "CN", regionChina},
	{"Changchun", "CGQ", "CN", regionNortheastChina},
	{"Harbin", "HRB", "CN", regionNortheastChina},
	{"Shenyang", "SHE", "CN", regionNortheastChina},
	{"Dalian", "DLC", "CN", regionNortheastChina},
	{"Jilin", "JIL", "CN", regionNortheastChina},
	{"Hangzhou", "HGH", "CN", regionEasternChina},
	{"Nanjing", "NKG", "CN", regionEasternChina},
	{"Suzhou", "SZV", "CN", regionEasternChina},
	{"Ningbo", "NGB", "CN", regionEasternChina},
	{"Hefei", "HFE", "CN", regionEasternChina},
	{"Xiamen", "XMN", "CN", regionEasternChina},
	{"Fuzhou", "FOC", "CN", regionEasternChina},
}

var cityAliases = map[string]string{
	"nyc":           "New York",
	"new york city": "New York",
	"peking":        "Beijing",
	"la":            "Los Angeles",
	"sf":            "San Francisco",
	"xian":          "Xi'an",
}

var (
	citiesByName = map[string]cityInfo{}
	citiesByCode = map[string]cityInfo{}
)

func init() {
	for _, c := range builtinCities {
		citiesByName[strings.ToLower(c.Name)] = c
		citiesByCode[c.Code] = c
	}
}

// lookupBuiltinCity accepts "Name", "Name(CODE)", an alias or a bare airport code
func lookupBuiltinCity(value string) (cityInfo, bool) {
	name, code := utils.SplitCityCode(value)
	key := strings.ToLower(name)
	if alias, ok := cityAliases[key]; ok {
		key = strings.ToLower(alias)
	}
	if c, ok := citiesByName[key]; ok {
		return c, true
	}
	if code != "" {
		if c, ok := citiesByCode[code]; ok {
			return c, true
		}
	}
	if len(name) == 3 {
		if c, ok := citiesByCode[strings.ToUpper(name)]; ok {
			return c, true
		}
	}
	return cityInfo{}, false
}

func pairKey(origin, destination string) string {
	return strings.ToLower(origin) + "|" + strings.ToLower(destination)
}

type curatedRoute struct {
	IsDirect      bool
	Connections   []string
	Duration      int
	FlightNumbers []string
	Airlines      []string
	MinPrice      float64
	MaxPrice      float64
	TypicalPrice  float64
}

// curatedRoutes holds known itineraries with real flight numbers, keyed by ordered pair
var curatedRoutes = map[string]curatedRoute{
	pairKey("New York", "Beijing"):       {true, nil, 810, []string{"CA982"}, []string{"Air China"}, 620, 1650, 980},
	pairKey("Beijing", "New York"):       {true, nil, 780, []string{"CA981"}, []string{"Air China"}, 620, 1650, 980},
	pairKey("New York", "Shanghai"):      {true, nil, 900, []string{"MU588"}, []string{"China Eastern"}, 640, 1700, 1020},
	pairKey("Shanghai", "New York"):      {true, nil, 870, []string{"MU587"}, []string{"China Eastern"}, 640, 1700, 1020},
	pairKey("Los Angeles", "Beijing"):    {true, nil, 780, []string{"CA988"}, []string{"Air China"}, 580, 1500, 900},
	pairKey("Beijing", "Los Angeles"):    {true, nil, 720, []string{"CA987"}, []string{"Air China"}, 580, 1500, 900},
	pairKey("San Francisco", "Shanghai"): {true, nil, 770, []string{"UA857"}, []string{"United Airlines"}, 600, 1550, 940},
	pairKey("Shanghai", "San Francisco"): {true, nil, 690, []string{"UA858"}, []string{"United Airlines"}, 600, 1550, 940},
	pairKey("New York", "Changchun"):     {false, []string{"Beijing"}, 1140, []string{"CA982", "CA1611"}, []string{"Air China"}, 780, 1950, 1180},
	pairKey("Changchun", "New York"):     {false, []string{"Beijing"}, 1110, []string{"CA1612", "CA981"}, []string{"Air China"}, 780, 1950, 1180},
	pairKey("Los Angeles", "Changchun"):  {false, []string{"Beijing"}, 1090, []string{"CA988", "CA1611"}, []string{"Air China"}, 740, 1850, 1120},
	pairKey("Changchun", "Los Angeles"):  {false, []string{"Beijing"}, 1020, []string{"CA1612", "CA987"}, []string{"Air China"}, 740, 1850, 1120},
	pairKey("San Francisco", "Hangzhou"): {false, []string{"Shanghai"}, 900, []string{"UA857", "MU5401"}, []string{"United Airlines", "China Eastern"}, 700, 1800, 1080},
	pairKey("Hangzhou", "San Francisco"): {false, []string{"Shanghai"}, 840, []string{"MU5402", "UA858"}, []string{"China Eastern", "United Airlines"}, 700, 1800, 1080},
}

type pairDuration struct {
	Minutes int
	Nonstop bool
}

// flightDurations is the distance-based duration table. Lookups try the ordered pair and
// then its reverse.
var flightDurations = map[string]pairDuration{
	pairKey("New York", "Beijing"):       {810, true},
	pairKey("New York", "Shanghai"):      {900, true},
	pairKey("New York", "Changchun"):     {840, false},
	pairKey("New York", "Harbin"):        {870, false},
	pairKey("Los Angeles", "Beijing"):    {780, true},
	pairKey("Los Angeles", "Shanghai"):   {800, true},
	pairKey("San Francisco", "Beijing"):  {720, true},
	pairKey("San Francisco", "Shanghai"): {770, true},
	pairKey("Chicago", "Beijing"):        {780, true},
	pairKey("Chicago", "Shanghai"):       {840, true},
	pairKey("Seattle", "Beijing"):        {690, true},
	pairKey("Vancouver", "Beijing"):      {660, true},
	pairKey("Vancouver", "Shanghai"):     {700, true},
	pairKey("Toronto", "Beijing"):        {790, true},
	pairKey("London", "Beijing"):         {620, true},
	pairKey("Sydney", "Shanghai"):        {660, true},
	pairKey("Singapore", "Beijing"):      {390, true},
	pairKey("Tokyo", "Beijing"):          {225, true},
	pairKey("Seoul", "Changchun"):        {150, true},
	pairKey("Seoul", "Beijing"):          {130, true},
	pairKey("Moscow", "Beijing"):         {460, true},
	pairKey("Beijing", "Changchun"):      {125, true},
	pairKey("Beijing", "Harbin"):         {135, true},
	pairKey("Beijing", "Shenyang"):       {95, true},
	pairKey("Beijing", "Dalian"):         {85, true},
	pairKey("Beijing", "Jilin"):          {120, true},
	pairKey("Beijing", "Shanghai"):       {135, true},
	pairKey("Beijing", "Guangzhou"):      {190, true},
	pairKey("Beijing", "Chengdu"):        {170, true},
	pairKey("Beijing", "Xi'an"):          {130, true},
	pairKey("Beijing", "Kunming"):        {220, true},
	pairKey("Beijing", "Hangzhou"):       {130, true},
	pairKey("Beijing", "Xiamen"):         {180, true},
	pairKey("Shanghai", "Changchun"):     {170, true},
	pairKey("Shanghai", "Harbin"):        {185, true},
	pairKey("Shanghai", "Hangzhou"):      {55, true},
	pairKey("Shanghai", "Nanjing"):       {60, true},
	pairKey("Shanghai", "Suzhou"):        {50, true},
	pairKey("Shanghai", "Ningbo"):        {55, true},
	pairKey("Shanghai", "Hefei"):         {70, true},
	pairKey("Shanghai", "Xiamen"):        {110, true},
	pairKey("Shanghai", "Fuzhou"):        {95, true},
	pairKey("Shanghai", "Guangzhou"):     {140, true},
	pairKey("Shanghai", "Shenzhen"):      {145, true},
	pairKey("Hong Kong", "Beijing"):      {220, true},
	pairKey("Hong Kong", "Shanghai"):     {150, true},
}

const (
	defaultEstimateMinutes  = 240
	defaultDirectLegMinutes = 480
)

func lookupDuration(origin, destination string) (pairDuration, bool) {
	if d, ok := flightDurations[pairKey(origin, destination)]; ok {
		return d, true
	}
	d, ok := flightDurations[pairKey(destination, origin)]
	return d, ok
}

type airlineInfo struct {
	Code string
	Name string
}

// airlinePools lists the carriers used for synthetic flight numbers, keyed by origin city
var airlinePools = map[string][]airlineInfo{
	"new york":      {{"CA", "Air China"}, {"UA", "United Airlines"}, {"MU", "China Eastern"}, {"DL", "Delta"}},
	"los angeles":   {{"CA", "Air China"}, {"MU", "China Eastern"}, {"CZ", "China Southern"}, {"AA", "American Airlines"}},
	"san francisco": {{"UA", "United Airlines"}, {"CA", "Air China"}, {"MU", "China Eastern"}},
	"chicago":       {{"UA", "United Airlines"}, {"AA", "American Airlines"}, {"HU", "Hainan Airlines"}},
	"vancouver":     {{"AC", "Air Canada"}, {"CA", "Air China"}},
	"toronto":       {{"AC", "Air Canada"}, {"HU", "Hainan Airlines"}},
	"beijing":       {{"CA", "Air China"}, {"HU", "Hainan Airlines"}, {"CZ", "China Southern"}},
	"shanghai":      {{"MU", "China Eastern"}, {"FM", "Shanghai Airlines"}, {"HO", "Juneyao Airlines"}},
	"changchun":     {{"CA", "Air China"}, {"CZ", "China Southern"}, {"MU", "China Eastern"}},
	"harbin":        {{"CZ", "China Southern"}, {"CA", "Air China"}},
	"shenyang":      {{"CZ", "China Southern"}, {"CA", "Air China"}},
	"guangzhou":     {{"CZ", "China Southern"}},
	"hangzhou":      {{"MU", "China Eastern"}, {"CA", "Air China"}},
	"xiamen":        {{"MF", "Xiamen Airlines"}},
}

var defaultAirlinePool = []airlineInfo{{"CA", "Air China"}, {"MU", "China Eastern"}, {"CZ", "China Southern"}}

func airlinePool(origin string) []airlineInfo {
	if pool, ok := airlinePools[strings.ToLower(origin)]; ok {
		return pool
	}
	return defaultAirlinePool
}

// connectionHub picks the hub for a connecting journey: the destination's region decides
// first, then the origin's.
func connectionHub(origin, destination cityInfo, originKnown, destinationKnown bool) string {
	if destinationKnown {
		switch destination.Region {
		case regionNortheastChina:
			return "Beijing"
		case regionEasternChina:
			return "Shanghai"
		}
	}
	if originKnown {
		switch origin.Region {
		case regionNortheastChina:
			return "Beijing"
		case regionEasternChina:
			return "Shanghai"
		}
	}
	return "Beijing"
}
