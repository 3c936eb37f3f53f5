package bgg

import "encoding/xml"

// apiItems is the envelope of a BGG XML API2 /thing response. A lookup for an
// unknown id returns an empty items element, not an HTTP 404.
type apiItems struct {
	XMLName xml.Name  `xml:"items"`
	Items   []apiItem `xml:"item"`
}

// apiItem is a single boardgame record.
type apiItem struct {
	ID            int64         `xml:"id,attr"`
	Type          string        `xml:"type,attr"`
	Thumbnail     string        `xml:"thumbnail"`
	Image         string        `xml:"image"`
	Names         []apiName     `xml:"name"`
	Description   string        `xml:"description"`
	YearPublished apiIntValue   `xml:"yearpublished"`
	MinPlayers    apiIntValue   `xml:"minplayers"`
	MaxPlayers    apiIntValue   `xml:"maxplayers"`
	PlayingTime   apiIntValue   `xml:"playingtime"`
	MinPlayTime   apiIntValue   `xml:"minplaytime"`
	MaxPlayTime   apiIntValue   `xml:"maxplaytime"`
	MinAge        apiIntValue   `xml:"minage"`
	Links         []apiLink     `xml:"link"`
	Statistics    apiStatistics `xml:"statistics"`
}

// apiName carries a primary or alternate title.
type apiName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// apiLink is a typed association (category, mechanic, designer, ...).
type apiLink struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// apiIntValue unwraps the <tag value="N"/> convention the API uses for scalars.
type apiIntValue struct {
	Value int `xml:"value,attr"`
}

type apiStatistics struct {
	Ratings apiRatings `xml:"ratings"`
}

type apiRatings struct {
	AverageWeight apiFloatValue `xml:"averageweight"`
}

type apiFloatValue struct {
	Value float64 `xml:"value,attr"`
}
