package bhoonidhi

import "netra/internal/mission"

type tokenRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type searchRequest struct {
	Collections []string     `json:"collections"`
	Datetime    string       `json:"datetime"`
	BBox        mission.BBox `json:"bbox"`
	Limit       int          `json:"limit"`
}

// FeatureCollection is the STAC search payload. Only id, date and the
// thumbnail href are typed; the rest of a feature is passed through as
// whatever JSON the catalogue sent.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Properties Properties       `json:"properties"`
	Assets     map[string]Asset `json:"assets,omitempty"`
}

type Properties struct {
	Date       string `json:"date"`
	Sensor     any    `json:"sensor,omitempty"`
	CloudCover any    `json:"cloud_cover,omitempty"`
}

type Asset struct {
	Href string `json:"href"`
}

func (f Feature) Thumbnail() string {
	if a, ok := f.Assets["thumbnail"]; ok {
		return a.Href
	}
	return ""
}
