package listing_api_client

import (
	"encoding/json"
)

// flexString accepts a JSON string or number and keeps its textual form.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = flexString(num.String())
	return nil
}

type listingResponse struct {
	ID       flexString `json:"id"`
	Title    string     `json:"title"`
	Price    flexString `json:"price"`
	ImageURL string     `json:"imgUrl"`
	Lat      float64    `json:"lat"`
	Lng      float64    `json:"lng"`
}

type listingsResponse struct {
	Items []listingResponse `json:"items"`
}
