package listing_api_client

import (
	"encoding/json"
	"fmt"
	"house-map-service/internal/constants"
	"house-map-service/internal/core/domain"
)

// DecodeListings validates a response body and maps it to listings in
// response order.
func DecodeListings(body []byte) ([]domain.Listing, error) {
	if err := validateResponse(constants.ListingsResponseSchemaKey, body); err != nil {
		return nil, err
	}

	var dto listingsResponse
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("decode listings response: %w", err)
	}

	listings := make([]domain.Listing, len(dto.Items))
	for i, item := range dto.Items {
		listings[i] = domain.Listing{
			ID:       string(item.ID),
			Title:    item.Title,
			Price:    string(item.Price),
			ImageURL: item.ImageURL,
			Lat:      item.Lat,
			Lng:      item.Lng,
		}
	}
	if err := domain.ValidateSet(listings); err != nil {
		return nil, err
	}
	return listings, nil
}
