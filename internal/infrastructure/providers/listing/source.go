// Package listing resolves the company's public business listing through
// a places API: a text search to find the place, then a details call for
// the profile, reviews, and verification status.
package listing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/httpapi"
	"github.com/leadbeacon/beacon/internal/infrastructure/resilience"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	defaultTimeout = 10 * time.Second

	maxReviews      = 5
	reviewTextLimit = 200

	operationalStatus = "OPERATIONAL"
)

var detailFields = "name,formatted_address,formatted_phone_number,business_status," +
	"rating,user_ratings_total,reviews,types,photos,website,url"

type Source struct {
	httpClient *http.Client
	exec       *resilience.Executor
	baseURL    string
	apiKey     string
}

func New(exec *resilience.Executor, apiKey string) *Source {
	return &Source{
		httpClient: &http.Client{Timeout: defaultTimeout},
		exec:       exec,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// Lookup searches for "company domain" and loads the best match. A search
// with no candidates is a found=false result, not an error.
func (s *Source) Lookup(ctx context.Context, companyName, targetURL string) (*domain.ListingResult, error) {
	var result *domain.ListingResult
	err := s.exec.Execute(ctx, "business_listing", func(ctx context.Context) error {
		res, err := s.lookup(ctx, companyName, targetURL)
		if err != nil {
			return err
		}
		result = res
		return nil
	}, httpapi.Classify)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderBusinessListing, "look up business listing", err)
	}
	return result, nil
}

func (s *Source) lookup(ctx context.Context, companyName, targetURL string) (*domain.ListingResult, error) {
	placeID, err := s.searchPlace(ctx, companyName, httpapi.CleanDomain(targetURL))
	if err != nil {
		return nil, err
	}
	if placeID == "" {
		return &domain.ListingResult{Found: false}, nil
	}

	profile, err := s.placeDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &domain.ListingResult{Found: true, Profile: profile}, nil
}

func (s *Source) searchPlace(ctx context.Context, companyName, cleanDomain string) (string, error) {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("%s %s", companyName, cleanDomain))
	q.Set("key", s.apiKey)

	var resp searchResponse
	if err := httpapi.GetJSON(ctx, s.httpClient, s.baseURL+"/textsearch/json?"+q.Encode(), &resp, "listing_search"); err != nil {
		return "", err
	}
	if resp.Status == "ZERO_RESULTS" || len(resp.Results) == 0 {
		return "", nil
	}
	if resp.Status != "OK" {
		return "", fmt.Errorf("listing search status %s: %s", resp.Status, resp.ErrorMessage)
	}
	return resp.Results[0].PlaceID, nil
}

func (s *Source) placeDetails(ctx context.Context, placeID string) (*domain.BusinessProfile, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailFields)
	q.Set("key", s.apiKey)

	var resp detailsResponse
	if err := httpapi.GetJSON(ctx, s.httpClient, s.baseURL+"/details/json?"+q.Encode(), &resp, "listing_details"); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("listing details status %s: %s", resp.Status, resp.ErrorMessage)
	}

	place := resp.Result
	profile := &domain.BusinessProfile{
		Name:           place.Name,
		Address:        place.FormattedAddress,
		Phone:          place.FormattedPhoneNumber,
		BusinessStatus: place.BusinessStatus,
		Rating:         place.Rating,
		ReviewCount:    place.UserRatingsTotal,
		Categories:     place.Types,
		HasPhotos:      len(place.Photos) > 0,
		PhotoCount:     len(place.Photos),
		Website:        place.Website,
		MapsURL:        place.URL,
		Verified:       place.BusinessStatus == operationalStatus,
	}
	for _, rev := range place.Reviews {
		profile.Reviews = append(profile.Reviews, domain.Review{
			Author:  rev.AuthorName,
			Rating:  rev.Rating,
			TimeAgo: rev.RelativeTimeDescription,
			Text:    clipReview(rev.Text),
		})
		if len(profile.Reviews) == maxReviews {
			break
		}
	}
	return profile, nil
}

func clipReview(text string) string {
	if len(text) <= reviewTextLimit {
		return text
	}
	return text[:reviewTextLimit] + "..."
}

type searchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID string `json:"place_id"`
	} `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name                 string   `json:"name"`
		FormattedAddress     string   `json:"formatted_address"`
		FormattedPhoneNumber string   `json:"formatted_phone_number"`
		BusinessStatus       string   `json:"business_status"`
		Rating               float64  `json:"rating"`
		UserRatingsTotal     int      `json:"user_ratings_total"`
		Types                []string `json:"types"`
		Website              string   `json:"website"`
		URL                  string   `json:"url"`
		Photos               []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
		Reviews []struct {
			AuthorName              string  `json:"author_name"`
			Rating                  float64 `json:"rating"`
			RelativeTimeDescription string  `json:"relative_time_description"`
			Text                    string  `json:"text"`
		} `json:"reviews"`
	} `json:"result"`
}
