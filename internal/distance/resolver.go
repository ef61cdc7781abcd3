// Package distance resolves a pincode pair to road distance and transit
// ETA. Primary source is an external road-distance provider; when it is
// unreachable or returns garbage we fall back to the great-circle
// distance between the pincode centroids. The resolver never fails the
// caller: worst case it returns a safe default.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/testforus12-cyber/backend-2-sub000/internal/geo"
)

// Transit calibration: vendors cover roughly 400 km per day by road.
const kmPerDay = 400.0

// Result is the resolved distance and ETA for one pincode pair.
type Result struct {
	DistanceKm float64 `json:"distanceKm"`
	EtaDays    float64 `json:"etaDays"`
}

// defaultResult is returned when even the fallback has nothing to work
// with (unknown centroid). One day, 100 km: close enough to not break a
// quote, wrong enough to show up in reconciliation.
var defaultResult = Result{EtaDays: 1, DistanceKm: 100}

// Resolver calls the provider with a bounded timeout, once, no retry.
type Resolver struct {
	apiURL     string
	apiKey     string
	centroids  geo.CentroidTable
	httpClient *http.Client
}

func NewResolver(apiURL, apiKey string, centroids geo.CentroidTable) *Resolver {
	return &Resolver{
		apiURL:    apiURL,
		apiKey:    apiKey,
		centroids: centroids,
		// Timeout prevents a slow provider from hanging every quote.
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// NewResolverWithClient lets tests inject a transport.
func NewResolverWithClient(apiURL, apiKey string, centroids geo.CentroidTable, client *http.Client) *Resolver {
	r := NewResolver(apiURL, apiKey, centroids)
	r.httpClient = client
	return r
}

// Resolve returns distance and ETA for the pincode pair. Exactly one
// network attempt is made; any failure goes straight to the haversine
// fallback. Never returns an error to the caller.
func (r *Resolver) Resolve(ctx context.Context, originPincode, destPincode string) Result {
	if r.apiURL != "" {
		res, err := r.fromProvider(ctx, originPincode, destPincode)
		if err == nil {
			return res
		}
		log.Printf("distance: provider failed for %s->%s, using haversine fallback: %v", originPincode, destPincode, err)
	}
	return r.fallback(originPincode, destPincode)
}

// fromProvider queries the road-distance API. The response shape follows
// the distance-matrix convention: rows/elements with a distance object
// carrying both display text and meters.
func (r *Resolver) fromProvider(ctx context.Context, origin, dest string) (Result, error) {
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", dest)
	q.Set("key", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("provider status %s", resp.Status)
	}

	var payload struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Text  string `json:"text"`
					Value int64  `json:"value"` // meters
				} `json:"distance"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("parse provider response: %w", err)
	}

	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return Result{}, fmt.Errorf("empty provider payload (status %q)", payload.Status)
	}
	el := payload.Rows[0].Elements[0]
	if el.Status != "" && el.Status != "OK" {
		return Result{}, fmt.Errorf("provider element status %q", el.Status)
	}
	if el.Distance.Value <= 0 {
		return Result{}, fmt.Errorf("non-positive distance %d", el.Distance.Value)
	}

	meters := float64(el.Distance.Value)
	return Result{
		DistanceKm: kmFromText(el.Distance.Text, meters),
		// round(meters/400000, 2dp): fractional days, calibrated against
		// ~400 km/day transit.
		EtaDays: math.Round(meters/(kmPerDay*1000)*100) / 100,
	}, nil
}

// kmFromText parses the provider's display text ("1,234 km"). Falls back
// to the meter value when the text is unparseable.
func kmFromText(text string, meters float64) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	fields := strings.Fields(cleaned)
	if len(fields) > 0 {
		if km, err := strconv.ParseFloat(fields[0], 64); err == nil && km > 0 {
			return km
		}
	}
	return meters / 1000
}

// fallback computes the great-circle distance between the two pincode
// centroids. Whole days here: max(1, ceil(km/400)).
func (r *Resolver) fallback(origin, dest string) Result {
	from, okFrom := r.centroids.Lookup(origin)
	to, okTo := r.centroids.Lookup(dest)
	if !okFrom || !okTo {
		return defaultResult
	}

	km := geo.Haversine(from, to)
	eta := math.Ceil(km / kmPerDay)
	if eta < 1 {
		eta = 1
	}
	return Result{DistanceKm: km, EtaDays: eta}
}
