package places

// Place is one autocomplete result from the city lookup upstream.
type Place struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	CountryName string `json:"countryName"`
}
