package domain

// Position is an employee role attached to exactly one office.
type Position struct {
	Title string  `json:"title"`
	FTE   float64 `json:"fte"`
	// IdeaFunded marks positions funded by the IDEA grant.
	IdeaFunded bool `json:"ideaFunded"`
}
